package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/salespilot/salespilot/internal/cli/chat"
)

func main() {
	timeout := parseDurationWithDefault(strings.TrimSpace(os.Getenv("SALESPILOT_CHAT_TIMEOUT")), 2*time.Minute)
	options := chat.Options{
		BaseURL: envOr("SALESPILOT_API_URL", "http://localhost:8080"),
		Timeout: timeout,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}

	code := chat.Run(context.Background(), os.Args[1:], options)
	os.Exit(code)
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func parseDurationWithDefault(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "invalid SALESPILOT_CHAT_TIMEOUT %q; using %s\n", raw, fallback)
		return fallback
	}
	return parsed
}
