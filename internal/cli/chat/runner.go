// Package chat is the terminal front-end over the ask API. It owns the
// conversation display; the service keeps no memory of prior turns.
package chat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

const welcome = "Ask a question about the sales dataset, or type \"exit\" to quit."

func Run(ctx context.Context, args []string, defaults Options) int {
	stdin := defaults.Stdin
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	stdout := defaults.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := defaults.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	fs := flag.NewFlagSet("salespilot-chat", flag.ContinueOnError)
	fs.SetOutput(stderr)

	baseURL := fs.String("base-url", firstNonEmpty(defaults.BaseURL, "http://localhost:8080"), "salespilot API base URL")
	timeout := fs.Duration("timeout", durationOr(defaults.Timeout, 2*time.Minute), "HTTP timeout per question (e.g. 90s)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	client := defaults.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: *timeout}
	}

	// Remaining args are a one-shot question; otherwise run interactively.
	if fs.NArg() > 0 {
		question := strings.TrimSpace(strings.Join(fs.Args(), " "))
		answer, err := ask(ctx, client, *baseURL, question)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "request failed: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(stdout, answer)
		return 0
	}

	_, _ = fmt.Fprintln(stdout, welcome)
	scanner := bufio.NewScanner(stdin)
	for {
		_, _ = fmt.Fprint(stdout, "> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if strings.EqualFold(question, "exit") || strings.EqualFold(question, "quit") {
			break
		}

		answer, err := ask(ctx, client, *baseURL, question)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "request failed: %v\n", err)
			continue
		}
		_, _ = fmt.Fprintln(stdout, answer)
		_, _ = fmt.Fprintln(stdout)
	}
	if err := scanner.Err(); err != nil {
		_, _ = fmt.Fprintf(stderr, "read input: %v\n", err)
		return 1
	}
	return 0
}

func ask(ctx context.Context, client *http.Client, baseURL, question string) (string, error) {
	payload, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(baseURL, "/") + "/v1/ask"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode ask response: %w", err)
	}
	return parsed.Answer, nil
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return b
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
