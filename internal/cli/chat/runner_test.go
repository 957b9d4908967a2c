package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newAskServer(t *testing.T, answer string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/ask" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req struct {
			Question string `json:"question"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"question": req.Question,
			"answer":   answer,
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRunOneShotQuestion(t *testing.T) {
	server := newAskServer(t, "Downtown has the highest net sales.")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := Run(context.Background(), []string{"-base-url", server.URL, "Which", "store", "leads?"}, Options{
		Stdout: stdout,
		Stderr: stderr,
	})

	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if strings.TrimSpace(stdout.String()) != "Downtown has the highest net sales." {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestRunInteractiveSessionStopsOnExit(t *testing.T) {
	server := newAskServer(t, "42 items.")

	stdin := strings.NewReader("how many items?\nexit\n")
	stdout := &bytes.Buffer{}
	code := Run(context.Background(), []string{"-base-url", server.URL}, Options{
		Stdin:  stdin,
		Stdout: stdout,
	})

	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout.String(), welcome) {
		t.Fatal("missing welcome line")
	}
	if !strings.Contains(stdout.String(), "42 items.") {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestRunSkipsBlankLines(t *testing.T) {
	server := newAskServer(t, "ok")

	stdin := strings.NewReader("\n   \nquit\n")
	stdout := &bytes.Buffer{}
	code := Run(context.Background(), []string{"-base-url", server.URL}, Options{
		Stdin:  stdin,
		Stdout: stdout,
	})
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if strings.Contains(stdout.String(), "ok") {
		t.Fatal("blank lines must not trigger requests")
	}
}

func TestRunReportsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error_code":"QUESTION_REQUIRED"}`, http.StatusBadRequest)
	}))
	t.Cleanup(server.Close)

	stderr := &bytes.Buffer{}
	code := Run(context.Background(), []string{"-base-url", server.URL, "anything"}, Options{
		Stderr: stderr,
	})
	if code != 1 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stderr.String(), "http 400") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	stderr := &bytes.Buffer{}
	code := Run(context.Background(), []string{"-unknown"}, Options{Stderr: stderr})
	if code != 2 {
		t.Fatalf("exit code = %d", code)
	}
}
