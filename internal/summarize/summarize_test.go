package summarize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(t *testing.T, body string, check func(req request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if check != nil {
			check(req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func TestSummarizeChoicesStringContent(t *testing.T) {
	srv := serve(t, `{"choices": [{"message": {"content": "the summary"}}]}`, func(req request) {
		if req.Model != "sonar" {
			t.Errorf("model = %q, want sonar", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("messages = %+v, want system then user", req.Messages)
		}
	})
	defer srv.Close()

	got, err := NewClient(srv.URL, "key", "sonar").Summarize(context.Background(), "prompt", "transcript")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != "the summary" {
		t.Errorf("got %q", got)
	}
}

func TestSummarizeChoicesBlockContent(t *testing.T) {
	srv := serve(t, `{"choices": [{"message": {"content": [
		{"type": "text", "text": "part one "},
		{"type": "text", "text": "part two"}
	]}}]}`, nil)
	defer srv.Close()

	got, err := NewClient(srv.URL, "key", "sonar").Summarize(context.Background(), "p", "t")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != "part one part two" {
		t.Errorf("got %q", got)
	}
}

func TestSummarizePredictionsShape(t *testing.T) {
	srv := serve(t, `{"predictions": ["predicted summary"]}`, nil)
	defer srv.Close()

	got, err := NewClient(srv.URL, "key", "sonar").Summarize(context.Background(), "p", "t")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != "predicted summary" {
		t.Errorf("got %q", got)
	}
}

func TestSummarizeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, "key", "sonar").Summarize(context.Background(), "p", "t"); err == nil {
		t.Fatal("expected error on HTTP 429")
	}
}

func TestSummarizeEmptyResponse(t *testing.T) {
	srv := serve(t, `{}`, nil)
	defer srv.Close()

	if _, err := NewClient(srv.URL, "key", "sonar").Summarize(context.Background(), "p", "t"); err == nil {
		t.Fatal("expected error on empty response")
	}
}
