package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func testMessages() []Message {
	return []Message{
		{Role: RoleSystem, Content: "Você é a BIA."},
		{Role: RoleUser, Content: "oi"},
	}
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q, want test-model", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[1].Content != "oi" {
			t.Errorf("messages = %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"  Olá! Como posso ajudar?  "}}]}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", "test-model", srv.URL)
	reply, err := c.Generate(context.Background(), testMessages())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if reply != "Olá! Como posso ajudar?" {
		t.Errorf("reply = %q", reply)
	}
}

func TestGenerate_AuthHeader(t *testing.T) {
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", "test-model", srv.URL)
	if _, err := c.Generate(context.Background(), testMessages()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := "Bearer test-key"
	if gotAuth != want {
		t.Errorf("Authorization = %q, want %q", gotAuth, want)
	}
}

func TestGenerate_RateLimit_Retry(t *testing.T) {
	var attempt atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempt.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", "test-model", srv.URL)
	reply, err := c.Generate(context.Background(), testMessages())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if reply != "ok" {
		t.Errorf("reply = %q, want ok", reply)
	}
	if got := attempt.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
}

func TestGenerate_RateLimit_Exhausted(t *testing.T) {
	var attempt atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempt.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", "test-model", srv.URL)
	_, err := c.Generate(context.Background(), testMessages())
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}

	if !IsUnavailable(err) {
		t.Errorf("error = %v, want UnavailableError", err)
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error = %q, want it to contain %q", err.Error(), "rate limited")
	}
	if got := attempt.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestGenerate_AuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("bad-key", "test-model", srv.URL)
	_, err := c.Generate(context.Background(), testMessages())
	if !IsUnavailable(err) {
		t.Errorf("error = %v, want UnavailableError", err)
	}
}

func TestGenerate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", "test-model", srv.URL)
	_, err := c.Generate(context.Background(), testMessages())
	if !IsUnavailable(err) {
		t.Errorf("error = %v, want UnavailableError", err)
	}
}

func TestGenerate_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", "test-model", srv.URL)
	_, err := c.Generate(context.Background(), testMessages())
	if !IsUnavailable(err) {
		t.Errorf("error = %v, want UnavailableError", err)
	}
}

func TestGenerate_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClientWithBaseURL("test-key", "test-model", "http://127.0.0.1:0")
	_, err := c.Generate(ctx, testMessages())
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}
