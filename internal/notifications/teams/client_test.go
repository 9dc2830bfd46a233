package teams

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendPostsMessageCard(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	link := "https://crm.example/deals/42"
	err := NewClient().Send(context.Background(), srv.URL, "Neue Erwähnung in Projekt Adler", "Max hat dich erwähnt", &link)
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if got["@type"] != "MessageCard" {
		t.Fatalf("@type = %v", got["@type"])
	}
	if got["title"] != "Neue Erwähnung in Projekt Adler" {
		t.Fatalf("title = %v", got["title"])
	}
	actions, ok := got["potentialAction"].([]any)
	if !ok || len(actions) != 1 {
		t.Fatalf("expected one potentialAction, got %v", got["potentialAction"])
	}
}

func TestSendWithoutLinkOmitsAction(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
	}))
	defer srv.Close()

	if err := NewClient().Send(context.Background(), srv.URL, "Titel", "Text", nil); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if _, present := got["potentialAction"]; present {
		t.Fatal("card without link must omit potentialAction")
	}
}

func TestSendTreatsNon2xxAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("rate limited"))
	}))
	defer srv.Close()

	err := NewClient().Send(context.Background(), srv.URL, "Titel", "Text", nil)
	if err == nil {
		t.Fatal("expected an error for a 429 response")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("error should carry status and body excerpt: %v", err)
	}
}
