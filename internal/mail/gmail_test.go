package mail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGmailClientSend(t *testing.T) {
	var gotRaw string
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages/send" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		gotRaw = body["raw"]
		json.NewEncoder(w).Encode(map[string]string{"id": "msg-abc"})
	}))
	defer server.Close()

	client := NewGmailClient(server.URL, "tok-123")
	msg := &Message{
		From:    "me@example.com",
		To:      []string{"records@dot.example.gov"},
		Subject: "hello",
		Text:    "body",
		HTML:    "<p>body</p>",
	}

	id, err := client.Send(context.Background(), msg)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if id != "msg-abc" {
		t.Errorf("Send() id = %q, want msg-abc", id)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}

	decoded, err := base64.URLEncoding.DecodeString(gotRaw)
	if err != nil {
		t.Fatalf("raw payload is not url-safe base64: %v", err)
	}
	if !strings.Contains(string(decoded), "To: records@dot.example.gov") {
		t.Errorf("decoded payload missing To header: %q", decoded)
	}
}

func TestGmailClientListLabels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/labels" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"labels": []map[string]string{
				{"id": "Label_1", "name": "FOIA"},
				{"id": "Label_2", "name": "FOIA - UNFINISHED"},
			},
		})
	}))
	defer server.Close()

	client := NewGmailClient(server.URL, "tok")
	labels, err := client.ListLabels(context.Background())
	if err != nil {
		t.Fatalf("ListLabels() error = %v", err)
	}
	if labels["FOIA"] != "Label_1" || labels["FOIA - UNFINISHED"] != "Label_2" {
		t.Errorf("ListLabels() = %v", labels)
	}
}

func TestGmailClientCreateLabel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["name"] != "FOIA" {
			t.Errorf("create body = %v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "Label_9", "name": "FOIA"})
	}))
	defer server.Close()

	client := NewGmailClient(server.URL, "tok")
	id, err := client.CreateLabel(context.Background(), "FOIA")
	if err != nil {
		t.Fatalf("CreateLabel() error = %v", err)
	}
	if id != "Label_9" {
		t.Errorf("CreateLabel() = %q", id)
	}
}

func TestGmailClientApplyLabels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages/msg-abc/modify" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string][]string
		json.NewDecoder(r.Body).Decode(&body)
		if len(body["addLabelIds"]) != 1 || body["addLabelIds"][0] != "Label_1" {
			t.Errorf("modify body = %v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "msg-abc"})
	}))
	defer server.Close()

	client := NewGmailClient(server.URL, "tok")
	if err := client.ApplyLabels(context.Background(), "msg-abc", []string{"Label_1"}); err != nil {
		t.Fatalf("ApplyLabels() error = %v", err)
	}
}

func TestGmailClientRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"labels": []map[string]string{}})
	}))
	defer server.Close()

	client := NewGmailClient(server.URL, "tok")
	if _, err := client.ListLabels(context.Background()); err != nil {
		t.Fatalf("ListLabels() error = %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestGmailClientDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewGmailClient(server.URL, "tok")
	if _, err := client.ListLabels(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}
