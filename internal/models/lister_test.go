package models

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewLister(t *testing.T) {
	lister := NewLister("localhost:1234")

	if lister == nil {
		t.Fatal("NewLister returned nil")
	}
	if lister.host != "localhost:1234" {
		t.Errorf("Expected host 'localhost:1234', got '%s'", lister.host)
	}
	if lister.client == nil {
		t.Error("client not initialized")
	}
}

func TestListAvailableModels_NoHost(t *testing.T) {
	lister := NewLister("")

	err := lister.ListAvailableModels(context.Background(), &strings.Builder{}, "")
	if err == nil {
		t.Error("Expected error for missing host")
	}
}

func TestListAvailableModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"object": "list",
			"data": []map[string]interface{}{
				{"id": "qwen2.5-7b-instruct", "object": "model"},
				{"id": "gemma-2-9b-it", "object": "model"},
			},
		})
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	lister := NewLister(host)

	var out strings.Builder
	err := lister.ListAvailableModels(context.Background(), &out, "gemma-2-9b-it")
	if err != nil {
		t.Fatalf("ListAvailableModels: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "gemma-2-9b-it (selected)") {
		t.Errorf("selected model not marked:\n%s", got)
	}
	if !strings.Contains(got, "qwen2.5-7b-instruct") {
		t.Errorf("model missing from listing:\n%s", got)
	}
	// Sorted order puts gemma before qwen.
	if strings.Index(got, "gemma") > strings.Index(got, "qwen") {
		t.Errorf("models not sorted:\n%s", got)
	}
}

func TestListAvailableModels_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	lister := NewLister(host)

	if err := lister.ListAvailableModels(context.Background(), &strings.Builder{}, ""); err == nil {
		t.Error("Expected error when server is unreachable")
	}
}
