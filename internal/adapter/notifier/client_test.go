package notifier

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etproforma/commerce/internal/domain/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifyPostsEvent(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/notifications" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, discardLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	event := model.OrderEvent{
		RecipientID: 5,
		OrderID:     10,
		Status:      model.OrderStatusApproved,
		Message:     "Your order #10 status changed to approved.",
	}
	if err := client.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	if captured["user_id"] != float64(5) || captured["order_id"] != float64(10) {
		t.Fatalf("unexpected identifiers %v", captured)
	}
	if captured["type"] != "order" || captured["status"] != "approved" {
		t.Fatalf("unexpected payload %v", captured)
	}
}

func TestNotifyReportsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, discardLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Notify(context.Background(), model.OrderEvent{RecipientID: 1, OrderID: 2}); err == nil {
		t.Fatal("expected error for 5xx response")
	}
}

func TestNewHTTPClientRejectsRelativeURL(t *testing.T) {
	if _, err := NewHTTPClient("not-a-url", discardLogger()); err == nil {
		t.Fatal("expected error for relative base url")
	}
}
