package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/papermart/papermart/internal/domain/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPDispatcherRejectsRelativeURL(t *testing.T) {
	if _, err := NewHTTPDispatcher("notify.local", discardLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestHTTPDispatcherNotify(t *testing.T) {
	var received message
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	dispatcher, err := NewHTTPDispatcher(server.URL, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = dispatcher.Notify(context.Background(), model.NotifyPaymentConfirmed, "customer@example.com", map[string]string{"order_id": "7"})
	if err != nil {
		t.Fatalf("notify returned error: %v", err)
	}

	if gotPath != "/api/notifications" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if received.Kind != string(model.NotifyPaymentConfirmed) {
		t.Fatalf("unexpected kind %q", received.Kind)
	}
	if received.Recipient != "customer@example.com" {
		t.Fatalf("unexpected recipient %q", received.Recipient)
	}
	if received.Payload["order_id"] != "7" {
		t.Fatalf("unexpected payload %v", received.Payload)
	}
	if received.ID == "" {
		t.Fatal("expected message id")
	}
}

func TestHTTPDispatcherNotifyServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "mailer down", http.StatusInternalServerError)
	}))
	defer server.Close()

	dispatcher, err := NewHTTPDispatcher(server.URL, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := dispatcher.Notify(context.Background(), model.NotifyOrderAccepted, "x@example.com", nil); err == nil {
		t.Fatal("expected error for failed delivery")
	}
}

func TestNopDispatcher(t *testing.T) {
	dispatcher := NewNopDispatcher(discardLogger())
	if err := dispatcher.Notify(context.Background(), model.NotifyOrderRejected, "x@example.com", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
