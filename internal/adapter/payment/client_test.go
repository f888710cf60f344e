package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v78"

	"github.com/papermart/papermart/internal/domain/model"
)

const testWebhookSecret = "whsec_test_secret"

func newTestClient() *StripeClient {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewStripeClient("sk_test", testWebhookSecret, "http://localhost/success", "http://localhost/cancel", logger)
}

func eventPayload(eventType, object string) []byte {
	return []byte(fmt.Sprintf(`{"id":"evt_1","object":"event","api_version":%q,"type":%q,"data":{"object":%s}}`, stripe.APIVersion, eventType, object))
}

func signPayload(payload []byte) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyEventRejectsBadSignature(t *testing.T) {
	client := newTestClient()
	payload := eventPayload("checkout.session.completed", `{"id":"cs_1","payment_status":"paid"}`)
	if _, err := client.VerifyEvent(payload, "t=1,v1=deadbeef"); err == nil {
		t.Fatal("expected signature verification error")
	}
}

func TestVerifyEventPaidCheckout(t *testing.T) {
	client := newTestClient()
	payload := eventPayload("checkout.session.completed", `{"id":"cs_1","payment_status":"paid","payment_intent":{"id":"pi_1"}}`)

	event, err := client.VerifyEvent(payload, signPayload(payload))
	if err != nil {
		t.Fatalf("verify returned error: %v", err)
	}
	if event.SessionID != "cs_1" {
		t.Fatalf("unexpected session id %q", event.SessionID)
	}
	if event.PaymentID != "pi_1" {
		t.Fatalf("unexpected payment id %q", event.PaymentID)
	}
	if event.Outcome != model.OutcomePaid {
		t.Fatalf("unexpected outcome %q", event.Outcome)
	}
}

func TestVerifyEventCompletedButUnpaid(t *testing.T) {
	client := newTestClient()
	payload := eventPayload("checkout.session.completed", `{"id":"cs_1","payment_status":"unpaid"}`)

	event, err := client.VerifyEvent(payload, signPayload(payload))
	if err != nil {
		t.Fatalf("verify returned error: %v", err)
	}
	if event.Outcome != model.OutcomePending {
		t.Fatalf("delayed payment must stay pending, got %q", event.Outcome)
	}
}

func TestVerifyEventExpiredSession(t *testing.T) {
	client := newTestClient()
	payload := eventPayload("checkout.session.expired", `{"id":"cs_1"}`)

	event, err := client.VerifyEvent(payload, signPayload(payload))
	if err != nil {
		t.Fatalf("verify returned error: %v", err)
	}
	if event.Outcome != model.OutcomeFailed || event.SessionID != "cs_1" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestVerifyEventPaymentIntentFailure(t *testing.T) {
	client := newTestClient()
	payload := eventPayload("payment_intent.payment_failed", `{"id":"pi_9"}`)

	event, err := client.VerifyEvent(payload, signPayload(payload))
	if err != nil {
		t.Fatalf("verify returned error: %v", err)
	}
	if event.Outcome != model.OutcomeFailed || event.PaymentID != "pi_9" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestVerifyEventUnsupportedType(t *testing.T) {
	client := newTestClient()
	payload := eventPayload("invoice.created", `{"id":"in_1"}`)

	if _, err := client.VerifyEvent(payload, signPayload(payload)); !errors.Is(err, ErrUnsupportedEvent) {
		t.Fatalf("expected unsupported event error, got %v", err)
	}
}
