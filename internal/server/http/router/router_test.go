package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/papermart/papermart/internal/domain/model"
	"github.com/papermart/papermart/internal/server/http/handlers"
	testhelpers "github.com/papermart/papermart/internal/test"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.MarketFacadeStub{
		AuthFacadeStub: testhelpers.AuthFacadeStub{ParsedID: 7, ParsedRole: model.RoleCustomer},
		OrderFacadeStub: testhelpers.OrderFacadeStub{
			OrdersFn: func(context.Context, int64, model.Role) ([]model.Order, error) {
				return []model.Order{{ID: 1, CustomerID: 7, Status: model.OrderStatusPending, CreatedAt: time.Unix(0, 0)}}, nil
			},
		},
	}
	engine := Setup(facade, testhelpers.WebhookVerifierStub{}, logger)

	body, _ := json.Marshal(map[string]string{"email": "user@example.com", "password": "pass"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for register, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for orders, got %d", resp.Code)
	}
}

func TestSetupRejectsUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	engine := Setup(&testhelpers.MarketFacadeStub{}, testhelpers.WebhookVerifierStub{}, logger)

	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", resp.Code)
	}
}

func TestSetupEnforcesRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.MarketFacadeStub{
		AuthFacadeStub: testhelpers.AuthFacadeStub{ParsedID: 7, ParsedRole: model.RoleCustomer},
	}
	engine := Setup(facade, testhelpers.WebhookVerifierStub{}, logger)

	req := httptest.NewRequest(http.MethodPost, "/api/orders/1/accept", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for customer on admin route, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/orders/1/checkout", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201 for customer checkout, got %d", resp.Code)
	}
}

func TestSetupWebhookSkipsAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.MarketFacadeStub{}
	engine := Setup(facade, testhelpers.WebhookVerifierStub{}, logger)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader([]byte(`{"type":"checkout.session.completed"}`)))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for webhook, got %d", resp.Code)
	}
	if len(facade.Events) != 1 {
		t.Fatalf("expected event delivered to facade, got %d", len(facade.Events))
	}
}

var _ handlers.MarketFacade = (*testhelpers.MarketFacadeStub)(nil)
