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

	"github.com/gin-gonic/gin"

	"github.com/puredesi/oilshop/internal/domain/model"
	"github.com/puredesi/oilshop/internal/server/http/handlers"
	testhelpers "github.com/puredesi/oilshop/internal/test"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := testhelpers.CommerceFacadeStub{
		CheckoutFacadeStub: testhelpers.CheckoutFacadeStub{
			OrderFn: func(ctx context.Context, ref string) (*model.Order, []model.HistoryEntry, error) {
				return &model.Order{Ref: ref, PaymentStatus: model.PaymentStatusPaid, FulfillmentStatus: model.FulfillmentStatusShipped},
					[]model.HistoryEntry{{OrderRef: ref, Actor: model.ActorCheckout, ToState: "pending/pending"}}, nil
			},
		},
	}
	engine := Setup(facade, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/PD1", nil)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for order lookup, got %d", resp.Code)
	}

	body, _ := json.Marshal(map[string]string{"login": "admin", "password": "secret"})
	req = httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for admin login, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/admin/orders/PD1/ship", nil)
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without admin token, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/admin/orders/PD1/ship", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for admin ship, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/delivery/check-pincode/560001", nil)
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for pincode check, got %d", resp.Code)
	}
}

var _ handlers.CommerceFacade = testhelpers.CommerceFacadeStub{}
