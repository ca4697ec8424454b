package api

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

	"github.com/ashva/checkout-service/internal/app"
	"github.com/ashva/checkout-service/internal/domain"
	"github.com/ashva/checkout-service/internal/store"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type gatewayStub struct {
	resp *domain.OrderResponse
	err  error
}

func (g *gatewayStub) CreateOrder(ctx context.Context, order domain.OrderRequest) (*domain.OrderResponse, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.resp, nil
}

func newTestRouter(gateway app.Gateway) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog := app.NewCatalog(nil, logger)
	clock := fixedClock{t: time.Date(2025, 6, 10, 11, 30, 0, 0, time.UTC)}
	service := app.NewService(catalog, store.NewMemorySnapshotStore(), gateway, nil, clock, logger)
	return NewRouter(NewHandler(service, catalog))
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) app.SessionView {
	t.Helper()
	var view app.SessionView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode session view: %v (body %s)", err, rec.Body.String())
	}
	return view
}

func TestHandleListPlans(t *testing.T) {
	h := newTestRouter(&gatewayStub{})

	rec := doJSON(t, h, http.MethodGet, "/plans", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var plans []domain.Plan
	if err := json.Unmarshal(rec.Body.Bytes(), &plans); err != nil {
		t.Fatalf("decode plans: %v", err)
	}
	if len(plans) != 4 {
		t.Fatalf("expected 4 fallback plans, got %d", len(plans))
	}
}

func TestHandleGetPricing(t *testing.T) {
	h := newTestRouter(&gatewayStub{})

	rec := doJSON(t, h, http.MethodGet, "/plans/basic-ro/pricing?mode=prepaid&months=12", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}

	var quote app.PricingQuote
	if err := json.Unmarshal(rec.Body.Bytes(), &quote); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if quote.DisplayMonthly != 339 {
		t.Fatalf("expected effective monthly 339 for basic-ro/12m, got %d", quote.DisplayMonthly)
	}

	if rec := doJSON(t, h, http.MethodGet, "/plans/no-such-plan/pricing", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown plan, got %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodGet, "/plans/basic-ro/pricing?mode=weekly", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown mode, got %d", rec.Code)
	}
}

func TestHandleApplyDetails_InvalidPhoneIs422AndStepUnchanged(t *testing.T) {
	h := newTestRouter(&gatewayStub{})

	rec := doJSON(t, h, http.MethodPut, "/checkout/session/details", map[string]interface{}{
		"plan_id":       "basic-ro",
		"tenure_months": 1,
		"customer":      domain.Customer{Name: "Asha", Phone: "12345", Email: "asha@example.com"},
		"address":       domain.Address{Line1: "12 MG Road", Pincode: "560001"},
	})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d (body %s)", rec.Code, rec.Body.String())
	}
	view := decodeView(t, rec)
	if view.Step != domain.StepDetails {
		t.Fatalf("step must stay at details on invalid phone, got %s", view.Step)
	}
	if view.FieldErrors["phone"] == "" {
		t.Fatalf("expected phone error, got %v", view.FieldErrors)
	}
}

func TestCheckoutFunnel_EndToEnd(t *testing.T) {
	gateway := &gatewayStub{resp: &domain.OrderResponse{OrderID: "ord_api", PaymentURL: "https://pay.example.com/ord_api"}}
	h := newTestRouter(gateway)

	rec := doJSON(t, h, http.MethodPost, "/checkout/session", map[string]interface{}{
		"plan_id": "basic-ro", "tenure_months": 12, "pincode": "560001",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("start session: expected 200, got %d", rec.Code)
	}
	if view := decodeView(t, rec); view.Pricing.DisplayMonthly != 339 {
		t.Fatalf("expected 12m prepaid quote 339, got %d", view.Pricing.DisplayMonthly)
	}

	rec = doJSON(t, h, http.MethodPut, "/checkout/session/details", map[string]interface{}{
		"plan_id":       "basic-ro",
		"tenure_months": 12,
		"customer":      domain.Customer{Name: "Asha", Phone: "9876543210", Email: "asha@example.com"},
		"address":       domain.Address{Line1: "12 MG Road", City: "Bengaluru", Pincode: "560001"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("details: expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
	if view := decodeView(t, rec); view.Step != domain.StepSchedule {
		t.Fatalf("expected schedule step, got %s", view.Step)
	}

	// 2025-06-12 is today+2 for the fixed test clock.
	rec = doJSON(t, h, http.MethodPut, "/checkout/session/schedule", map[string]interface{}{
		"plan_id":          "basic-ro",
		"tenure_months":    12,
		"installationSlot": domain.InstallationSlot{Date: "2025-06-12", TimeSlot: domain.SlotMorning},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("schedule: expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
	if view := decodeView(t, rec); view.Step != domain.StepPayment {
		t.Fatalf("expected payment step, got %s", view.Step)
	}

	rec = doJSON(t, h, http.MethodPost, "/checkout/session/submit", map[string]interface{}{
		"plan_id": "basic-ro", "tenure_months": 12,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
	var result app.SubmitResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode submit result: %v", err)
	}
	if result.PaymentURL == "" || result.OrderID != "ord_api" {
		t.Fatalf("unexpected submit result: %+v", result)
	}
}

func TestHandleSubmit_ErrorMapping(t *testing.T) {
	t.Run("before payment step", func(t *testing.T) {
		h := newTestRouter(&gatewayStub{})
		rec := doJSON(t, h, http.MethodPost, "/checkout/session/submit", map[string]interface{}{
			"plan_id": "basic-ro", "tenure_months": 1,
		})
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("invalid edit at review step", func(t *testing.T) {
		h := newTestRouter(&gatewayStub{resp: &domain.OrderResponse{OrderID: "ord_never"}})

		doJSON(t, h, http.MethodPut, "/checkout/session/details", map[string]interface{}{
			"plan_id":       "basic-ro",
			"tenure_months": 1,
			"customer":      domain.Customer{Name: "Asha", Phone: "9876543210", Email: "asha@example.com"},
			"address":       domain.Address{Line1: "12 MG Road", Pincode: "560001"},
		})
		doJSON(t, h, http.MethodPut, "/checkout/session/schedule", map[string]interface{}{
			"plan_id":          "basic-ro",
			"tenure_months":    1,
			"installationSlot": domain.InstallationSlot{Date: "2025-06-12", TimeSlot: domain.SlotMorning},
		})
		// The payment step is a review gate: this edit commits in place.
		doJSON(t, h, http.MethodPut, "/checkout/session/details", map[string]interface{}{
			"plan_id":       "basic-ro",
			"tenure_months": 1,
			"customer":      domain.Customer{Name: "Asha", Phone: "123", Email: "asha@example.com"},
			"address":       domain.Address{Line1: "12 MG Road", Pincode: "560001"},
		})

		rec := doJSON(t, h, http.MethodPost, "/checkout/session/submit", map[string]interface{}{
			"plan_id": "basic-ro", "tenure_months": 1,
		})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d (body %s)", rec.Code, rec.Body.String())
		}
		var body struct {
			FieldErrors map[string]string `json:"field_errors"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		if body.FieldErrors["phone"] == "" {
			t.Fatalf("expected phone error, got %v", body.FieldErrors)
		}
	})

	t.Run("gateway unavailable", func(t *testing.T) {
		gateway := &gatewayStub{err: domain.ErrGatewayUnavailable}
		h := newTestRouter(gateway)

		// Walk to payment first.
		doJSON(t, h, http.MethodPut, "/checkout/session/details", map[string]interface{}{
			"plan_id":       "basic-ro",
			"tenure_months": 1,
			"customer":      domain.Customer{Name: "Asha", Phone: "9876543210", Email: "asha@example.com"},
			"address":       domain.Address{Line1: "12 MG Road", Pincode: "560001"},
		})
		doJSON(t, h, http.MethodPut, "/checkout/session/schedule", map[string]interface{}{
			"plan_id":          "basic-ro",
			"tenure_months":    1,
			"installationSlot": domain.InstallationSlot{Date: "2025-06-12", TimeSlot: domain.SlotMorning},
		})

		rec := doJSON(t, h, http.MethodPost, "/checkout/session/submit", map[string]interface{}{
			"plan_id": "basic-ro", "tenure_months": 1,
		})
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d (body %s)", rec.Code, rec.Body.String())
		}
		var body struct {
			Retryable bool `json:"retryable"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || !body.Retryable {
			t.Fatalf("expected retryable error body, got %s", rec.Body.String())
		}
	})
}

func TestHandleGetDates(t *testing.T) {
	h := newTestRouter(&gatewayStub{})

	rec := doJSON(t, h, http.MethodGet, "/checkout/session/dates", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Dates     []string       `json:"dates"`
		TimeSlots []TimeSlotInfo `json:"time_slots"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode dates: %v", err)
	}
	if len(body.Dates) != 7 || body.Dates[0] != "2025-06-12" {
		t.Fatalf("unexpected offerable dates: %v", body.Dates)
	}
	if len(body.TimeSlots) != 3 {
		t.Fatalf("expected 3 time slots, got %d", len(body.TimeSlots))
	}
}
