/**
 * @description
 * This file contains the HTTP handler functions for the checkout-service.
 * Handlers are responsible for parsing incoming requests, calling the
 * appropriate business logic in the service layer, and writing the HTTP
 * response. Error mapping follows the funnel policy: validation failures are
 * returned as a field map with the session view, gateway failures are marked
 * retryable, and storage problems never surface at all.
 */
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ashva/checkout-service/internal/app"
	"github.com/ashva/checkout-service/internal/domain"
)

// Handler holds the application services that handlers interact with.
type Handler struct {
	service *app.Service
	catalog *app.Catalog
}

// NewHandler creates a new Handler.
func NewHandler(service *app.Service, catalog *app.Catalog) *Handler {
	return &Handler{service: service, catalog: catalog}
}

// TimeSlotInfo describes one bookable installation window.
type TimeSlotInfo struct {
	ID     domain.TimeSlot `json:"id"`
	Label  string          `json:"label"`
	Window string          `json:"window"`
}

var timeSlots = []TimeSlotInfo{
	{ID: domain.SlotMorning, Label: "Morning", Window: "9 AM - 12 PM"},
	{ID: domain.SlotAfternoon, Label: "Afternoon", Window: "12 PM - 3 PM"},
	{ID: domain.SlotEvening, Label: "Evening", Window: "3 PM - 6 PM"},
}

// sessionRef identifies a checkout session by its plan + tenure selection.
type sessionRef struct {
	PlanID       string `json:"plan_id"`
	TenureMonths int    `json:"tenure_months"`
}

// handleListPlans returns the active plan catalog with per-plan pricing for
// the monthly mode; clients fetch prepaid quotes per selection.
func (h *Handler) handleListPlans(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.catalog.Plans(r.Context()))
}

// handleGetPricing returns a single pricing quote for a plan + billing
// selection.
func (h *Handler) handleGetPricing(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "planID")
	plan, ok := h.catalog.PlanByID(r.Context(), planID)
	if !ok {
		respondWithError(w, http.StatusNotFound, "plan not found")
		return
	}

	mode := app.BillingMode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = app.BillingMonthly
	}
	if !mode.IsValid() {
		respondWithError(w, http.StatusBadRequest, "mode must be 'monthly' or 'prepaid'")
		return
	}

	months := 1
	if raw := r.URL.Query().Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondWithError(w, http.StatusBadRequest, "months must be a positive integer")
			return
		}
		months = n
	}

	respondWithJSON(w, http.StatusOK, app.Quote(plan, mode, months))
}

// handleStartSession begins or resumes a checkout session.
func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		sessionRef
		Pincode string `json:"pincode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view := h.service.StartSession(r.Context(), req.PlanID, req.TenureMonths, req.Pincode)
	respondWithJSON(w, http.StatusOK, view)
}

// handleApplyDetails commits the details step fields and advances.
func (h *Handler) handleApplyDetails(w http.ResponseWriter, r *http.Request) {
	var req struct {
		sessionRef
		Customer domain.Customer `json:"customer"`
		Address  domain.Address  `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.service.ApplyDetails(r.Context(), req.PlanID, req.TenureMonths, req.Customer, req.Address)
	h.respondWithView(w, view, err)
}

// handleApplySchedule commits the installation slot and advances.
func (h *Handler) handleApplySchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		sessionRef
		Slot domain.InstallationSlot `json:"installationSlot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.service.ApplySchedule(r.Context(), req.PlanID, req.TenureMonths, req.Slot)
	h.respondWithView(w, view, err)
}

// handleBack moves the session one step backward.
func (h *Handler) handleBack(w http.ResponseWriter, r *http.Request) {
	var req sessionRef
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view := h.service.Back(r.Context(), req.PlanID, req.TenureMonths)
	respondWithJSON(w, http.StatusOK, view)
}

// handleSubmit finalizes the checkout with the payment gateway.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req sessionRef
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Submit(r.Context(), req.PlanID, req.TenureMonths)
	if err != nil {
		if ve, ok := domain.AsValidationError(err); ok {
			respondWithJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"field_errors": ve.Fields,
			})
			return
		}
		switch {
		case errors.Is(err, app.ErrSessionNotAtPayment):
			respondWithError(w, http.StatusConflict, "complete the previous steps before submitting")
		case errors.Is(err, domain.ErrSessionBusy):
			respondWithError(w, http.StatusConflict, "a submission is already in progress")
		case errors.Is(err, domain.ErrGatewayUnavailable):
			respondWithJSON(w, http.StatusBadGateway, map[string]interface{}{
				"error":     "Payment couldn't be initiated. Please try again in a moment.",
				"retryable": true,
			})
		default:
			respondWithError(w, http.StatusInternalServerError, "checkout submission failed")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// handleGetDates returns the offerable installation dates and time windows.
func (h *Handler) handleGetDates(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"dates":      h.service.OfferableDates(),
		"time_slots": timeSlots,
	})
}

// respondWithView writes a session view, downgrading a validation failure to
// a 422 that still carries the full view so the form can re-render.
func (h *Handler) respondWithView(w http.ResponseWriter, view *app.SessionView, err error) {
	if err != nil {
		if _, ok := domain.AsValidationError(err); ok {
			respondWithJSON(w, http.StatusUnprocessableEntity, view)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "checkout step failed")
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// respondWithJSON is a helper function to write JSON responses.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
