package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/railqa/railcheck/internal/models"
	"github.com/railqa/railcheck/internal/pricing"
	"github.com/railqa/railcheck/internal/services"
)

// ReconcileHandler reconciles an observed checkout total against the expected
// price and records the outcome
type ReconcileHandler struct {
	service services.ReconciliationService
}

// NewReconcileHandler creates a new reconcile handler
func NewReconcileHandler(service services.ReconciliationService) *ReconcileHandler {
	return &ReconcileHandler{
		service: service,
	}
}

// ReconcileRequest describes one observed purchase scenario
type ReconcileRequest struct {
	Railcard      string  `json:"railcard"`
	DurationYears int     `json:"durationYears"`
	SKU           string  `json:"sku"`
	PromoCode     string  `json:"promoCode"`
	Delivery      string  `json:"delivery"`
	ObservedPrice float64 `json:"observedPrice"`
}

// ReconcileResponse reports the reconciliation verdict
type ReconcileResponse struct {
	RecordID      string  `json:"recordId"`
	ExpectedPrice float64 `json:"expectedPrice"`
	ObservedPrice float64 `json:"observedPrice"`
	Status        string  `json:"status"`
	Matched       bool    `json:"matched"`
}

// ServeHTTP handles the reconciliation request. A price mismatch answers 409
// with the full verdict so the calling suite can report both values.
func (h *ReconcileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	kind, err := models.ParseRailcardKind(req.Railcard)
	if err != nil {
		sendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Reconcile(r.Context(), services.ScenarioInput{
		Kind:          kind,
		DurationYears: req.DurationYears,
		SKU:           req.SKU,
		PromoCode:     req.PromoCode,
		Delivery:      models.DeliveryType(req.Delivery),
		ObservedPrice: req.ObservedPrice,
	})

	var mismatch *pricing.PriceMismatchError
	if err != nil && !errors.As(err, &mismatch) {
		log.Printf("Error reconciling price: %v", err)
		sendErrorResponse(w, err.Error(), statusForError(err))
		return
	}

	statusCode := http.StatusOK
	if !result.Matched {
		statusCode = http.StatusConflict
	}

	sendJSON(w, statusCode, ReconcileResponse{
		RecordID:      result.Record.ID,
		ExpectedPrice: result.Record.ExpectedPrice,
		ObservedPrice: result.Record.ObservedPrice,
		Status:        string(result.Record.Status),
		Matched:       result.Matched,
	})
}
