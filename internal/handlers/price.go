package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/railqa/railcheck/internal/models"
	"github.com/railqa/railcheck/internal/pricing"
)

// PriceHandler computes the expected price for a railcard purchase scenario
type PriceHandler struct {
	engine *pricing.Engine
}

// NewPriceHandler creates a new price handler
func NewPriceHandler(engine *pricing.Engine) *PriceHandler {
	return &PriceHandler{
		engine: engine,
	}
}

// PriceRequest describes the scenario to price
type PriceRequest struct {
	Railcard      string  `json:"railcard"`
	DurationYears int     `json:"durationYears"`
	SKU           string  `json:"sku"`
	PromoCode     string  `json:"promoCode"`
	Delivery      string  `json:"delivery"`
}

// PriceResponse is the expected price breakdown
type PriceResponse struct {
	Railcard          string  `json:"railcard"`
	DurationYears     int     `json:"durationYears"`
	BasePrice         float64 `json:"basePrice"`
	SkipPayment       bool    `json:"skipPayment"`
	DiscountAmount    float64 `json:"discountAmount"`
	DeliverySurcharge float64 `json:"deliverySurcharge"`
	FinalPrice        float64 `json:"finalPrice"`
}

// ServeHTTP handles the price computation request
func (h *PriceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	kind, err := models.ParseRailcardKind(req.Railcard)
	if err != nil {
		sendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	quote, err := h.engine.Quote(r.Context(), kind, req.DurationYears, req.PromoCode, req.SKU, models.DeliveryType(req.Delivery))
	if err != nil {
		log.Printf("Error computing price: %v", err)
		sendErrorResponse(w, err.Error(), statusForError(err))
		return
	}

	sendJSON(w, http.StatusOK, PriceResponse{
		Railcard:          string(quote.Kind),
		DurationYears:     quote.DurationYears,
		BasePrice:         quote.BasePrice,
		SkipPayment:       quote.SkipPayment,
		DiscountAmount:    quote.DiscountAmount,
		DeliverySurcharge: quote.DeliverySurcharge,
		FinalPrice:        quote.FinalPrice,
	})
}
