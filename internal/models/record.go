package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReconciliationStatus represents the outcome of one price reconciliation
type ReconciliationStatus string

// Reconciliation outcomes
const (
	ReconciliationMatched    ReconciliationStatus = "matched"
	ReconciliationMismatched ReconciliationStatus = "mismatched"
)

// ReconciliationRecord is the persisted outcome of reconciling one purchase
// scenario's expected price against the observed checkout total
type ReconciliationRecord struct {
	ID            string
	Profile       string
	Kind          RailcardKind
	DurationYears int
	SKU           string
	PromoCode     string
	Delivery      DeliveryType
	ExpectedPrice float64
	ObservedPrice float64
	Status        ReconciliationStatus
	CreatedAt     time.Time
}

// NewReconciliationRecord builds a record for a completed reconciliation
func NewReconciliationRecord(profile string, quote *PriceQuote, delivery DeliveryType, observed float64, matched bool) *ReconciliationRecord {
	status := ReconciliationMatched
	if !matched {
		status = ReconciliationMismatched
	}

	return &ReconciliationRecord{
		ID:            uuid.New().String(),
		Profile:       profile,
		Kind:          quote.Kind,
		DurationYears: quote.DurationYears,
		SKU:           quote.SKU,
		PromoCode:     quote.PromoCode,
		Delivery:      delivery,
		ExpectedPrice: quote.FinalPrice,
		ObservedPrice: observed,
		Status:        status,
		CreatedAt:     time.Now(),
	}
}

// Matched reports whether the record is a successful reconciliation
func (r *ReconciliationRecord) Matched() bool {
	return r.Status == ReconciliationMatched
}

// Summary formats the record for logging
func (r *ReconciliationRecord) Summary() string {
	return fmt.Sprintf("%s %s/%dyr expected £%.2f observed £%.2f (%s)",
		r.ID, r.Kind, r.DurationYears, r.ExpectedPrice, r.ObservedPrice, r.Status)
}
