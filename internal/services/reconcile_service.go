package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/railqa/railcheck/internal/models"
	"github.com/railqa/railcheck/internal/pricing"
)

// ReconciliationRepository defines the interface for reconciliation record
// persistence
type ReconciliationRepository interface {
	CreateRecord(record *models.ReconciliationRecord) error
}

// ScenarioInput describes one purchase scenario to reconcile. The observed
// price comes from the calling suite's UI scraping layer; this service never
// touches the UI itself.
type ScenarioInput struct {
	Kind          models.RailcardKind
	DurationYears int
	SKU           string
	PromoCode     string
	Delivery      models.DeliveryType
	ObservedPrice float64
}

// ReconciliationResult carries the computed quote and the persisted outcome
type ReconciliationResult struct {
	Quote   *models.PriceQuote
	Record  *models.ReconciliationRecord
	Matched bool
}

// ReconciliationService reconciles expected against observed railcard prices
type ReconciliationService interface {
	Reconcile(ctx context.Context, input ScenarioInput) (*ReconciliationResult, error)
}

// ReconciliationServiceImpl implements ReconciliationService
type ReconciliationServiceImpl struct {
	engine  *pricing.Engine
	repo    ReconciliationRepository
	profile string
}

// NewReconciliationService creates a reconciliation service. The profile
// names the active test-data profile; every record is tagged with it.
func NewReconciliationService(engine *pricing.Engine, repo ReconciliationRepository, profile string) ReconciliationService {
	return &ReconciliationServiceImpl{
		engine:  engine,
		repo:    repo,
		profile: profile,
	}
}

// Reconcile computes the expected price for the scenario, compares it with
// the observed checkout total and records the outcome. A mismatch is returned
// as a *pricing.PriceMismatchError alongside the persisted result.
func (s *ReconciliationServiceImpl) Reconcile(ctx context.Context, input ScenarioInput) (*ReconciliationResult, error) {
	quote, err := s.engine.Quote(ctx, input.Kind, input.DurationYears, input.PromoCode, input.SKU, input.Delivery)
	if err != nil {
		return nil, fmt.Errorf("failed to compute expected price: %w", err)
	}

	reconcileErr := s.engine.Reconcile(quote.FinalPrice, input.ObservedPrice)
	matched := reconcileErr == nil

	var mismatch *pricing.PriceMismatchError
	if reconcileErr != nil && !errors.As(reconcileErr, &mismatch) {
		return nil, reconcileErr
	}

	record := models.NewReconciliationRecord(s.profile, quote, input.Delivery, input.ObservedPrice, matched)

	if err := s.repo.CreateRecord(record); err != nil {
		log.Printf("Warning: failed to persist reconciliation record: %v", err)
		// Continue anyway - the reconciliation verdict still stands
	}

	log.Printf("Reconciled %s", record.Summary())

	result := &ReconciliationResult{
		Quote:   quote,
		Record:  record,
		Matched: matched,
	}

	return result, reconcileErr
}
