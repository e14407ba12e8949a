package pricing

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/railqa/railcheck/internal/models"
)

// SpecialDeliverySurcharge is the fixed charge added for expedited delivery
const SpecialDeliverySurcharge = 6.85

// PriceTolerance is the maximum accepted gap between the expected and the
// observed price. It absorbs display rounding only, so it stays at one penny.
const PriceTolerance = 0.01

// PriceMismatchError reports an observed checkout total that differs from the
// expected price beyond tolerance. Both values are carried for diagnostics.
type PriceMismatchError struct {
	Expected float64
	Observed float64
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("price mismatch: expected £%.2f, observed £%.2f", e.Expected, e.Observed)
}

// Engine computes the price a purchaser should be charged for a railcard
// configuration and reconciles it against an independently observed total.
// It holds no state between calls.
type Engine struct {
	table     Table
	validator PromoValidator
}

// NewEngine creates a pricing engine over a price table and a promo validator
func NewEngine(table Table, validator PromoValidator) *Engine {
	return &Engine{
		table:     table,
		validator: validator,
	}
}

// BasePrice returns the catalog price for a railcard product without any
// promotion applied
func (e *Engine) BasePrice(kind models.RailcardKind, years int) (float64, error) {
	return e.table.BasePrice(kind, years)
}

// ResolvePromoFlags validates a promocode and maps the returned tags to their
// effects. A blank promocode short-circuits to all-false without calling the
// orders API.
func (e *Engine) ResolvePromoFlags(ctx context.Context, code, sku string, basePrice float64) (models.PromoFlags, error) {
	if strings.TrimSpace(code) == "" {
		return models.PromoFlags{}, nil
	}

	validation, err := e.validator.ValidatePromo(ctx, code, sku, basePrice)
	if err != nil {
		return models.PromoFlags{}, fmt.Errorf("failed to validate promocode %q: %w", code, err)
	}

	return models.PromoFlags{
		SkipEligibility: validation.HasTag(TagSkipEligibility),
		SkipPayment:     validation.HasTag(TagSkipPayment),
		IsSantander:     validation.HasTag(TagSantander),
	}, nil
}

// ComputeFinalPrice calculates the amount the purchaser should be charged:
// the base price, collapsed to zero by a SKIP_PAYMENT promotion, minus the
// promo discount (floored at zero), plus the special-delivery surcharge.
//
// A promocode costs two sequential orders API calls: one to resolve tags at
// the base price, then one to resolve the discount at the skip-payment
// adjusted price.
func (e *Engine) ComputeFinalPrice(ctx context.Context, basePrice float64, code, sku string, delivery models.DeliveryType) (float64, error) {
	finalPrice := basePrice

	if strings.TrimSpace(code) != "" {
		flags, err := e.ResolvePromoFlags(ctx, code, sku, basePrice)
		if err != nil {
			return 0, err
		}

		if flags.SkipPayment {
			finalPrice = 0
		}

		validation, err := e.validator.ValidatePromo(ctx, code, sku, finalPrice)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve promocode discount for %q: %w", code, err)
		}

		finalPrice = ApplyDiscount(finalPrice, validation.Discount())
	}

	if delivery == models.DeliverySpecial {
		finalPrice += SpecialDeliverySurcharge
	}

	return round2(finalPrice), nil
}

// Quote builds the full expected price breakdown for a purchase scenario
func (e *Engine) Quote(ctx context.Context, kind models.RailcardKind, years int, code, sku string, delivery models.DeliveryType) (*models.PriceQuote, error) {
	basePrice, err := e.BasePrice(kind, years)
	if err != nil {
		return nil, err
	}

	quote := &models.PriceQuote{
		Kind:          kind,
		DurationYears: years,
		SKU:           sku,
		BasePrice:     basePrice,
		PromoCode:     strings.TrimSpace(code),
	}

	priceAfterSkip := basePrice
	if quote.HasPromo() {
		flags, err := e.ResolvePromoFlags(ctx, code, sku, basePrice)
		if err != nil {
			return nil, err
		}
		quote.SkipPayment = flags.SkipPayment

		if flags.SkipPayment {
			priceAfterSkip = 0
		}

		validation, err := e.validator.ValidatePromo(ctx, code, sku, priceAfterSkip)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve promocode discount for %q: %w", code, err)
		}
		quote.DiscountAmount = validation.Discount()
	}

	quote.FinalPrice = ApplyDiscount(priceAfterSkip, quote.DiscountAmount)

	if delivery == models.DeliverySpecial {
		quote.DeliverySurcharge = SpecialDeliverySurcharge
		quote.FinalPrice += SpecialDeliverySurcharge
	}

	quote.FinalPrice = round2(quote.FinalPrice)

	return quote, nil
}

// Reconcile compares the expected price against the observed checkout total.
// A gap beyond PriceTolerance is a hard failure.
func (e *Engine) Reconcile(expected, observed float64) error {
	if math.Abs(expected-observed) > PriceTolerance {
		return &PriceMismatchError{Expected: expected, Observed: observed}
	}
	return nil
}

// ApplyDiscount subtracts a discount from a price, never going negative
func ApplyDiscount(price, discount float64) float64 {
	final := price - discount
	if final < 0 {
		return 0
	}
	return round2(final)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
