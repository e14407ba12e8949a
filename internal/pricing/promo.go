package pricing

import "context"

// Promo tags recognised from the orders API validation response
const (
	TagSkipEligibility = "SKIP_ELIGIBILITY"
	TagSkipPayment     = "SKIP_PAYMENT"
	TagSantander       = "SANTANDER"
)

// PromoValidation is the orders API response to a promocode validation call.
// The discount amount arrives in one of three shapes depending on the
// promotion type, so all three fields are optional.
type PromoValidation struct {
	Tags               []string       `json:"tags"`
	TotalDiscountValue *float64       `json:"totalDiscountValue,omitempty"`
	DiscountAmount     *float64       `json:"discountAmount,omitempty"`
	Discounts          []DiscountLine `json:"discounts,omitempty"`
}

// DiscountLine is one entry of the itemised discount shape
type DiscountLine struct {
	Amount float64 `json:"amount"`
}

// HasTag reports whether the validation response carries the given tag
func (v *PromoValidation) HasTag(tag string) bool {
	for _, t := range v.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Discount extracts the total discount from whichever response shape the
// orders API used: a totalDiscountValue field, a discountAmount field, or an
// itemised discounts list to sum. A response with none of the three means no
// discount, not an error.
func (v *PromoValidation) Discount() float64 {
	if v == nil {
		return 0
	}

	if v.TotalDiscountValue != nil {
		return *v.TotalDiscountValue
	}

	if v.DiscountAmount != nil {
		return *v.DiscountAmount
	}

	if v.Discounts != nil {
		var total float64
		for _, d := range v.Discounts {
			total += d.Amount
		}
		return total
	}

	return 0
}

// PromoValidator validates a promocode against the orders API for a product
// at a given price
type PromoValidator interface {
	ValidatePromo(ctx context.Context, code, sku string, price float64) (*PromoValidation, error)
}
