package models

import "fmt"

// PriceQuote is the expected charge for one railcard purchase scenario.
// It is built fresh per scenario, compared once against the observed
// checkout total, and discarded.
type PriceQuote struct {
	Kind              RailcardKind
	DurationYears     int
	SKU               string
	BasePrice         float64
	PromoCode         string
	SkipPayment       bool
	DiscountAmount    float64
	DeliverySurcharge float64
	FinalPrice        float64
}

// HasPromo reports whether a promocode was applied to this quote
func (q *PriceQuote) HasPromo() bool {
	return q.PromoCode != ""
}

// String formats the quote for logging
func (q *PriceQuote) String() string {
	return fmt.Sprintf("%s/%dyr base £%.2f discount £%.2f surcharge £%.2f final £%.2f",
		q.Kind, q.DurationYears, q.BasePrice, q.DiscountAmount, q.DeliverySurcharge, q.FinalPrice)
}

// PromoFlags are the effects granted by a validated promocode.
// Unknown tags returned by the orders API are ignored.
type PromoFlags struct {
	SkipEligibility bool
	SkipPayment     bool
	IsSantander     bool
}
