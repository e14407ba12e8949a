package eligibility

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/railqa/railcheck/internal/models"
)

// unboundedAge is the sentinel ceiling for kinds with no real upper age limit
const unboundedAge = 150

// lowerBoundMarginDays keeps a lower-boundary holder safely past the minimum
// age regardless of day-of-month rounding in date arithmetic
const lowerBoundMarginDays = 14

// AgeRange is the inclusive eligible age window for a railcard product
type AgeRange struct {
	Min int
	Max int
}

// AgeRangeFor returns the eligible age window for an age-gated railcard kind.
// The 3-year 16-25 card caps entry at 23 so the holder cannot age out
// mid-term.
func AgeRangeFor(kind models.RailcardKind, years int) (AgeRange, error) {
	if err := models.ValidateDuration(years); err != nil {
		return AgeRange{}, err
	}

	switch kind {
	case models.RailcardTeenAdult:
		maxAge := 25
		if years == 3 {
			maxAge = 23
		}
		return AgeRange{Min: 16, Max: maxAge}, nil
	case models.RailcardYoungAdult:
		return AgeRange{Min: 26, Max: 30}, nil
	case models.RailcardMature:
		return AgeRange{Min: 26, Max: unboundedAge}, nil
	case models.RailcardSenior:
		return AgeRange{Min: 60, Max: unboundedAge}, nil
	default:
		return AgeRange{}, fmt.Errorf("%w: %s is not age-gated", models.ErrUnsupportedRailcard, kind)
	}
}

// Calculator produces synthetic dates of birth sitting exactly at the edge of
// a railcard's age-eligibility window. The clock is injected so fixtures are
// reproducible.
type Calculator struct {
	now func() time.Time
}

// NewCalculator creates a boundary DOB calculator. A nil clock uses the
// system time.
func NewCalculator(now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{now: now}
}

// BoundaryDOB computes a date of birth placing a holder just inside the
// eligibility window for the given railcard kind.
//
// The lower boundary subtracts the minimum age plus a two-week margin, so the
// holder is unambiguously past the line. The upper boundary for kinds with a
// hard ceiling (16-25, 26-30) subtracts maxAge+1 years and adds one day,
// yielding the oldest still-eligible holder; kinds with a sentinel ceiling
// (Mature, Senior) subtract maxAge exactly with no adjustment.
func (c *Calculator) BoundaryDOB(kind models.RailcardKind, boundary models.Boundary, years int) (civil.Date, error) {
	if boundary != models.BoundaryLower && boundary != models.BoundaryUpper {
		return civil.Date{}, fmt.Errorf("%w: %q", models.ErrInvalidBoundary, boundary)
	}

	ageRange, err := AgeRangeFor(kind, years)
	if err != nil {
		return civil.Date{}, err
	}

	today := civil.DateOf(c.now())

	if boundary == models.BoundaryLower {
		return subtractYears(today, ageRange.Min).AddDays(-lowerBoundMarginDays), nil
	}

	if hasHardCeiling(kind) {
		return subtractYears(today, ageRange.Max+1).AddDays(1), nil
	}

	return subtractYears(today, ageRange.Max), nil
}

// IsEligible reports whether a holder with the given date of birth falls
// inside the railcard's age window today
func (c *Calculator) IsEligible(kind models.RailcardKind, years int, dob civil.Date) (bool, error) {
	ageRange, err := AgeRangeFor(kind, years)
	if err != nil {
		return false, err
	}

	age := AgeOn(dob, civil.DateOf(c.now()))
	return age >= ageRange.Min && age <= ageRange.Max, nil
}

// AgeOn returns the whole calendar years between a date of birth and a target
// date
func AgeOn(dob, on civil.Date) int {
	age := on.Year - dob.Year
	if on.Month < dob.Month || (on.Month == dob.Month && on.Day < dob.Day) {
		age--
	}
	return age
}

// hasHardCeiling distinguishes kinds whose upper age limit is enforced
// strictly from kinds where the ceiling is a sentinel
func hasHardCeiling(kind models.RailcardKind) bool {
	return kind == models.RailcardTeenAdult || kind == models.RailcardYoungAdult
}

// subtractYears shifts a date back by whole years. A February 29 start that
// lands on a non-leap year clamps to February 28.
func subtractYears(d civil.Date, years int) civil.Date {
	out := civil.Date{Year: d.Year - years, Month: d.Month, Day: d.Day}
	if !out.IsValid() {
		out.Day = 28
	}
	return out
}
