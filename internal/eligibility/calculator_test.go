package eligibility

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/railqa/railcheck/internal/models"
)

// fixedClock pins "today" so boundary dates are deterministic
func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	}
}

func TestAgeRangeFor(t *testing.T) {
	tests := []struct {
		name    string
		kind    models.RailcardKind
		years   int
		want    AgeRange
		wantErr error
	}{
		{"16-25 one year", models.RailcardTeenAdult, 1, AgeRange{16, 25}, nil},
		{"16-25 three years caps entry at 23", models.RailcardTeenAdult, 3, AgeRange{16, 23}, nil},
		{"26-30", models.RailcardYoungAdult, 1, AgeRange{26, 30}, nil},
		{"mature has sentinel ceiling", models.RailcardMature, 1, AgeRange{26, 150}, nil},
		{"senior has sentinel ceiling", models.RailcardSenior, 1, AgeRange{60, 150}, nil},
		{"network is not age gated", models.RailcardNetwork, 1, AgeRange{}, models.ErrUnsupportedRailcard},
		{"santander is not age gated", models.RailcardSantander, 1, AgeRange{}, models.ErrUnsupportedRailcard},
		{"invalid duration", models.RailcardTeenAdult, 2, AgeRange{}, models.ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AgeRangeFor(tt.kind, tt.years)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("AgeRangeFor() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("AgeRangeFor() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("AgeRangeFor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBoundaryDOB(t *testing.T) {
	// Today is 15 June 2025 for every case
	calc := NewCalculator(fixedClock(2025, time.June, 15))

	tests := []struct {
		name     string
		kind     models.RailcardKind
		boundary models.Boundary
		years    int
		want     civil.Date
	}{
		{
			// 16 years plus the 14-day margin
			name:     "16-25 lower",
			kind:     models.RailcardTeenAdult,
			boundary: models.BoundaryLower,
			years:    1,
			want:     civil.Date{Year: 2009, Month: time.June, Day: 1},
		},
		{
			// maxAge 25: subtract 26 years, add one day
			name:     "16-25 upper one year",
			kind:     models.RailcardTeenAdult,
			boundary: models.BoundaryUpper,
			years:    1,
			want:     civil.Date{Year: 1999, Month: time.June, Day: 16},
		},
		{
			// three-year product uses the capped maxAge of 23
			name:     "16-25 upper three years",
			kind:     models.RailcardTeenAdult,
			boundary: models.BoundaryUpper,
			years:    3,
			want:     civil.Date{Year: 2001, Month: time.June, Day: 16},
		},
		{
			name:     "26-30 lower",
			kind:     models.RailcardYoungAdult,
			boundary: models.BoundaryLower,
			years:    1,
			want:     civil.Date{Year: 1999, Month: time.June, Day: 1},
		},
		{
			name:     "26-30 upper",
			kind:     models.RailcardYoungAdult,
			boundary: models.BoundaryUpper,
			years:    1,
			want:     civil.Date{Year: 1994, Month: time.June, Day: 16},
		},
		{
			// sentinel ceiling: exactly 150 years back, no day adjustment
			name:     "senior upper",
			kind:     models.RailcardSenior,
			boundary: models.BoundaryUpper,
			years:    1,
			want:     civil.Date{Year: 1875, Month: time.June, Day: 15},
		},
		{
			name:     "senior lower",
			kind:     models.RailcardSenior,
			boundary: models.BoundaryLower,
			years:    1,
			want:     civil.Date{Year: 1965, Month: time.June, Day: 1},
		},
		{
			name:     "mature upper",
			kind:     models.RailcardMature,
			boundary: models.BoundaryUpper,
			years:    1,
			want:     civil.Date{Year: 1875, Month: time.June, Day: 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.BoundaryDOB(tt.kind, tt.boundary, tt.years)
			if err != nil {
				t.Fatalf("BoundaryDOB() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("BoundaryDOB() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundaryDOBLeapDay(t *testing.T) {
	// Subtracting years from Feb 29 clamps to Feb 28 on non-leap years
	calc := NewCalculator(fixedClock(2024, time.February, 29))

	tests := []struct {
		name     string
		kind     models.RailcardKind
		boundary models.Boundary
		want     civil.Date
	}{
		{
			// 2024-26 = 1998, not a leap year: clamp to Feb 28, then the
			// 14-day margin
			name:     "26-30 lower clamps before margin",
			kind:     models.RailcardYoungAdult,
			boundary: models.BoundaryLower,
			want:     civil.Date{Year: 1998, Month: time.February, Day: 14},
		},
		{
			// 2024-150 = 1874, not a leap year
			name:     "senior upper clamps",
			kind:     models.RailcardSenior,
			boundary: models.BoundaryUpper,
			want:     civil.Date{Year: 1874, Month: time.February, Day: 28},
		},
		{
			// 2024-16 = 2008 is a leap year, no clamping needed
			name:     "16-25 lower lands on a leap year",
			kind:     models.RailcardTeenAdult,
			boundary: models.BoundaryLower,
			want:     civil.Date{Year: 2008, Month: time.February, Day: 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.BoundaryDOB(tt.kind, tt.boundary, 1)
			if err != nil {
				t.Fatalf("BoundaryDOB() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("BoundaryDOB() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundaryDOBErrors(t *testing.T) {
	calc := NewCalculator(fixedClock(2025, time.June, 15))

	tests := []struct {
		name     string
		kind     models.RailcardKind
		boundary models.Boundary
		years    int
		wantErr  error
	}{
		{"invalid boundary", models.RailcardTeenAdult, models.Boundary("middle"), 1, models.ErrInvalidBoundary},
		{"invalid duration", models.RailcardTeenAdult, models.BoundaryLower, 5, models.ErrInvalidDuration},
		{"non age-gated kind", models.RailcardTwoTogether, models.BoundaryLower, 1, models.ErrUnsupportedRailcard},
		{"unknown kind", models.RailcardKind("VETERAN"), models.BoundaryUpper, 1, models.ErrUnsupportedRailcard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.BoundaryDOB(tt.kind, tt.boundary, tt.years)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("BoundaryDOB() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAgeOn(t *testing.T) {
	tests := []struct {
		name string
		dob  civil.Date
		on   civil.Date
		want int
	}{
		{
			name: "birthday already passed this year",
			dob:  civil.Date{Year: 2000, Month: time.March, Day: 1},
			on:   civil.Date{Year: 2025, Month: time.June, Day: 15},
			want: 25,
		},
		{
			name: "birthday later this year",
			dob:  civil.Date{Year: 2000, Month: time.October, Day: 1},
			on:   civil.Date{Year: 2025, Month: time.June, Day: 15},
			want: 24,
		},
		{
			name: "on the birthday itself",
			dob:  civil.Date{Year: 2000, Month: time.June, Day: 15},
			on:   civil.Date{Year: 2025, Month: time.June, Day: 15},
			want: 25,
		},
		{
			name: "day before the birthday",
			dob:  civil.Date{Year: 2000, Month: time.June, Day: 16},
			on:   civil.Date{Year: 2025, Month: time.June, Day: 15},
			want: 24,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AgeOn(tt.dob, tt.on); got != tt.want {
				t.Errorf("AgeOn(%v, %v) = %d, want %d", tt.dob, tt.on, got, tt.want)
			}
		})
	}
}

func TestBoundaryDOBRoundTrip(t *testing.T) {
	// Every boundary DOB must classify as eligible: both edges sit just
	// inside the window by construction.
	calc := NewCalculator(fixedClock(2025, time.June, 15))

	kinds := []struct {
		kind  models.RailcardKind
		years int
	}{
		{models.RailcardTeenAdult, 1},
		{models.RailcardTeenAdult, 3},
		{models.RailcardYoungAdult, 1},
		{models.RailcardMature, 1},
		{models.RailcardSenior, 1},
	}

	for _, k := range kinds {
		for _, boundary := range []models.Boundary{models.BoundaryLower, models.BoundaryUpper} {
			t.Run(string(k.kind)+"/"+string(boundary), func(t *testing.T) {
				dob, err := calc.BoundaryDOB(k.kind, boundary, k.years)
				if err != nil {
					t.Fatalf("BoundaryDOB() unexpected error = %v", err)
				}

				eligible, err := calc.IsEligible(k.kind, k.years, dob)
				if err != nil {
					t.Fatalf("IsEligible() unexpected error = %v", err)
				}
				if !eligible {
					t.Errorf("boundary DOB %v is not eligible for %s/%dyr", dob, k.kind, k.years)
				}
			})
		}
	}
}

func TestLowerBoundaryIsSafelyPastMinimumAge(t *testing.T) {
	clock := fixedClock(2025, time.June, 15)
	calc := NewCalculator(clock)

	dob, err := calc.BoundaryDOB(models.RailcardTeenAdult, models.BoundaryLower, 1)
	if err != nil {
		t.Fatalf("BoundaryDOB() unexpected error = %v", err)
	}

	today := civil.DateOf(clock())
	if AgeOn(dob, today) != 16 {
		t.Fatalf("age today = %d, want 16", AgeOn(dob, today))
	}

	// The holder must never be exactly on their 16th birthday
	sixteenthBirthday := civil.Date{Year: dob.Year + 16, Month: dob.Month, Day: dob.Day}
	if days := today.DaysSince(sixteenthBirthday); days < lowerBoundMarginDays {
		t.Errorf("holder is only %d days past the minimum age, want at least %d", days, lowerBoundMarginDays)
	}
}
