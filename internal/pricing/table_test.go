package pricing

import (
	"errors"
	"testing"

	"github.com/railqa/railcheck/internal/models"
)

func TestDefaultTableBasePrice(t *testing.T) {
	tests := []struct {
		name  string
		kind  models.RailcardKind
		years int
		want  float64
	}{
		{"16-25 one year", models.RailcardTeenAdult, 1, 35.00},
		{"16-25 three years", models.RailcardTeenAdult, 3, 80.00},
		{"26-30 one year", models.RailcardYoungAdult, 1, 35.00},
		{"mature one year", models.RailcardMature, 1, 35.00},
		{"senior one year", models.RailcardSenior, 1, 35.00},
		{"senior three years", models.RailcardSenior, 3, 80.00},
		{"network one year", models.RailcardNetwork, 1, 35.00},
		{"two together one year", models.RailcardTwoTogether, 1, 35.00},
		{"family and friends three years", models.RailcardFamilyAndFriends, 3, 80.00},
		{"disabled persons one year", models.RailcardDisabledPersons, 1, 20.00},
		{"disabled persons three years", models.RailcardDisabledPersons, 3, 54.00},
		{"santander one year", models.RailcardSantander, 1, 0.00},
		{"santander three years", models.RailcardSantander, 3, 0.00},
	}

	table := DefaultTable()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.BasePrice(tt.kind, tt.years)
			if err != nil {
				t.Fatalf("BasePrice() unexpected error = %v", err)
			}
			// Catalog prices are exact, not tolerance-compared
			if got != tt.want {
				t.Errorf("BasePrice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBasePriceErrors(t *testing.T) {
	tests := []struct {
		name    string
		kind    models.RailcardKind
		years   int
		wantErr error
	}{
		{"unknown kind", models.RailcardKind("VETERAN"), 1, models.ErrUnsupportedRailcard},
		{"invalid duration - zero", models.RailcardTeenAdult, 0, models.ErrInvalidDuration},
		{"invalid duration - two years", models.RailcardTeenAdult, 2, models.ErrInvalidDuration},
		{"missing table entry", models.RailcardKind("1625"), 1, nil},
	}

	table := DefaultTable()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := table.BasePrice(tt.kind, tt.years)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("BasePrice() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("BasePrice() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBasePriceEmptyTable(t *testing.T) {
	table := Table{}

	_, err := table.BasePrice(models.RailcardTeenAdult, 1)
	if !errors.Is(err, models.ErrUnsupportedRailcard) {
		t.Errorf("BasePrice() on empty table error = %v, want %v", err, models.ErrUnsupportedRailcard)
	}
}
