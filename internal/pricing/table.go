package pricing

import (
	"fmt"

	"github.com/railqa/railcheck/internal/models"
)

// Table maps a railcard product (kind + duration) to its catalog price in GBP.
// The table is injectable so it can be kept in sync with the priced catalog
// without code changes.
type Table map[TableKey]float64

// TableKey identifies one priced railcard product
type TableKey struct {
	Kind  models.RailcardKind
	Years int
}

// DefaultTable returns the current catalog prices.
// Santander cards are free regardless of duration; the Disabled Persons
// Railcard is priced below the default tier.
func DefaultTable() Table {
	t := Table{}

	oneYearKinds := []models.RailcardKind{
		models.RailcardTeenAdult,
		models.RailcardYoungAdult,
		models.RailcardMature,
		models.RailcardSenior,
		models.RailcardNetwork,
		models.RailcardTwoTogether,
		models.RailcardFamilyAndFriends,
	}
	for _, kind := range oneYearKinds {
		t[TableKey{kind, 1}] = 35.00
		t[TableKey{kind, 3}] = 80.00
	}

	t[TableKey{models.RailcardDisabledPersons, 1}] = 20.00
	t[TableKey{models.RailcardDisabledPersons, 3}] = 54.00
	t[TableKey{models.RailcardSantander, 1}] = 0.00
	t[TableKey{models.RailcardSantander, 3}] = 0.00

	return t
}

// BasePrice looks up the catalog price for a railcard product
func (t Table) BasePrice(kind models.RailcardKind, years int) (float64, error) {
	if err := models.ValidateDuration(years); err != nil {
		return 0, err
	}

	price, ok := t[TableKey{kind, years}]
	if !ok {
		return 0, fmt.Errorf("%w: no price for %s/%dyr", models.ErrUnsupportedRailcard, kind, years)
	}

	return price, nil
}
