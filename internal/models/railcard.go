package models

import (
	"errors"
	"fmt"
	"strings"
)

// RailcardKind identifies a railcard product family
type RailcardKind string

// Railcard kinds as they appear in product data
const (
	RailcardTeenAdult        RailcardKind = "1625"
	RailcardYoungAdult       RailcardKind = "2630"
	RailcardMature           RailcardKind = "MATURE"
	RailcardSenior           RailcardKind = "SENIOR"
	RailcardNetwork          RailcardKind = "NETWORK"
	RailcardTwoTogether      RailcardKind = "TWOTOGETHER"
	RailcardFamilyAndFriends RailcardKind = "FAMILYANDFRIENDS"
	RailcardSantander        RailcardKind = "SANTANDER"
	RailcardDisabledPersons  RailcardKind = "DPRC"
)

// Boundary selects which edge of an age-eligibility window to target
type Boundary string

// Boundary directions
const (
	BoundaryLower Boundary = "lower" // just old enough to qualify
	BoundaryUpper Boundary = "upper" // just young enough to still qualify
)

// DeliveryType identifies the fulfilment option chosen at checkout
type DeliveryType string

// Delivery types
const (
	DeliveryStandard DeliveryType = "STANDARD"
	DeliverySpecial  DeliveryType = "SPECIAL"
)

// Configuration errors
var (
	ErrUnsupportedRailcard = errors.New("unsupported railcard kind")
	ErrInvalidDuration     = errors.New("duration must be 1 or 3 years")
	ErrInvalidBoundary     = errors.New("boundary must be lower or upper")
)

var allKinds = map[RailcardKind]bool{
	RailcardTeenAdult:        true,
	RailcardYoungAdult:       true,
	RailcardMature:           true,
	RailcardSenior:           true,
	RailcardNetwork:          true,
	RailcardTwoTogether:      true,
	RailcardFamilyAndFriends: true,
	RailcardSantander:        true,
	RailcardDisabledPersons:  true,
}

// ParseRailcardKind converts a product-data string into a RailcardKind
func ParseRailcardKind(s string) (RailcardKind, error) {
	kind := RailcardKind(strings.ToUpper(strings.TrimSpace(s)))
	if !allKinds[kind] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedRailcard, s)
	}
	return kind, nil
}

// ParseBoundary converts a string into a Boundary direction
func ParseBoundary(s string) (Boundary, error) {
	switch Boundary(strings.ToLower(strings.TrimSpace(s))) {
	case BoundaryLower:
		return BoundaryLower, nil
	case BoundaryUpper:
		return BoundaryUpper, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidBoundary, s)
	}
}

// ValidateDuration checks that a railcard duration is one of the sold terms
func ValidateDuration(years int) error {
	if years != 1 && years != 3 {
		return fmt.Errorf("%w: got %d", ErrInvalidDuration, years)
	}
	return nil
}
