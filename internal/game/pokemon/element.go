package pokemon

import (
	"fmt"
	"strings"
)

// Element is a creature's elemental type.
// The zero value (ElementUnknown) is intentionally invalid.
type Element int

const (
	ElementUnknown Element = iota
	Fire
	Water
	Grass
	Electric
)

// Elements lists every valid element in declaration order.
var Elements = []Element{Fire, Water, Grass, Electric}

// String returns the capitalized type label ("Fire", "Water", "Grass",
// "Electric") or "Unknown".
func (e Element) String() string {
	switch e {
	case Fire:
		return "Fire"
	case Water:
		return "Water"
	case Grass:
		return "Grass"
	case Electric:
		return "Electric"
	default:
		return "Unknown"
	}
}

// ParseElement resolves a type label case-insensitively.
//
// Postcondition: Returns a valid Element or an error naming the input.
func ParseElement(s string) (Element, error) {
	for _, e := range Elements {
		if strings.EqualFold(strings.TrimSpace(s), e.String()) {
			return e, nil
		}
	}
	return ElementUnknown, fmt.Errorf("unknown element %q", s)
}

// TypeMatching selects how an attacker's multiplier table is keyed against
// the defender's type label.
type TypeMatching int

const (
	// MatchNormalized compares type labels case-insensitively, so the
	// multiplier table applies.
	MatchNormalized TypeMatching = iota
	// MatchLiteral compares the table's lower-case keys against the
	// capitalized label exactly. No key ever matches, so every attack uses
	// the default multiplier of 1.0.
	MatchLiteral
)

// String returns "normalized" or "literal".
func (m TypeMatching) String() string {
	if m == MatchLiteral {
		return "literal"
	}
	return "normalized"
}

// ParseTypeMatching resolves "normalized" or "literal".
func ParseTypeMatching(s string) (TypeMatching, error) {
	switch strings.ToLower(s) {
	case "normalized":
		return MatchNormalized, nil
	case "literal":
		return MatchLiteral, nil
	default:
		return MatchNormalized, fmt.Errorf("unknown type matching mode %q", s)
	}
}

// key returns the multiplier-table lookup key for label under m.
func (m TypeMatching) key(label string) string {
	if m == MatchLiteral {
		return label
	}
	return strings.ToLower(label)
}
