package enums

import "fmt"

// RoundingMode names the policy used when commission amounts are rounded to
// the smallest currency unit. Rounding happens once, at the line level.
type RoundingMode string

const (
	RoundingModeHalfUp   RoundingMode = "half_up"
	RoundingModeHalfEven RoundingMode = "half_even"
)

var validRoundingModes = []RoundingMode{
	RoundingModeHalfUp,
	RoundingModeHalfEven,
}

// IsValid reports whether the value matches a supported rounding mode.
func (m RoundingMode) IsValid() bool {
	for _, candidate := range validRoundingModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseRoundingMode converts raw input into RoundingMode.
func ParseRoundingMode(value string) (RoundingMode, error) {
	for _, candidate := range validRoundingModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rounding mode %q", value)
}
