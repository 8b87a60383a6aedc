package enums

import "fmt"

// PayoutEntryType maps to the payout_entry_type_enum enum in Postgres.
// Snapshots are written once per sale line; reversals are written once per
// refund event and carry negated amounts. Neither is ever updated.
type PayoutEntryType string

const (
	PayoutEntryTypeSale     PayoutEntryType = "sale"
	PayoutEntryTypeReversal PayoutEntryType = "reversal"
)

var validPayoutEntryTypes = []PayoutEntryType{
	PayoutEntryTypeSale,
	PayoutEntryTypeReversal,
}

// IsValid reports whether the value matches the canonical entry type enum.
func (t PayoutEntryType) IsValid() bool {
	for _, candidate := range validPayoutEntryTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParsePayoutEntryType converts raw input into PayoutEntryType.
func ParsePayoutEntryType(value string) (PayoutEntryType, error) {
	for _, candidate := range validPayoutEntryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payout entry type %q", value)
}
