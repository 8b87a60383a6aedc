package enums

import "fmt"

// LineItemKind maps to the line_item_kind_enum enum in Postgres.
type LineItemKind string

const (
	LineItemKindService LineItemKind = "service"
	LineItemKindProduct LineItemKind = "product"
)

var validLineItemKinds = []LineItemKind{
	LineItemKindService,
	LineItemKindProduct,
}

// IsValid reports whether the value matches the canonical line item kind enum.
func (k LineItemKind) IsValid() bool {
	for _, candidate := range validLineItemKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseLineItemKind converts raw input into LineItemKind.
func ParseLineItemKind(value string) (LineItemKind, error) {
	for _, candidate := range validLineItemKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid line item kind %q", value)
}
