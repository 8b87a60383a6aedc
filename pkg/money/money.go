package money

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/chairtime/chairtime-backend/pkg/enums"
)

// Amount is a currency amount with cent precision. The zero value is zero
// dollars. Arithmetic on Amount is exact; rounding only happens through
// ApplyRate and ScaleBy, which take an explicit rounding mode.
type Amount struct {
	d decimal.Decimal
}

// BasisPointsDenominator converts basis points into a rate (10000 bps = 100%).
const BasisPointsDenominator = 10000

// Zero returns a zero amount.
func Zero() Amount {
	return Amount{}
}

// FromCents builds an Amount from an integer number of cents.
func FromCents(cents int64) Amount {
	return Amount{d: decimal.NewFromInt(cents).Shift(-2)}
}

// FromDecimal wraps a raw decimal as an Amount. Used at storage boundaries.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

// Cents returns the amount as an integer number of cents.
func (a Amount) Cents() int64 {
	return a.d.Shift(2).IntPart()
}

// Decimal exposes the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{d: a.d.Sub(b.d)}
}

// Neg returns the amount with its sign flipped.
func (a Amount) Neg() Amount {
	return Amount{d: a.d.Neg()}
}

// MulInt returns a multiplied by an integer factor, exact.
func (a Amount) MulInt(n int64) Amount {
	return Amount{d: a.d.Mul(decimal.NewFromInt(n))}
}

// IsZero reports whether the amount equals zero.
func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

// Equal reports exact equality.
func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

// Cmp compares a against b: -1 if a < b, 0 if equal, +1 if a > b.
func (a Amount) Cmp(b Amount) int {
	return a.d.Cmp(b.d)
}

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	return Amount{d: a.d.Abs()}
}

// String renders the amount with two decimal places.
func (a Amount) String() string {
	return a.d.StringFixed(2)
}

// ApplyRate multiplies the amount by a basis-point rate and rounds the
// result to the cent using the given mode. This is the single place a
// commission amount gets rounded.
func (a Amount) ApplyRate(bps int, mode enums.RoundingMode) Amount {
	rate := decimal.NewFromInt(int64(bps)).Div(decimal.NewFromInt(BasisPointsDenominator))
	return Amount{d: roundToCent(a.d.Mul(rate), mode)}
}

// ScaleBy multiplies the amount by an arbitrary fraction and rounds to the
// cent. Used by partial refunds, which scale a frozen snapshot rather than
// recomputing it.
func (a Amount) ScaleBy(fraction decimal.Decimal, mode enums.RoundingMode) Amount {
	return Amount{d: roundToCent(a.d.Mul(fraction), mode)}
}

// Fraction returns part/whole as an exact-as-possible decimal ratio.
// whole must be non-zero.
func Fraction(part, whole Amount) (decimal.Decimal, error) {
	if whole.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("money: fraction of zero whole")
	}
	return part.d.DivRound(whole.d, 12), nil
}

// UnitFraction returns part/whole for unit counts, such as refunded
// quantity over sold quantity.
func UnitFraction(part, whole int) (decimal.Decimal, error) {
	if whole == 0 {
		return decimal.Decimal{}, fmt.Errorf("money: fraction of zero whole")
	}
	return decimal.NewFromInt(int64(part)).DivRound(decimal.NewFromInt(int64(whole)), 12), nil
}

func roundToCent(d decimal.Decimal, mode enums.RoundingMode) decimal.Decimal {
	if mode == enums.RoundingModeHalfEven {
		return d.RoundBank(2)
	}
	// Round performs half-away-from-zero, which is half-up for the
	// non-negative amounts the calculator produces.
	return d.Round(2)
}
