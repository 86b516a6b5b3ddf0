package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// Amount is an unsigned 256-bit token quantity expressed in the token's
// smallest unit. All arithmetic is checked: overflow and underflow are
// reported instead of wrapping.
//
// Examples (18 decimals):
//   - NewAmount(1) = 0.000000000000000001
//   - Units(10000, 18) = 10000.000000000000000000
//
//nolint:recvcheck // Value receivers for arithmetic, pointer receivers for UnmarshalText/Scan.
type Amount struct {
	v uint256.Int
}

// Errors returned while building or parsing amounts.
var (
	ErrAmountOverflow = errors.New("amount: overflow")
	ErrAmountSyntax   = errors.New("amount: invalid decimal integer")
)

// NewAmount creates an Amount from a uint64 count of smallest units.
func NewAmount(n uint64) Amount {
	var a Amount
	a.v.SetUint64(n)
	return a
}

// ZeroAmount returns the zero Amount.
func ZeroAmount() Amount { return Amount{} }

// AmountFromBig converts a non-negative big.Int. It fails if the value is
// negative or does not fit in 256 bits.
func AmountFromBig(b *big.Int) (Amount, error) {
	if b == nil {
		return Amount{}, nil
	}
	if b.Sign() < 0 {
		return Amount{}, fmt.Errorf("%w: negative value %s", ErrAmountSyntax, b.String())
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return Amount{}, ErrAmountOverflow
	}
	return Amount{v: *v}, nil
}

// ParseAmount parses a base-10 unsigned integer such as "10000000000000000000000".
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return Amount{}, fmt.Errorf("%w: %q", ErrAmountSyntax, s)
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, fmt.Errorf("%w: %q", ErrAmountSyntax, s)
	}
	return AmountFromBig(b)
}

// MustParseAmount is like ParseAmount but panics on error. Use for hardcoded values.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Units returns whole * 10^decimals, the smallest-unit amount for a number
// of whole tokens.
func Units(whole uint64, decimals uint8) (Amount, error) {
	if decimals > 77 {
		return Amount{}, ErrAmountOverflow
	}
	scale := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals)))
	var a Amount
	if _, overflow := a.v.MulOverflow(uint256.NewInt(whole), scale); overflow {
		return Amount{}, ErrAmountOverflow
	}
	return a, nil
}

// CheckedAdd returns a+b and reports whether the sum overflowed 256 bits.
func (a Amount) CheckedAdd(b Amount) (Amount, bool) {
	var r Amount
	_, overflow := r.v.AddOverflow(&a.v, &b.v)
	return r, overflow
}

// CheckedSub returns a-b and reports whether the subtraction underflowed.
// On underflow the returned Amount is zero.
func (a Amount) CheckedSub(b Amount) (Amount, bool) {
	if a.v.Lt(&b.v) {
		return Amount{}, true
	}
	var r Amount
	r.v.Sub(&a.v, &b.v)
	return r, false
}

// Comparison methods

// Cmp compares a and b and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int { return a.v.Cmp(&b.v) }

// LessThan reports whether a < b.
func (a Amount) LessThan(b Amount) bool { return a.v.Lt(&b.v) }

// GreaterThan reports whether a > b.
func (a Amount) GreaterThan(b Amount) bool { return a.v.Gt(&b.v) }

// Equal reports whether a == b.
func (a Amount) Equal(b Amount) bool { return a.v.Eq(&b.v) }

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool { return a.v.IsZero() }

// Conversions

// Big returns the amount as a new big.Int.
func (a Amount) Big() *big.Int { return a.v.ToBig() }

// Bytes32 returns the big-endian 32-byte encoding used in event log data.
func (a Amount) Bytes32() [32]byte { return a.v.Bytes32() }

// String returns the base-10 representation in smallest units.
func (a Amount) String() string { return a.v.ToBig().String() }

// FormatUnits renders the amount as a decimal number with the given number
// of fractional digits: Units(10000, 18).FormatUnits(18) == "10000.000000000000000000".
func (a Amount) FormatUnits(decimals uint8) string {
	digits := a.String()
	if decimals == 0 {
		return digits
	}

	d := int(decimals)
	if len(digits) <= d {
		digits = strings.Repeat("0", d-len(digits)+1) + digits
	}
	return digits[:len(digits)-d] + "." + digits[len(digits)-d:]
}

// Encoding

// MarshalText implements encoding.TextMarshaler.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(data []byte) error {
	parsed, err := ParseAmount(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalJSON encodes the amount as a JSON string so values above 2^53
// survive JavaScript clients.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n json.Number
		if numErr := json.Unmarshal(data, &n); numErr != nil {
			return fmt.Errorf("%w: %s", ErrAmountSyntax, string(data))
		}
		s = n.String()
	}
	return a.UnmarshalText([]byte(s))
}

// Value implements driver.Valuer. Amounts are stored as decimal strings.
func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Amount{}
		return nil
	case string:
		return a.UnmarshalText([]byte(v))
	case []byte:
		return a.UnmarshalText(v)
	case int64:
		if v < 0 {
			return fmt.Errorf("%w: negative value %d", ErrAmountSyntax, v)
		}
		*a = NewAmount(uint64(v))
		return nil
	default:
		return fmt.Errorf("amount: cannot scan %T into Amount", src)
	}
}

// Sum adds the given amounts, reporting overflow.
func Sum(values ...Amount) (Amount, bool) {
	var total Amount
	for _, v := range values {
		var overflow bool
		total, overflow = total.CheckedAdd(v)
		if overflow {
			return Amount{}, true
		}
	}
	return total, false
}
