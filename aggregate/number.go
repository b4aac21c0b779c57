package aggregate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
)

// Number is an exact numeric quantity decoded from a JSON number.
//
// The zero value is 0. Numbers are immutable; [Number.Add] returns a new
// value. Summing Numbers is exact, so the order of additions never changes
// the result.
type Number struct {
	r *big.Rat
}

// NewNumber returns the Number holding exactly f.
// NaN and infinities yield zero.
func NewNumber(f float64) Number {
	r := new(big.Rat)
	if r.SetFloat64(f) == nil {
		return Number{}
	}
	return Number{r: r}
}

// ParseNumber parses a JSON number literal such as "12", "-0.5" or "1e9".
func ParseNumber(s string) (Number, error) {
	b := []byte(s)
	if len(b) == 0 || !json.Valid(b) || (b[0] != '-' && (b[0] < '0' || b[0] > '9')) {
		return Number{}, fmt.Errorf("invalid number %q", s)
	}
	// rejects exponents that would overflow float64 before big.Rat expands them
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return Number{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Number{}, fmt.Errorf("invalid number %q", s)
	}
	return Number{r: r}, nil
}

// Add returns n + m.
func (n Number) Add(m Number) Number {
	if n.r == nil && m.r == nil {
		return Number{}
	}
	sum := new(big.Rat)
	if n.r != nil {
		sum.Set(n.r)
	}
	if m.r != nil {
		sum.Add(sum, m.r)
	}
	return Number{r: sum}
}

// Float64 returns the nearest float64 value.
func (n Number) Float64() float64 {
	if n.r == nil {
		return 0
	}
	f, _ := n.r.Float64()
	return f
}

// IsZero reports whether n equals 0.
func (n Number) IsZero() bool {
	return n.r == nil || n.r.Sign() == 0
}

// Equal reports whether n and m hold the same value.
func (n Number) Equal(m Number) bool {
	return n.rat().Cmp(m.rat()) == 0
}

func (n Number) rat() *big.Rat {
	if n.r == nil {
		return new(big.Rat)
	}
	return n.r
}

// String formats n the same way it is encoded to JSON.
func (n Number) String() string {
	if n.r != nil && n.r.IsInt() {
		return n.r.Num().String()
	}
	return strconv.FormatFloat(n.Float64(), 'f', -1, 64)
}

// MarshalJSON encodes integral values exactly and everything else as the
// nearest float64.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalJSON accepts a JSON number or null (zero).
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}
	parsed, err := ParseNumber(string(data))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
