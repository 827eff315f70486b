package pos

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money is a currency amount. It decodes from either a JSON string or number
// and always encodes as a quoted two-decimal string.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps a decimal value.
func NewMoney(d decimal.Decimal) *Money {
	return &Money{Decimal: d}
}

// MustMoney parses s and panics on error. Intended for tests and constants.
func MustMoney(s string) *Money {
	return &Money{Decimal: decimal.RequireFromString(s)}
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.StringFixed(2))
}

// UnmarshalJSON implements json.Unmarshaler. Empty strings and null decode to zero.
func (m *Money) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		m.Decimal = decimal.Zero
		return nil
	}
	return m.Decimal.UnmarshalJSON(trimmed)
}
