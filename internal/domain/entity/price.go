package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a monetary amount displayed the French way ("45,00").
type Price struct {
	decimal.Decimal
}

// NewPrice wraps a decimal amount.
func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d}
}

// ParsePrice accepts "45,00", "45.00" or "45".
func ParsePrice(s string) (Price, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	normalized = strings.Replace(normalized, ",", ".", 1)
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return Price{}, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return Price{Decimal: d}, nil
}

// MustParsePrice is ParsePrice for literals known to be valid.
func MustParsePrice(s string) Price {
	p, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Display formats the price with two decimals and a comma separator.
func (p Price) Display() string {
	return strings.Replace(p.StringFixed(2), ".", ",", 1)
}

// MarshalJSON encodes the display string.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Display())
}

// UnmarshalJSON accepts a display string or a JSON number.
func (p *Price) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n json.Number
		if numErr := json.Unmarshal(data, &n); numErr != nil {
			return fmt.Errorf("price must be a string or a number: %w", err)
		}
		s = n.String()
	}
	parsed, err := ParsePrice(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
