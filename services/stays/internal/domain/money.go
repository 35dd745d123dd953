package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Currency is fixed; amounts are never converted.
const Currency = "EUR"

// Money is an amount in euro cents. It matches the two-decimal scale of the
// persisted numeric columns, so multiplication by a night count is exact.
type Money int64

// MaxMoney is the largest amount a numeric(10,2) column holds.
const MaxMoney Money = 99_999_999_99

// ParseMoney accepts a plain decimal such as "120", "99.5" or "99.99" and
// rounds half away from zero to the nearest cent. Amounts beyond MaxMoney in
// either direction are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if math.Abs(math.Round(f*100)) > float64(MaxMoney) {
		return 0, fmt.Errorf("amount %q out of range", s)
	}
	return FromFloat(f), nil
}

// FromFloat rounds f to cents. Callers bound f first; see ParseMoney.
func FromFloat(f float64) Money {
	return Money(math.Round(f * 100))
}

func (m Money) Cents() int64 {
	return int64(m)
}

func (m Money) Float() float64 {
	return float64(m) / 100
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both 120.5 and "120.50".
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	v, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
