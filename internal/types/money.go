package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a value cannot be parsed as an amount of money.
var ErrInvalidAmount = errors.New("the amount is invalid")

// moneyScale is the number of fractional digits every Money value has.
const moneyScale = 2

var (
	minCents = decimal.NewFromInt(math.MinInt64)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// Money is an amount with exactly two fractional digits.
//
// It is stored in the database as an integer number of minor units so that
// sums and increments computed by the database are exact.
type Money struct {
	d decimal.Decimal
}

// NewMoney rounds d half-to-even to two fractional digits.
func NewMoney(d decimal.Decimal) Money {
	return Money{d: d.RoundBank(moneyScale)}
}

// MoneyFromCents returns the Money value for an amount of minor units.
func MoneyFromCents(cents int64) Money {
	return Money{d: decimal.New(cents, -moneyScale)}
}

// ParseMoney parses a decimal string like "120.50" or "-3".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	m := NewMoney(d)
	if !m.InRange() {
		return Money{}, fmt.Errorf("%w: %q is too large", ErrInvalidAmount, s)
	}

	return m, nil
}

// MustParseMoney is like ParseMoney but panics on error. Use it for constants.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(n Money) Money {
	return Money{d: m.d.Add(n.d)}
}

func (m Money) Sub(n Money) Money {
	return Money{d: m.d.Sub(n.d)}
}

func (m Money) Neg() Money {
	return Money{d: m.d.Neg()}
}

// Cmp returns -1 if m < n, 0 if m == n and +1 if m > n.
func (m Money) Cmp(n Money) int {
	return m.d.Cmp(n.d)
}

func (m Money) Equal(n Money) bool {
	return m.d.Equal(n.d)
}

func (m Money) IsZero() bool {
	return m.d.IsZero()
}

func (m Money) IsPositive() bool {
	return m.d.IsPositive()
}

func (m Money) IsNegative() bool {
	return m.d.IsNegative()
}

// InRange reports whether the amount can be stored, i.e. its minor units
// fit into an int64.
func (m Money) InRange() bool {
	cents := m.d.Shift(moneyScale)
	return cents.GreaterThanOrEqual(minCents) && cents.LessThanOrEqual(maxCents)
}

// Cents returns the amount in minor units. The result is only meaningful
// for amounts that are InRange.
func (m Money) Cents() int64 {
	return m.d.Shift(moneyScale).IntPart()
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

// Percent returns m as a percentage of total. The result is not rounded.
//
// A zero total yields zero.
func (m Money) Percent(total Money) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}

	return m.d.Mul(decimal.NewFromInt(100)).Div(total.d)
}

// String returns the amount with exactly two fractional digits, e.g. "379.50".
func (m Money) String() string {
	return m.d.StringFixed(moneyScale)
}

// MarshalJSON encodes the amount as a string to avoid float conversion in clients.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		*m = Money{}
		return nil
	}

	parsed, err := ParseMoney(value)
	if err != nil {
		return err
	}

	*m = parsed
	return nil
}

// Value returns the number of minor units for the SQL driver.
func (m Money) Value() (driver.Value, error) {
	if !m.InRange() {
		return nil, fmt.Errorf("%w: %s is too large", ErrInvalidAmount, m)
	}

	return m.Cents(), nil
}

// Scan reads a number of minor units written by Value.
func (m *Money) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*m = Money{}
	case int64:
		*m = MoneyFromCents(v)
	case float64:
		// SUM() over an empty or mixed column can come back as REAL in SQLite
		*m = NewMoney(decimal.NewFromFloat(v).Shift(-moneyScale))
	case []byte:
		return m.scanString(string(v))
	case string:
		return m.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	return nil
}

func (m *Money) scanString(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("cannot scan %q into Money: %w", s, err)
	}

	*m = NewMoney(d.Shift(-moneyScale))
	return nil
}

// GormDataType defines the column type gorm uses for Money.
func (Money) GormDataType() string {
	return "bigint"
}
