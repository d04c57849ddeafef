package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// FeeEntry is the fee for one program year in the local currency's minor-less unit.
type FeeEntry struct {
	Year   string `json:"year"`
	Amount int64  `json:"amount"`
}

// FeeTable is the canonical year -> fee mapping, ordered by year ordinal.
// It decodes both the object form {"1st Year": 120000} and the array form
// [{"year":"1st Year","amount":120000}], and always encodes as the array form.
type FeeTable []FeeEntry

var (
	ErrFeeNotInteger = errors.New("fee amount must be an integer")
	ErrFeeNegative   = errors.New("fee amount must not be negative")
)

func (t FeeTable) Lookup(year string) (int64, bool) {
	for _, e := range t {
		if e.Year == year {
			return e.Amount, true
		}
	}
	return 0, false
}

// Validate checks labels against the program duration, amounts, and duplicates.
func (t FeeTable) Validate(durationYears int) error {
	seen := make(map[string]struct{}, len(t))
	for _, e := range t {
		n, ok := YearOrdinal(e.Year)
		if !ok {
			return fmt.Errorf("invalid year label %q", e.Year)
		}
		if n > durationYears {
			return fmt.Errorf("year %q exceeds program duration of %d years", e.Year, durationYears)
		}
		if e.Amount < 0 {
			return fmt.Errorf("%s: %w", e.Year, ErrFeeNegative)
		}
		if _, dup := seen[e.Year]; dup {
			return fmt.Errorf("duplicate fee for %q", e.Year)
		}
		seen[e.Year] = struct{}{}
	}
	return nil
}

func (t FeeTable) normalize() FeeTable {
	sort.SliceStable(t, func(i, j int) bool {
		a, okA := YearOrdinal(t[i].Year)
		b, okB := YearOrdinal(t[j].Year)
		switch {
		case okA && okB:
			return a < b
		case okA != okB:
			return okA
		default:
			return t[i].Year < t[j].Year
		}
	})
	return t
}

func (t *FeeTable) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = FeeTable{}
		return nil
	}

	var out FeeTable
	switch b[0] {
	case '{':
		var m map[string]json.Number
		if err := json.Unmarshal(b, &m); err != nil {
			return err
		}
		out = make(FeeTable, 0, len(m))
		for year, raw := range m {
			amt, err := parseAmount(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", year, err)
			}
			out = append(out, FeeEntry{Year: year, Amount: amt})
		}
	case '[':
		var rows []struct {
			Year   string      `json:"year"`
			Amount json.Number `json:"amount"`
		}
		if err := json.Unmarshal(b, &rows); err != nil {
			return err
		}
		out = make(FeeTable, 0, len(rows))
		for _, r := range rows {
			amt, err := parseAmount(r.Amount)
			if err != nil {
				return fmt.Errorf("%s: %w", r.Year, err)
			}
			out = append(out, FeeEntry{Year: r.Year, Amount: amt})
		}
	default:
		return errors.New("fee table must be an object or an array")
	}
	*t = out.normalize()
	return nil
}

func (t FeeTable) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]FeeEntry(t))
}

func parseAmount(n json.Number) (int64, error) {
	if n == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0, ErrFeeNotInteger
	}
	return v, nil
}

// Value stores the table as jsonb.
func (t FeeTable) Value() (driver.Value, error) {
	b, err := t.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan normalises whatever shape is stored, so every consumer sees the same table.
func (t *FeeTable) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = FeeTable{}
		return nil
	case []byte:
		return t.UnmarshalJSON(v)
	case string:
		return t.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("unsupported fee table type %T", src)
	}
}
