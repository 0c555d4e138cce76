package core

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Predicate selects records by their date and/or payment method. Predicates
// must be pure: the reconciliation of an edited view relies on them
// partitioning the ledger the same way every time they are evaluated.
type Predicate func(Record) bool

// Filter returns the records matching pred, in their original order. The
// input slice is never modified.
func Filter(records []Record, pred Predicate) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// InMonth matches records dated within the given year and month.
func InMonth(year int, month time.Month) Predicate {
	return func(r Record) bool {
		y, m, _ := r.Date.Date()
		return y == year && m == month
	}
}

// WithMethod matches records paid with exactly the given method.
func WithMethod(method string) Predicate {
	return func(r Record) bool {
		return r.PaymentMethod == method
	}
}

// OnDate matches records dated on the given day.
func OnDate(d Date) Predicate {
	return func(r Record) bool {
		return r.Date.Equal(d)
	}
}

// And combines predicates with logical AND. With no arguments it matches
// every record.
func And(preds ...Predicate) Predicate {
	return func(r Record) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// Selection is the period/method choice a viewer makes. A zero Year means no
// period restriction, an empty Method means every method.
type Selection struct {
	Year   int
	Month  time.Month
	Method string
}

// HasPeriod reports whether the selection restricts the period.
func (s Selection) HasPeriod() bool {
	return s.Year != 0
}

// MonthKey returns the selected period as YYYY-MM, or "" when unrestricted.
func (s Selection) MonthKey() string {
	if !s.HasPeriod() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", s.Year, int(s.Month))
}

// Predicate builds the filter predicate for the selection.
func (s Selection) Predicate() Predicate {
	var preds []Predicate
	if s.HasPeriod() {
		preds = append(preds, InMonth(s.Year, s.Month))
	}
	if s.Method != "" {
		preds = append(preds, WithMethod(s.Method))
	}
	return And(preds...)
}

// ParseMonth parses a YYYY-MM period.
func ParseMonth(s string) (int, time.Month, error) {
	s = strings.TrimSpace(s)
	ys, ms, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, &ValidationError{Field: "month", Value: s, Err: ErrInvalidMonth}
	}
	year, err := strconv.Atoi(ys)
	if err != nil || year < 1 {
		return 0, 0, &ValidationError{Field: "month", Value: s, Err: ErrInvalidMonth}
	}
	month, err := strconv.Atoi(ms)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, &ValidationError{Field: "month", Value: s, Err: ErrInvalidMonth}
	}
	return year, time.Month(month), nil
}

// SortByDateDesc returns a copy of records sorted newest first. Records on
// the same day keep their relative order.
func SortByDateDesc(records []Record) []Record {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b Record) int {
		return b.Date.Compare(a.Date.Time)
	})
	return out
}

// Months lists the distinct YYYY-MM periods present in records, newest first.
func Months(records []Record) []string {
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0)
	for _, r := range records {
		key := r.Date.MonthKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	slices.Sort(out)
	slices.Reverse(out)
	return out
}
