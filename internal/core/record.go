// Package core holds the ledger domain: records, view filtering,
// reconciliation of edited views and aggregation.
package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// UnselectedMethod is the placeholder the input form shows before a payment
// method has been picked. It is never a valid PaymentMethod.
const UnselectedMethod = "---"

// MaxAmount is the largest amount a single record may carry (1兆円). With it,
// sums over the ledger stay exact in an int64 up to nine million records at
// the ceiling.
const MaxAmount int64 = 1_000_000_000_000

const dateLayout = "2006-01-02"

// Layouts accepted when reading dates back from persisted documents. Older
// files written by the data editor carry slashes or a midnight time suffix.
var dateLayouts = []string{
	dateLayout,
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

type (
	// Date is a calendar day without a time component, always held at UTC midnight.
	Date struct {
		time.Time
	}

	// Record is a single ledger entry. Records have no identity: two records
	// with equal fields are both legal and indistinguishable.
	Record struct {
		Date          Date   `json:"日付"`
		Shop          string `json:"店名"`
		PaymentMethod string `json:"支払い方法"`
		Amount        int64  `json:"金額"`
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string. A few legacy layouts are accepted too.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, &ValidationError{Field: "date", Value: s, Err: ErrInvalidDate}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MonthKey formats the date as YYYY-MM.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// Equal reports whether both dates denote the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Validate checks the date is set.
func (d Date) Validate() error {
	if d.IsZero() {
		return &ValidationError{Field: "date", Err: ErrInvalidDate}
	}
	return nil
}

// Validate checks the field constraints a record must satisfy before it is
// appended to the ledger. Shop is free text and is not validated.
func (r Record) Validate() error {
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if r.Amount < 0 {
		return &ValidationError{Field: "amount", Value: fmt.Sprint(r.Amount), Err: ErrNegativeAmount}
	}
	if r.Amount > MaxAmount {
		return &ValidationError{Field: "amount", Value: fmt.Sprint(r.Amount), Err: ErrAmountTooLarge}
	}
	method := strings.TrimSpace(r.PaymentMethod)
	if method == "" {
		return &ValidationError{Field: "payment_method", Err: ErrEmptyMethod}
	}
	if method == UnselectedMethod {
		return &ValidationError{Field: "payment_method", Value: r.PaymentMethod, Err: ErrUnselectedMethod}
	}
	return nil
}
