package core

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// ParseAmount converts user input to a whole-yen amount.
//
// Full-width digits are folded to ASCII, and thousands separators as well as a
// leading ¥ or trailing 円 are ignored. Zero is accepted; signs, decimals and
// any other character are rejected with a *ValidationError, as are amounts
// above MaxAmount.
//
// Examples:
//
//	ParseAmount("1200")   -> 1200, nil
//	ParseAmount("1,200円") -> 1200, nil
//	ParseAmount("１２００") -> 1200, nil
//	ParseAmount("-5")     -> 0, ErrNegativeAmount
func ParseAmount(s string) (int64, error) {
	raw := s
	s = width.Narrow.String(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "¥")
	s = strings.TrimSuffix(s, "円")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ValidationError{Field: "amount", Value: raw, Err: ErrInvalidAmount}
	}
	if strings.HasPrefix(s, "-") {
		return 0, &ValidationError{Field: "amount", Value: raw, Err: ErrNegativeAmount}
	}
	for _, r := range s {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return 0, &ValidationError{Field: "amount", Value: raw, Err: ErrInvalidAmount}
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v > MaxAmount {
		// only overflow can fail here
		return 0, &ValidationError{Field: "amount", Value: raw, Err: ErrAmountTooLarge}
	}
	return v, nil
}
