package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"kakeibo/internal/core"
)

const maxBodyBytes = 1 << 20

// allValue in the month or method query means "no restriction".
const allValue = "all"

// errBadRequest marks malformed input that is not a field violation.
var errBadRequest = errors.New("bad request")

// recordDTO is the wire shape of a record. amount accepts a JSON number or
// a string such as "1,200" or "¥500".
type recordDTO struct {
	Date          string          `json:"date"`
	Shop          string          `json:"shop"`
	PaymentMethod string          `json:"payment_method"`
	Amount        json.RawMessage `json:"amount"`
}

type recordResponse struct {
	Date          string `json:"date"`
	Shop          string `json:"shop"`
	PaymentMethod string `json:"payment_method"`
	Amount        int64  `json:"amount"`
}

type saveViewRequest struct {
	Records  []recordDTO `json:"records"`
	Revision *uint64     `json:"revision,omitempty"`
}

// parseSelection reads month=YYYY-MM and method from the query. A missing
// month selects def's period; month=all drops the period restriction.
func parseSelection(query url.Values, def core.Selection) (core.Selection, error) {
	sel := core.Selection{Year: def.Year, Month: def.Month}

	switch m := strings.TrimSpace(query.Get("month")); m {
	case "":
	case allValue:
		sel.Year, sel.Month = 0, 0
	default:
		year, month, err := core.ParseMonth(m)
		if err != nil {
			return core.Selection{}, err
		}
		sel.Year, sel.Month = year, month
	}

	if method := strings.TrimSpace(query.Get("method")); method != "" && method != allValue {
		sel.Method = method
	}
	return sel, nil
}

// parseToday reads an optional today=YYYY-MM-DD override.
func parseToday(query url.Values) (core.Date, error) {
	v := strings.TrimSpace(query.Get("today"))
	if v == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(v)
}

// decodeJSON decodes a bounded body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON body", errBadRequest)
	}
	return nil
}

// toRecord converts a DTO. An empty date means today.
func (d recordDTO) toRecord(today core.Date) (core.Record, error) {
	date := today
	if strings.TrimSpace(d.Date) != "" {
		parsed, err := core.ParseDate(d.Date)
		if err != nil {
			return core.Record{}, err
		}
		date = parsed
	}

	amount, err := parseAmountJSON(d.Amount)
	if err != nil {
		return core.Record{}, err
	}

	return core.Record{
		Date:          date,
		Shop:          sanitizeInput(d.Shop),
		PaymentMethod: strings.TrimSpace(d.PaymentMethod),
		Amount:        amount,
	}, nil
}

func parseAmountJSON(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, &core.ValidationError{Field: "amount", Err: core.ErrInvalidAmount}
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, &core.ValidationError{Field: "amount", Err: core.ErrInvalidAmount}
		}
		return core.ParseAmount(s)
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, &core.ValidationError{Field: "amount", Value: string(raw), Err: core.ErrAmountTooLarge}
	}
	if err != nil {
		return 0, &core.ValidationError{Field: "amount", Value: string(raw), Err: core.ErrInvalidAmount}
	}
	if n < 0 {
		return 0, &core.ValidationError{Field: "amount", Value: string(raw), Err: core.ErrNegativeAmount}
	}
	return n, nil
}

func toRecordResponses(records []core.Record) []recordResponse {
	out := make([]recordResponse, len(records))
	for i, r := range records {
		out[i] = recordResponse{
			Date:          r.Date.String(),
			Shop:          r.Shop,
			PaymentMethod: r.PaymentMethod,
			Amount:        r.Amount,
		}
	}
	return out
}

// sanitizeInput trims and drops control characters other than tab and newlines.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
