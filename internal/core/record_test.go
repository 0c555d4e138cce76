package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordValidate(t *testing.T) {
	good := Record{Date: NewDate(2024, 3, 1), Shop: "X", PaymentMethod: "現金", Amount: 500}
	require.NoError(t, good.Validate())

	emptyShop := good
	emptyShop.Shop = ""
	require.NoError(t, emptyShop.Validate(), "shop is not validated")

	zeroAmount := good
	zeroAmount.Amount = 0
	require.NoError(t, zeroAmount.Validate())

	ceiling := good
	ceiling.Amount = MaxAmount
	require.NoError(t, ceiling.Validate())

	cases := []struct {
		name string
		rec  Record
		want error
	}{
		{"zero date", Record{PaymentMethod: "現金", Amount: 1}, ErrInvalidDate},
		{"negative amount", Record{Date: NewDate(2024, 3, 1), PaymentMethod: "現金", Amount: -1}, ErrNegativeAmount},
		{"above ceiling", Record{Date: NewDate(2024, 3, 1), PaymentMethod: "現金", Amount: MaxAmount + 1}, ErrAmountTooLarge},
		{"empty method", Record{Date: NewDate(2024, 3, 1), PaymentMethod: "  ", Amount: 1}, ErrEmptyMethod},
		{"sentinel method", Record{Date: NewDate(2024, 3, 1), PaymentMethod: UnselectedMethod, Amount: 1}, ErrUnselectedMethod},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rec.Validate()
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"2024-03-01", NewDate(2024, 3, 1), true},
		{"2024/03/01", NewDate(2024, 3, 1), true},
		{"2024-03-01 00:00:00", NewDate(2024, 3, 1), true},
		{" 2024-12-31 ", NewDate(2024, 12, 31), true},
		{"2024-02-30", Date{}, false},
		{"yesterday", Date{}, false},
		{"", Date{}, false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if !tc.ok {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
			if !errors.Is(err, ErrInvalidDate) {
				t.Fatalf("%q expected ErrInvalidDate, got %v", tc.in, err)
			}
			continue
		}
		if err != nil || !got.Equal(tc.want) {
			t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.want, got, err)
		}
	}
}

func TestDateOfDropsTime(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	d := DateOf(time.Date(2024, 3, 1, 23, 30, 0, 0, jst))
	assert.Equal(t, "2024-03-01", d.String())
	assert.Equal(t, "2024-03", d.MonthKey())
}

func TestRecordJSONUsesLedgerKeys(t *testing.T) {
	rec := Record{Date: NewDate(2024, 3, 1), Shop: "X", PaymentMethod: "現金", Amount: 500}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"日付":"2024-03-01","店名":"X","支払い方法":"現金","金額":500}`, string(data))

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec, back)
}

func TestRecordJSONRejectsBadDate(t *testing.T) {
	var rec Record
	err := json.Unmarshal([]byte(`{"日付":"not a date","店名":"X","支払い方法":"現金","金額":1}`), &rec)
	require.Error(t, err)
	err = json.Unmarshal([]byte(`{"日付":20240301,"店名":"X","支払い方法":"現金","金額":1}`), &rec)
	require.Error(t, err)
}
