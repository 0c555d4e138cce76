package core

import (
	"cmp"
	"slices"
)

// GroupSum sums amounts per key. Keys without records are absent from the
// result, so consumers must read a missing key as zero.
func GroupSum[K comparable](records []Record, key func(Record) K) map[K]int64 {
	out := make(map[K]int64)
	for _, r := range records {
		out[key(r)] += r.Amount
	}
	return out
}

// GroupCount counts records per key, with the same absence rule as GroupSum.
func GroupCount[K comparable](records []Record, key func(Record) K) map[K]int {
	out := make(map[K]int)
	for _, r := range records {
		out[key(r)]++
	}
	return out
}

// ByDate keys a record by its YYYY-MM-DD date.
func ByDate(r Record) string { return r.Date.String() }

// ByDay keys a record by its day of month.
func ByDay(r Record) int { return r.Date.Day() }

// ByMonth keys a record by its YYYY-MM period.
func ByMonth(r Record) string { return r.Date.MonthKey() }

// ByMethod keys a record by payment method.
func ByMethod(r Record) string { return r.PaymentMethod }

// Total is the exact sum of amounts; an empty slice sums to 0. Amounts are
// bounded by MaxAmount, so the sum cannot overflow for any realistic ledger.
func Total(records []Record) int64 {
	var sum int64
	for _, r := range records {
		sum += r.Amount
	}
	return sum
}

// Summary holds the headline metrics shown above a view.
type Summary struct {
	PeriodTotal int64 `json:"period_total"`
	PeriodCount int   `json:"period_count"`
	TodayTotal  int64 `json:"today_total"`
	GrandTotal  int64 `json:"grand_total"`
}

// Summarize computes the headline metrics. Period figures come from view;
// today's spending and the grand total always come from the full collection,
// whatever filter produced the view.
func Summarize(full, view []Record, today Date) Summary {
	return Summary{
		PeriodTotal: Total(view),
		PeriodCount: len(view),
		TodayTotal:  Total(Filter(full, OnDate(today))),
		GrandTotal:  Total(full),
	}
}

// GroupTotal is one bar of a chart series.
type GroupTotal[K cmp.Ordered] struct {
	Key    K     `json:"key"`
	Amount int64 `json:"amount"`
	Count  int   `json:"count"`
}

// SortedTotals groups records by key and returns the groups in ascending key
// order, ready for a chart.
func SortedTotals[K cmp.Ordered](records []Record, key func(Record) K) []GroupTotal[K] {
	sums := GroupSum(records, key)
	counts := GroupCount(records, key)
	out := make([]GroupTotal[K], 0, len(sums))
	for k, amount := range sums {
		out = append(out, GroupTotal[K]{Key: k, Amount: amount, Count: counts[k]})
	}
	slices.SortFunc(out, func(a, b GroupTotal[K]) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}
