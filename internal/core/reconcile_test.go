package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeUneditedViewIsPermutation(t *testing.T) {
	full := sampleLedger()
	preds := map[string]Predicate{
		"month":  InMonth(2024, time.March),
		"method": WithMethod("現金"),
		"both":   And(InMonth(2024, time.April), WithMethod("PayPay")),
		"none":   InMonth(1999, time.January),
		"all":    And(),
	}
	for name, pred := range preds {
		t.Run(name, func(t *testing.T) {
			merged := Merge(full, pred, Filter(full, pred))
			assert.ElementsMatch(t, full, merged)
		})
	}
}

func TestMergeKeepsOutOfViewRecords(t *testing.T) {
	full := sampleLedger()
	pred := InMonth(2024, time.March)
	outside := Filter(full, func(r Record) bool { return !pred(r) })

	edits := [][]Record{
		{},
		{rec("2024-03-09", "iD", 1)},
		{rec("2024-03-09", "iD", 1), rec("2024-03-10", "iD", 2), rec("2024-03-11", "iD", 3)},
	}
	for _, edited := range edits {
		merged := Merge(full, pred, edited)
		require.Len(t, merged, len(outside)+len(edited))
		assert.Equal(t, outside, merged[:len(outside)], "non-matching records first, verbatim, in order")
		assert.Equal(t, edited, merged[len(outside):])
	}
}

func TestMergeEmptyEditDeletesPartition(t *testing.T) {
	full := sampleLedger()
	merged := Merge(full, WithMethod("PayPay"), []Record{})
	require.Len(t, merged, 3)
	assert.Empty(t, Filter(merged, WithMethod("PayPay")))
}

func TestMergeAcceptsDriftedRecords(t *testing.T) {
	full := sampleLedger()
	pred := InMonth(2024, time.March)
	view := Filter(full, pred)

	// the editor moved one record into May
	view[0].Date = NewDate(2024, time.May, 1)
	merged := Merge(full, pred, view)

	require.Len(t, merged, len(full))
	assert.Contains(t, merged, view[0])
	assert.Len(t, Filter(merged, pred), 1, "drifted record no longer in the March view")
}

func TestMergeDoesNotAliasInputs(t *testing.T) {
	full := sampleLedger()
	edited := []Record{rec("2024-03-02", "iD", 10)}
	merged := Merge(full, InMonth(2024, time.March), edited)
	merged[0].Amount = -99
	merged[len(merged)-1].Amount = -99

	assert.Equal(t, int64(300), full[1].Amount)
	assert.Equal(t, int64(10), edited[0].Amount)
}

func TestEditReconciliationScenario(t *testing.T) {
	full := []Record{
		rec("2024-03-01", "現金", 100),
		rec("2024-04-01", "現金", 200),
		rec("2024-03-02", "現金", 300),
		rec("2024-04-02", "現金", 400),
	}
	pred := InMonth(2024, time.March)
	view := Filter(full, pred)
	require.Len(t, view, 2)

	edited := []Record{view[0], rec("2024-03-20", "PayPay", 1000)}
	merged := Merge(full, pred, edited)

	require.Len(t, merged, 4)
	assert.Equal(t, full[1], merged[0])
	assert.Equal(t, full[3], merged[1])
	assert.Equal(t, view[0], merged[2])
	assert.Equal(t, int64(1000), merged[3].Amount)

	byMonth := GroupSum(merged, ByMonth)
	assert.Equal(t, map[string]int64{"2024-03": 1100, "2024-04": 600}, byMonth)
}
