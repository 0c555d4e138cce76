package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergedCategories(t *testing.T) {
	tests := []struct {
		name      string
		canonical []string
		observed  []string
		want      []string
	}{
		{"reference ordering", []string{"A", "B"}, []string{"C", "A", "D"}, []string{"A", "B", "C", "D"}},
		{"duplicates in observed", []string{"A"}, []string{"C", "C", "A", "D", "C"}, []string{"A", "C", "D"}},
		{"duplicates in canonical", []string{"A", "B", "A"}, nil, []string{"A", "B"}},
		{"nothing observed", []string{"A", "B"}, nil, []string{"A", "B"}},
		{"exact match only", []string{"PayPay"}, []string{"paypay"}, []string{"PayPay", "paypay"}},
		{"empty", nil, nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergedCategories(tt.canonical, tt.observed))
		})
	}
}

func TestObservedMethodsWithCanonical(t *testing.T) {
	records := []Record{
		rec("2024-03-01", "ポイント", 1),
		rec("2024-03-02", "現金", 1),
		rec("2024-03-03", "ポイント", 1),
		rec("2024-03-04", "デビット", 1),
	}
	assert.Equal(t, []string{"ポイント", "現金", "デビット"}, ObservedMethods(records))

	merged := MergedCategories(CanonicalMethods(), ObservedMethods(records))
	assert.Equal(t, CanonicalMethods(), merged[:7])
	assert.Equal(t, []string{"ポイント", "デビット"}, merged[7:])
}

func TestCanonicalMethodsIsCopy(t *testing.T) {
	m := CanonicalMethods()
	m[0] = "changed"
	assert.Equal(t, "現金", CanonicalMethods()[0])
}
