package google

import (
	"fmt"
	"strings"

	"kakeibo/internal/core"
)

var ledgerHeader = []any{"日付", "店名", "支払い方法", "金額"}

// recordsToRows renders the ledger as a values matrix with a header row.
// Rows are ordered newest first; records on the same day keep ledger order.
func recordsToRows(records []core.Record) [][]any {
	sorted := core.SortByDateDesc(records)
	rows := make([][]any, 0, len(sorted)+1)
	rows = append(rows, ledgerHeader)
	for _, r := range sorted {
		rows = append(rows, []any{r.Date.String(), r.Shop, r.PaymentMethod, r.Amount})
	}
	return rows
}

// columnValues flattens the first cell of each row, skipping blanks,
// comments and repeats.
func columnValues(values [][]any) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(values))
	for _, row := range values {
		if len(row) == 0 {
			continue
		}
		v := strings.TrimSpace(fmt.Sprint(row[0]))
		if v == "" || strings.HasPrefix(v, "#") {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
