package core

import "slices"

var canonicalMethods = []string{"現金", "クレジットカード", "iD", "PayPay", "楽天カード", "交通系IC", "その他"}

// CanonicalMethods returns the well-known payment methods in display order.
func CanonicalMethods() []string {
	return slices.Clone(canonicalMethods)
}

// MergedCategories returns canonical in its given order followed by every
// observed label not already present, in first-seen order. Matching is by
// exact string and the result never holds a duplicate.
func MergedCategories(canonical, observed []string) []string {
	seen := make(map[string]struct{}, len(canonical)+len(observed))
	out := make([]string, 0, len(canonical)+len(observed))
	for _, list := range [][]string{canonical, observed} {
		for _, v := range list {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// ObservedMethods lists the payment methods used by records, first-seen order.
func ObservedMethods(records []Record) []string {
	methods := make([]string, 0)
	seen := make(map[string]struct{})
	for _, r := range records {
		if _, ok := seen[r.PaymentMethod]; ok {
			continue
		}
		seen[r.PaymentMethod] = struct{}{}
		methods = append(methods, r.PaymentMethod)
	}
	return methods
}
