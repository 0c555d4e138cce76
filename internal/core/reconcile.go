package core

// Merge folds an edited view back into the full record collection.
//
// Every record of full that does not match pred is kept verbatim and in its
// original relative order; the whole matching partition is dropped and
// replaced by edited, in editor order. Edited records are taken as they are
// even when they no longer satisfy pred (for example a date moved to another
// month): they land in the result and simply fall outside the view next time.
// An empty edited slice deletes the partition.
//
// Merge does not touch the store and does not alias its inputs; callers
// persist the result with Store.Replace.
func Merge(full []Record, pred Predicate, edited []Record) []Record {
	out := make([]Record, 0, len(full)+len(edited))
	for _, r := range full {
		if !pred(r) {
			out = append(out, r)
		}
	}
	return append(out, edited...)
}
