package ledger

import "context"

const (
	OpAppend  = "append"
	OpReplace = "replace"
)

// Change describes a mutation that reached durable storage.
type Change struct {
	Op       string
	Revision uint64
	Count    int
}

// Notifier is told about committed changes. Implementations must not block
// for long; failures are reported but never undo the change.
type Notifier interface {
	LedgerChanged(ctx context.Context, c Change) error
}
