package sheets

import (
	"context"

	"kakeibo/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerMirror publishes a read-only copy of the full ledger somewhere a
	// human can look at it. The mirror is never read back into the ledger.
	LedgerMirror interface {
		Mirror(ctx context.Context, records []core.Record) (ref string, err error)
	}

	// MethodReader lists extra payment methods maintained outside the code.
	MethodReader interface {
		Methods(ctx context.Context) ([]string, error)
	}
)
