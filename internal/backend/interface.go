package backend

import (
	"context"

	"kakeibo/internal/ledger"
	"kakeibo/internal/services"
	"kakeibo/internal/sheets"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// BackendResult is everything the HTTP server needs.
type BackendResult struct {
	Service   *services.LedgerService
	Persister ledger.Persister
	Cleanup   CleanupFunc
}

// Factory builds backends from configuration.
type Factory interface {
	// CreateBackend opens the ledger and wires the service around it.
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	// OpenPersister opens only the durable side, for the mirror worker.
	OpenPersister(config Config) (ledger.Persister, CleanupFunc, error)
	// CreateMirror returns the spreadsheet mirror, or an in-memory one when
	// no spreadsheet is configured.
	CreateMirror(ctx context.Context, config Config) (sheets.LedgerMirror, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// json
	DataFile string

	// sqlite
	SQLiteDBPath string

	// AMQP, optional
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets, optional
	GoogleSpreadsheetID string
	GoogleLedgerSheet   string
	GoogleMethodsSheet  string

	// seed_methods.txt location when no spreadsheet is set
	SeedDir string
}

// BackendType selects where the ledger is persisted.
type BackendType string

const (
	JSONBackend   BackendType = "json"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case JSONBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
