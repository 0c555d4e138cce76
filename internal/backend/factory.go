package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kakeibo/internal/amqp"
	"kakeibo/internal/ledger"
	"kakeibo/internal/services"
	"kakeibo/internal/sheets"
	gsheet "kakeibo/internal/sheets/google"
	"kakeibo/internal/sheets/memory"
	"kakeibo/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend. A corrupt persisted ledger
// is returned as an error; it is never replaced by an empty one.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	persister, closePersister, err := f.OpenPersister(config)
	if err != nil {
		return nil, err
	}
	cleanups := []CleanupFunc{closePersister}

	store, err := ledger.Open(ctx, persister)
	if err != nil {
		runCleanups(cleanups)
		return nil, err
	}

	// The broker is optional; the ledger works without it.
	var notifier ledger.Notifier
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without change notification", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			notifier = client
			cleanups = append(cleanups, client.Close)
		}
	}

	methods := f.createMethodReader(ctx, config)
	svc := services.NewLedgerService(store, notifier, methods)

	f.logger.Info("Initialized ledger backend",
		"type", config.Type,
		"records", store.Len(),
		"amqp_enabled", notifier != nil)

	return &BackendResult{
		Service:   svc,
		Persister: persister,
		Cleanup:   func() error { return runCleanups(cleanups) },
	}, nil
}

// OpenPersister implements Factory.OpenPersister
func (f *DefaultFactory) OpenPersister(config Config) (ledger.Persister, CleanupFunc, error) {
	switch config.Type {
	case JSONBackend:
		f.logger.Info("Using JSON ledger file", "path", config.DataFile)
		return storage.NewJSONFile(config.DataFile), noCleanup, nil
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Using SQLite ledger", "db_path", config.SQLiteDBPath)
		return repo, repo.Close, nil
	case MemoryBackend:
		f.logger.Warn("Using in-memory ledger, records are lost on exit")
		return storage.NewMemory(), noCleanup, nil
	default:
		return nil, nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// CreateMirror implements Factory.CreateMirror
func (f *DefaultFactory) CreateMirror(ctx context.Context, config Config) (sheets.LedgerMirror, error) {
	if config.GoogleSpreadsheetID == "" {
		f.logger.Warn("No spreadsheet configured, mirroring in memory only")
		return memory.New(nil), nil
	}
	cli, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID: config.GoogleSpreadsheetID,
		LedgerSheet:   config.GoogleLedgerSheet,
		MethodsSheet:  config.GoogleMethodsSheet,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	return cli, nil
}

func (f *DefaultFactory) createMethodReader(ctx context.Context, config Config) sheets.MethodReader {
	if config.GoogleSpreadsheetID != "" {
		cli, err := gsheet.New(ctx, gsheet.Options{
			SpreadsheetID: config.GoogleSpreadsheetID,
			LedgerSheet:   config.GoogleLedgerSheet,
			MethodsSheet:  config.GoogleMethodsSheet,
		})
		if err == nil {
			return cli
		}
		f.logger.Warn("Failed to initialize Google Sheets client, using seed file for payment methods", "error", err)
	}
	seedDir := config.SeedDir
	if seedDir == "" {
		seedDir = "data"
	}
	return memory.NewFromFiles(seedDir)
}

func noCleanup() error { return nil }

// runCleanups runs in reverse order and joins the errors.
func runCleanups(cleanups []CleanupFunc) error {
	var errs []error
	for i := len(cleanups) - 1; i >= 0; i-- {
		if cleanups[i] == nil {
			continue
		}
		if err := cleanups[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
