package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
	"kakeibo/internal/sheets"
)

// Loader reads the persisted ledger. ledger.Persister satisfies it.
type Loader interface {
	Load(ctx context.Context) ([]core.Record, error)
}

// MirrorWorker copies the persisted ledger to a LedgerMirror whenever a
// change is announced, and periodically in case announcements were lost.
// Concurrent requests share one run.
type MirrorWorker struct {
	loader Loader
	mirror sheets.LedgerMirror
	group  singleflight.Group
}

func NewMirrorWorker(loader Loader, mirror sheets.LedgerMirror) *MirrorWorker {
	return &MirrorWorker{loader: loader, mirror: mirror}
}

// HandleChange processes one change message from AMQP.
func (w *MirrorWorker) HandleChange(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		"message_id", msg.ID,
		"op", msg.Op,
		"revision", msg.Revision)
	_, err := w.Sync(ctx)
	return err
}

// Sync mirrors the current persisted ledger and returns the mirror's
// reference for what it wrote.
func (w *MirrorWorker) Sync(ctx context.Context) (string, error) {
	v, err, shared := w.group.Do("mirror", func() (any, error) {
		records, err := w.loader.Load(ctx)
		if err != nil {
			return "", fmt.Errorf("load ledger: %w", err)
		}
		ref, err := w.mirror.Mirror(ctx, records)
		if err != nil {
			return "", fmt.Errorf("mirror ledger: %w", err)
		}
		slog.InfoContext(ctx, "Ledger mirrored", "records", len(records), "ref", ref)
		return ref, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		slog.DebugContext(ctx, "Mirror run shared with a concurrent request")
	}
	return v.(string), nil
}

// Run mirrors once at start and then every interval until ctx is done.
// Failed runs are logged and retried on the next tick.
func (w *MirrorWorker) Run(ctx context.Context, interval time.Duration) error {
	if _, err := w.Sync(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup mirror failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Sync(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic mirror failed", "error", err)
			}
		}
	}
}
