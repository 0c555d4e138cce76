package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/ledger"
	"kakeibo/internal/sheets"
)

// ErrStaleView is returned when an edited view was derived from an older
// revision than the one currently held.
var ErrStaleView = errors.New("view is stale, reload and edit again")

// View is a filtered, display-ordered projection of the ledger.
type View struct {
	Selection core.Selection
	Records   []core.Record
	Revision  uint64
}

// Dashboard carries the metrics and chart series for a selection.
type Dashboard struct {
	Summary  core.Summary
	Daily    []core.GroupTotal[string]
	ByDay    []core.GroupTotal[int]
	ByMethod []core.GroupTotal[string]
	Revision uint64
}

// LedgerService coordinates the ledger store with change notification and
// the category sources. The notifier and method reader are optional.
type LedgerService struct {
	store    *ledger.Store
	notifier ledger.Notifier
	methods  sheets.MethodReader
	now      func() time.Time
}

func NewLedgerService(store *ledger.Store, notifier ledger.Notifier, methods sheets.MethodReader) *LedgerService {
	return &LedgerService{
		store:    store,
		notifier: notifier,
		methods:  methods,
		now:      time.Now,
	}
}

// Revision returns the store's current revision.
func (s *LedgerService) Revision() uint64 {
	return s.store.Revision()
}

// Today is the current calendar day in local time.
func (s *LedgerService) Today() core.Date {
	return core.DateOf(s.now())
}

// DefaultSelection selects the current month across every method.
func (s *LedgerService) DefaultSelection() core.Selection {
	now := s.now()
	return core.Selection{Year: now.Year(), Month: now.Month()}
}

// AddRecord appends one record. Validation failures leave the ledger
// untouched; a failed durable write is reported after the record was added
// in memory and no change is announced for it.
func (s *LedgerService) AddRecord(ctx context.Context, r core.Record) error {
	if err := s.store.Append(ctx, r); err != nil {
		return fmt.Errorf("add record: %w", err)
	}
	s.announce(ctx, ledger.OpAppend)
	return nil
}

// View returns the records matching sel, newest first.
func (s *LedgerService) View(sel core.Selection) View {
	// revision first: a concurrent write can only make the view newer
	rev := s.store.Revision()
	records := core.Filter(s.store.All(), sel.Predicate())
	return View{
		Selection: sel,
		Records:   core.SortByDateDesc(records),
		Revision:  rev,
	}
}

// SaveView reconciles an edited view back into the ledger: records outside
// sel are kept in order and the edited records replace everything inside
// it. Every edited record must validate. With baseRevision set, the save is
// refused with ErrStaleView if the ledger changed since the view was taken.
func (s *LedgerService) SaveView(ctx context.Context, sel core.Selection, edited []core.Record, baseRevision *uint64) error {
	for i, r := range edited {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("edited record %d: %w", i, err)
		}
	}

	edited = slices.Clone(edited)
	err := s.store.Rewrite(ctx, func(current []core.Record, revision uint64) ([]core.Record, error) {
		if baseRevision != nil && *baseRevision != revision {
			return nil, fmt.Errorf("%w (have %d, view from %d)", ErrStaleView, revision, *baseRevision)
		}
		return core.Merge(current, sel.Predicate(), edited), nil
	})
	if err != nil {
		return fmt.Errorf("save view: %w", err)
	}

	slog.InfoContext(ctx, "View saved",
		"month", sel.MonthKey(),
		"method", sel.Method,
		"edited", len(edited),
		"revision", s.store.Revision())
	s.announce(ctx, ledger.OpReplace)
	return nil
}

// Dashboard computes metrics for sel. today may be zero for the current day.
func (s *LedgerService) Dashboard(sel core.Selection, today core.Date) Dashboard {
	if today.IsZero() {
		today = s.Today()
	}
	rev := s.store.Revision()
	full := s.store.All()
	view := core.Filter(full, sel.Predicate())
	return Dashboard{
		Summary:  core.Summarize(full, view, today),
		Daily:    core.SortedTotals(view, core.ByDate),
		ByDay:    core.SortedTotals(view, core.ByDay),
		ByMethod: core.SortedTotals(view, core.ByMethod),
		Revision: rev,
	}
}

// Categories returns the payment methods a form should offer: the canonical
// list, then configured extras, then labels only seen in the ledger.
// An unreachable method source is logged and skipped.
func (s *LedgerService) Categories(ctx context.Context) []string {
	known := core.CanonicalMethods()
	if s.methods != nil {
		extra, err := s.methods.Methods(ctx)
		if err != nil {
			slog.WarnContext(ctx, "Failed to read extra payment methods", "error", err)
		} else {
			known = core.MergedCategories(known, extra)
		}
	}
	return core.MergedCategories(known, core.ObservedMethods(s.store.All()))
}

// Months lists the periods present in the ledger, newest first.
func (s *LedgerService) Months() []string {
	return core.Months(s.store.All())
}

func (s *LedgerService) announce(ctx context.Context, op string) {
	if s.notifier == nil {
		slog.DebugContext(ctx, "No change notifier configured, skipping", "op", op)
		return
	}
	change := ledger.Change{Op: op, Revision: s.store.Revision(), Count: s.store.Len()}
	if err := s.notifier.LedgerChanged(ctx, change); err != nil {
		// the change is already durable
		slog.ErrorContext(ctx, "Failed to publish ledger change",
			"op", op,
			"revision", change.Revision,
			"error", err)
	}
}
