package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"kakeibo/internal/core"
)

const documentVersion = 1

// document is the persisted wrapper. Files written before versioning only
// carry "records" and load the same way.
type document struct {
	Version int           `json:"version,omitempty"`
	Records []core.Record `json:"records"`
}

// JSONFile persists the ledger as a single JSON document.
type JSONFile struct {
	path string
}

func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the document location.
func (f *JSONFile) Path() string { return f.path }

// Load implements ledger.Persister. A missing file is an empty ledger.
func (f *JSONFile) Load(ctx context.Context) ([]core.Record, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		slog.InfoContext(ctx, "No ledger file yet, starting empty", "path", f.path)
		return []core.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}
	return decodeDocument(f.path, data)
}

func decodeDocument(source string, data []byte) ([]core.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &core.CorruptStateError{Source: source, Err: errors.New("expected a JSON object")}
	}
	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, &core.CorruptStateError{Source: source, Err: err}
	}
	if doc.Version > documentVersion {
		return nil, &core.CorruptStateError{Source: source, Err: fmt.Errorf("unsupported document version %d", doc.Version)}
	}
	if doc.Records == nil {
		doc.Records = []core.Record{}
	}
	if err := validateLoaded(source, doc.Records); err != nil {
		return nil, err
	}
	return doc.Records, nil
}

// validateLoaded rejects persisted records that could never have been
// appended. Loading them would let the next save write a document that no
// longer parses.
func validateLoaded(source string, records []core.Record) error {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return &core.CorruptStateError{Source: source, Err: fmt.Errorf("record %d: %w", i, err)}
		}
	}
	return nil
}

// Save implements ledger.Persister. The document is written to a temp file
// and renamed over the previous one.
func (f *JSONFile) Save(ctx context.Context, records []core.Record) error {
	if records == nil {
		records = []core.Record{}
	}
	data, err := json.MarshalIndent(document{Version: documentVersion, Records: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp ledger file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}
	slog.DebugContext(ctx, "Ledger file written", "path", f.path, "records", len(records))
	return nil
}
