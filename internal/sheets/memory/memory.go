package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"kakeibo/internal/core"
	ports "kakeibo/internal/sheets"
)

var (
	_ ports.LedgerMirror = (*Store)(nil)
	_ ports.MethodReader = (*Store)(nil)
)

// Store is the in-process stand-in for the spreadsheet: it keeps the last
// mirrored ledger and a fixed list of extra payment methods.
type Store struct {
	mu       sync.Mutex
	methods  []string
	mirrored []core.Record
	mirrors  int
}

func New(methods []string) *Store {
	return &Store{methods: dedupe(methods)}
}

// NewFromFiles seeds extra methods from seed_methods.txt under base. A
// missing file means no extra methods.
func NewFromFiles(base string) *Store {
	return New(readLines(filepath.Join(base, "seed_methods.txt")))
}

// Methods returns the seeded payment methods.
func (s *Store) Methods(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.methods), nil
}

// Mirror keeps a copy of records and returns a synthetic reference.
func (s *Store) Mirror(_ context.Context, records []core.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirrored = slices.Clone(records)
	s.mirrors++
	return fmt.Sprintf("mem:%d", s.mirrors), nil
}

// Mirrored returns the last mirrored ledger and how many mirrors ran.
func (s *Store) Mirrored() ([]core.Record, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.mirrored), s.mirrors
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// dedupe drops blanks and repeats, keeping first-seen order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
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
