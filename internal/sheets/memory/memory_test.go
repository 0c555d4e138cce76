package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"kakeibo/internal/core"
)

func TestMethodsDedupe(t *testing.T) {
	s := New([]string{"Suica", " ", "Suica", "nanaco"})
	got, err := s.Methods(context.Background())
	if err != nil || len(got) != 2 || got[0] != "Suica" || got[1] != "nanaco" {
		t.Fatalf("unexpected methods: %v err=%v", got, err)
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()

	s := NewFromFiles(dir)
	if got, _ := s.Methods(context.Background()); len(got) != 0 {
		t.Fatalf("expected no methods without seed file, got %v", got)
	}

	content := "# extra methods\nWAON\nnanaco\nWAON\n\n"
	if err := os.WriteFile(filepath.Join(dir, "seed_methods.txt"), []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s = NewFromFiles(dir)
	got, _ := s.Methods(context.Background())
	if len(got) != 2 || got[0] != "WAON" || got[1] != "nanaco" {
		t.Fatalf("unexpected methods: %v", got)
	}
}

func TestMirrorKeepsCopy(t *testing.T) {
	s := New(nil)
	records := []core.Record{
		{Date: core.NewDate(2024, time.May, 1), PaymentMethod: "現金", Amount: 300},
	}

	ref, err := s.Mirror(context.Background(), records)
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected mirror: ref=%q err=%v", ref, err)
	}

	records[0].Amount = 1
	got, n := s.Mirrored()
	if n != 1 || len(got) != 1 || got[0].Amount != 300 {
		t.Fatalf("mirror was not a copy: %v (%d)", got, n)
	}
}
