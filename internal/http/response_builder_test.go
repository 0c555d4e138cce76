package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"kakeibo/internal/core"
	"kakeibo/internal/services"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", fmt.Errorf("add record: %w", &core.ValidationError{Field: "amount", Err: core.ErrNegativeAmount}), http.StatusUnprocessableEntity},
		{"bad request", fmt.Errorf("%w: empty body", errBadRequest), http.StatusBadRequest},
		{"stale", fmt.Errorf("save view: %w", services.ErrStaleView), http.StatusConflict},
		{"persistence", &core.PersistenceError{Op: "append", Err: errors.New("disk full")}, http.StatusServiceUnavailable},
		{"corrupt", &core.CorruptStateError{Source: "x.json", Err: errors.New("bad")}, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, kind := classifyError(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if kind == "" {
				t.Error("empty kind")
			}
		})
	}
}
