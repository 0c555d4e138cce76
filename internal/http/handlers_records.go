package http

import (
	"fmt"
	"net/http"

	"kakeibo/internal/core"
	applog "kakeibo/internal/log"
)

type viewResponse struct {
	Month    string           `json:"month"`
	Method   string           `json:"method"`
	Revision uint64           `json:"revision"`
	Count    int              `json:"count"`
	Total    int64            `json:"total"`
	Records  []recordResponse `json:"records"`
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r.URL.Query(), s.defaultSelection())
	if err != nil {
		s.writeError(w, r, applog.OpView, err)
		return
	}

	v := s.svc.View(sel)
	writeJSON(w, http.StatusOK, viewResponse{
		Month:    sel.MonthKey(),
		Method:   sel.Method,
		Revision: v.Revision,
		Count:    len(v.Records),
		Total:    core.Total(v.Records),
		Records:  toRecordResponses(v.Records),
	})
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var dto recordDTO
	if err := decodeJSON(w, r, &dto); err != nil {
		s.writeError(w, r, applog.OpAppend, err)
		return
	}
	rec, err := dto.toRecord(s.svc.Today())
	if err != nil {
		s.writeError(w, r, applog.OpAppend, err)
		return
	}

	if err := s.svc.AddRecord(r.Context(), rec); err != nil {
		s.writeError(w, r, applog.OpAppend, err)
		return
	}

	rev := s.svc.Revision()
	s.structured.LogRecordAdded(r.Context(), rec.Date.String(), rec.Shop, rec.PaymentMethod, rec.Amount, rev)
	writeJSON(w, http.StatusCreated, map[string]any{
		"record":   toRecordResponses([]core.Record{rec})[0],
		"revision": rev,
	})
}

// handleSaveView replaces the records matching the query's selection with
// the request body's records.
func (s *Server) handleSaveView(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r.URL.Query(), s.defaultSelection())
	if err != nil {
		s.writeError(w, r, applog.OpReplace, err)
		return
	}

	var req saveViewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, applog.OpReplace, err)
		return
	}

	today := s.svc.Today()
	edited := make([]core.Record, 0, len(req.Records))
	for i, dto := range req.Records {
		rec, err := dto.toRecord(today)
		if err != nil {
			s.writeError(w, r, applog.OpReplace, fmt.Errorf("record %d: %w", i, err))
			return
		}
		edited = append(edited, rec)
	}

	if err := s.svc.SaveView(r.Context(), sel, edited, req.Revision); err != nil {
		s.writeError(w, r, applog.OpReplace, err)
		return
	}

	rev := s.svc.Revision()
	s.structured.LogViewSaved(r.Context(), sel.MonthKey(), sel.Method, len(edited), rev)
	writeJSON(w, http.StatusOK, map[string]any{
		"revision": rev,
		"count":    len(edited),
	})
}
