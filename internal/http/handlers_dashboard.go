package http

import (
	"net/http"

	"kakeibo/internal/core"
	applog "kakeibo/internal/log"
)

type summaryResponse struct {
	Month    string                    `json:"month"`
	Method   string                    `json:"method"`
	Today    string                    `json:"today"`
	Revision uint64                    `json:"revision"`
	Summary  core.Summary              `json:"summary"`
	Daily    []core.GroupTotal[string] `json:"daily"`
	ByDay    []core.GroupTotal[int]    `json:"by_day"`
	ByMethod []core.GroupTotal[string] `json:"by_method"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sel, err := parseSelection(query, s.defaultSelection())
	if err != nil {
		s.writeError(w, r, applog.OpSummary, err)
		return
	}
	today, err := parseToday(query)
	if err != nil {
		s.writeError(w, r, applog.OpSummary, err)
		return
	}
	if today.IsZero() {
		today = s.svc.Today()
	}

	key := summaryKey{
		revision: s.svc.Revision(),
		month:    sel.MonthKey(),
		method:   sel.Method,
		today:    today.String(),
	}
	d, hit := s.summaries.Get(key)
	if !hit {
		d = s.svc.Dashboard(sel, today)
		// a write between the key and the computation would make this
		// entry newer than its key claims; skip caching then
		if d.Revision == key.revision {
			s.summaries.Set(key, d)
		}
	}

	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Month:    sel.MonthKey(),
		Method:   sel.Method,
		Today:    today.String(),
		Revision: d.Revision,
		Summary:  d.Summary,
		Daily:    d.Daily,
		ByDay:    d.ByDay,
		ByMethod: d.ByMethod,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": s.svc.Categories(r.Context()),
		"unselected": core.UnselectedMethod,
	})
}

func (s *Server) handleMonths(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"months": s.svc.Months(),
	})
}
