package adapthttp

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"healthmetrics/internal/app"
	"healthmetrics/internal/domain"
)

// recordView adds display fields derived from the stored record.
type recordView struct {
	domain.HistoryRecord
	Advice        string `json:"advice"`
	ActivityLabel string `json:"activityLabel"`
	CompleteData  bool   `json:"completeData"`
}

func newRecordView(rec domain.HistoryRecord) recordView {
	return recordView{
		HistoryRecord: rec,
		Advice:        rec.Classification.Advice(),
		ActivityLabel: rec.ActivityLevel.Label(),
		CompleteData:  rec.HasCompleteData(),
	}
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := s.history.List(r.Context())
	if err != nil {
		s.internalError(w, r, err, "list records")
		return
	}
	items := make([]recordView, 0, len(recs))
	for _, rec := range recs {
		items = append(items, newRecordView(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleSaveRecord(w http.ResponseWriter, r *http.Request) {
	var in app.FormInput
	if err := parseJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := s.health.Save(r.Context(), in)
	var formErr *app.FormError
	if errors.As(err, &formErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": formErr.Error(),
			"form":  formErr.State,
		})
		return
	}
	if err != nil {
		s.internalError(w, r, err, "save record")
		return
	}
	writeJSON(w, http.StatusCreated, newRecordView(*rec))
}

func (s *Server) handleClearRecords(w http.ResponseWriter, r *http.Request) {
	n, err := s.history.Clear(r.Context())
	if err != nil {
		s.internalError(w, r, err, "clear records")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "removed": n})
}

func (s *Server) handleCountRecords(w http.ResponseWriter, r *http.Request) {
	n, err := s.history.Count(r.Context())
	if err != nil {
		s.internalError(w, r, err, "count records")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": n})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rec, err := s.history.Get(r.Context(), id)
	if errors.Is(err, domain.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.internalError(w, r, err, "get record")
		return
	}
	writeJSON(w, http.StatusOK, newRecordView(*rec))
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	err = s.history.Delete(r.Context(), id)
	if errors.Is(err, domain.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.internalError(w, r, err, "delete record")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error, op string) {
	zerolog.Ctx(r.Context()).Error().Err(err).Str("op", op).Msg("request failed")
	writeError(w, http.StatusInternalServerError, errors.New("internal error"))
}
