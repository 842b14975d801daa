package adapthttp

import (
	"errors"
	"net/http"

	"healthmetrics/internal/domain"
)

func (s *Server) handleTrendsDaily(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", 30)
	unit := r.URL.Query().Get("unit")
	if unit == "" {
		unit = domain.UnitKg
	}
	if !domain.ValidWeightUnit(unit) {
		writeError(w, http.StatusBadRequest, errors.New(`unit must be "kg" or "lb"`))
		return
	}
	points, err := s.trends.GetDaily(r.Context(), days, unit)
	if err != nil {
		s.internalError(w, r, err, "daily trends")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"unit": unit, "points": points})
}
