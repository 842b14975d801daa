package adapthttp

import (
	"net/http"

	"healthmetrics/internal/app"
	"healthmetrics/internal/domain"
)

type bandView struct {
	domain.BMIBand
	Advice string `json:"advice"`
}

type activityView struct {
	Level      domain.ActivityLevel `json:"level"`
	Label      string               `json:"label"`
	Multiplier float64              `json:"multiplier"`
}

// handleReference returns the static tables the form renders: BMI bands and
// activity levels.
func (s *Server) handleReference(w http.ResponseWriter, r *http.Request) {
	bands := make([]bandView, 0, len(domain.BMIBands))
	for _, b := range domain.BMIBands {
		bands = append(bands, bandView{BMIBand: b, Advice: b.Classification.Advice()})
	}
	levels := make([]activityView, 0, len(domain.ActivityLevels))
	for _, l := range domain.ActivityLevels {
		levels = append(levels, activityView{Level: l, Label: l.Label(), Multiplier: l.Multiplier()})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bands":          bands,
		"activityLevels": levels,
		"sexes":          []domain.Sex{domain.SexMale, domain.SexFemale},
	})
}

// handleEvaluate validates a raw form and returns the resulting snapshot. It
// never stores anything, so the form can be evaluated on every keystroke.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var in app.FormInput
	if err := parseJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.health.Evaluate(in))
}
