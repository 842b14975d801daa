package app

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"healthmetrics/internal/domain"
)

// ErrInvalidForm indicates that a form was saved while a field was invalid.
var ErrInvalidForm = errors.New("form has invalid fields")

// FormError carries the evaluated form that failed validation.
type FormError struct {
	State FormState
}

func (e *FormError) Error() string {
	var fields []string
	for _, f := range []struct {
		name string
		res  domain.ValidationResult
	}{
		{"weight", e.State.Weight},
		{"height", e.State.Height},
		{"age", e.State.Age},
	} {
		if !f.res.Valid() {
			fields = append(fields, f.name+": "+f.res.Reason)
		}
	}
	if len(fields) == 0 {
		return ErrInvalidForm.Error()
	}
	return ErrInvalidForm.Error() + " (" + strings.Join(fields, "; ") + ")"
}

func (e *FormError) Unwrap() error { return ErrInvalidForm }

// FormInput is the raw, unparsed state of the calculator form.
type FormInput struct {
	Weight        string               `json:"weight"`
	Height        string               `json:"height"`
	Age           string               `json:"age"`
	Sex           domain.Sex           `json:"sex"`
	ActivityLevel domain.ActivityLevel `json:"activityLevel"`
}

// FormState is an immutable snapshot of an evaluated form. A new snapshot is
// produced for every input change.
type FormState struct {
	Input   FormInput               `json:"input"`
	Weight  domain.ValidationResult `json:"weight"`
	Height  domain.ValidationResult `json:"height"`
	Age     domain.ValidationResult `json:"age"`
	Valid   bool                    `json:"valid"`
	Metrics *domain.HealthMetrics   `json:"metrics,omitempty"`
}

// Biometrics returns the parsed input. Only meaningful when s.Valid is true.
func (s FormState) Biometrics() domain.BiometricInput {
	weight, _ := domain.ParseDecimal(s.Input.Weight)
	height, _ := domain.ParseDecimal(s.Input.Height)
	age, _ := strconv.Atoi(strings.TrimSpace(s.Input.Age))
	return domain.BiometricInput{
		WeightKg:      weight,
		HeightCm:      height,
		Age:           age,
		Sex:           s.Input.Sex,
		ActivityLevel: s.Input.ActivityLevel,
	}
}

// HealthService runs the validate-then-calculate pipeline and saves results
// to the history.
type HealthService struct {
	repo   domain.HistoryRepository
	events Publisher
	log    zerolog.Logger
	now    func() time.Time
}

// NewHealthService creates a HealthService backed by the given repository.
// Saved records are announced on events.
func NewHealthService(repo domain.HistoryRepository, events Publisher, log zerolog.Logger) *HealthService {
	return &HealthService{repo: repo, events: events, log: log, now: time.Now}
}

// Evaluate validates every field and, when the form is valid, calculates the
// metrics. Sex is normalised so the snapshot records the formula used.
func (s *HealthService) Evaluate(in FormInput) FormState {
	in.Sex = domain.ParseSex(string(in.Sex))
	st := FormState{
		Input:  in,
		Weight: domain.ValidateWeight(in.Weight),
		Height: domain.ValidateHeight(in.Height),
		Age:    domain.ValidateAge(in.Age),
	}
	st.Valid = domain.FormValid(st.Weight, st.Height, st.Age, in.Weight, in.Height)
	if st.Valid {
		m := domain.Calculate(st.Biometrics())
		st.Metrics = &m
	}
	return st
}

// Save evaluates the form and stores the result as a new history record.
// An invalid form returns a *FormError.
func (s *HealthService) Save(ctx context.Context, in FormInput) (*domain.HistoryRecord, error) {
	st := s.Evaluate(in)
	if !st.Valid {
		return nil, &FormError{State: st}
	}

	rec := domain.NewHistoryRecord(st.Biometrics(), *st.Metrics, s.now().UTC())
	id, err := s.repo.Insert(ctx, rec)
	if err != nil {
		return nil, err
	}
	rec.ID = id

	s.log.Debug().Int64("record_id", id).Float64("bmi", rec.BMI).Msg("record saved")
	s.events.Publish(HistoryEvent{Kind: EventRecordCreated, RecordID: id, At: rec.CreatedAt})
	return rec, nil
}
