package domain

import (
	"context"
	"errors"
	"time"
)

// ErrRecordNotFound is returned when a history record does not exist.
var ErrRecordNotFound = errors.New("record not found")

// HistoryRecord is a saved measurement together with the metrics derived
// from it. Records are never updated after creation.
type HistoryRecord struct {
	ID                int64             `json:"id"`
	WeightKg          float64           `json:"weightKg"`
	HeightCm          float64           `json:"heightCm"`
	BMI               float64           `json:"bmi"`
	Classification    BMIClassification `json:"classification"`
	BMR               *float64          `json:"bmr,omitempty"`
	IdealWeight       *float64          `json:"idealWeight,omitempty"`
	DailyCalorieNeeds *float64          `json:"dailyCalorieNeeds,omitempty"`
	Age               int               `json:"age"`
	Sex               Sex               `json:"sex"`
	ActivityLevel     ActivityLevel     `json:"activityLevel"`
	CreatedAt         time.Time         `json:"createdAt"`
}

// NewHistoryRecord builds an unsaved record from an input and its metrics.
func NewHistoryRecord(in BiometricInput, m HealthMetrics, createdAt time.Time) *HistoryRecord {
	return &HistoryRecord{
		WeightKg:          in.WeightKg,
		HeightCm:          in.HeightCm,
		BMI:               m.BMI,
		Classification:    m.Classification,
		BMR:               m.BMR,
		IdealWeight:       m.IdealWeight,
		DailyCalorieNeeds: m.DailyCalorieNeeds,
		Age:               in.Age,
		Sex:               in.Sex,
		ActivityLevel:     in.ActivityLevel,
		CreatedAt:         createdAt,
	}
}

// HasCompleteData reports whether the record carries the age-dependent
// metrics.
func (r *HistoryRecord) HasCompleteData() bool {
	return r.Age > 0 && r.BMR != nil && *r.BMR > 0
}

// HistoryRepository is the port for history persistence.
type HistoryRepository interface {
	// Insert stores rec and returns its new ID.
	Insert(ctx context.Context, rec *HistoryRecord) (int64, error)
	// GetAll returns every record, newest first.
	GetAll(ctx context.Context) ([]HistoryRecord, error)
	// GetByID returns nil, nil when the record does not exist.
	GetByID(ctx context.Context, id int64) (*HistoryRecord, error)
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int, error)
	// LatestForLocalDay returns the newest record created on a local
	// calendar day ("2006-01-02"), or nil.
	LatestForLocalDay(ctx context.Context, localDay string) (*HistoryRecord, error)
}
