package app

import (
	"context"
	"errors"
	"time"

	"healthmetrics/internal/domain"
)

// TrendsService builds per-day series from the history.
type TrendsService struct {
	repo domain.HistoryRepository
	now  func() time.Time
}

// NewTrendsService creates a TrendsService backed by the given repository.
func NewTrendsService(repo domain.HistoryRepository) *TrendsService {
	return &TrendsService{repo: repo, now: time.Now}
}

// DayPoint is a single data point returned by GetDaily.
type DayPoint struct {
	Day            string                   `json:"day"`
	BMI            *float64                 `json:"bmi"`
	Classification domain.BMIClassification `json:"classification,omitempty"`
	Weight         *WeightPoint             `json:"weight"`
}

// WeightPoint is the optional weight value within a DayPoint.
type WeightPoint struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// GetDaily returns one point per local day for the last days days, oldest
// first, using the newest record of each day. Weights are converted to unit.
func (s *TrendsService) GetDaily(ctx context.Context, days int, unit string) ([]DayPoint, error) {
	if !domain.ValidWeightUnit(unit) {
		return nil, errors.New("unit must be \"kg\" or \"lb\"")
	}
	if days < 1 {
		days = 1
	}
	if days > 366 {
		days = 366
	}

	today := s.now().In(time.Local)
	points := make([]DayPoint, 0, days)

	for i := days - 1; i >= 0; i-- {
		dayStr := today.AddDate(0, 0, -i).Format("2006-01-02")

		rec, err := s.repo.LatestForLocalDay(ctx, dayStr)
		if err != nil {
			return nil, err
		}

		p := DayPoint{Day: dayStr}
		if rec != nil {
			bmi := rec.BMI
			p.BMI = &bmi
			p.Classification = rec.Classification
			p.Weight = &WeightPoint{Value: domain.ConvertWeight(rec.WeightKg, domain.UnitKg, unit), Unit: unit}
		}
		points = append(points, p)
	}
	return points, nil
}
