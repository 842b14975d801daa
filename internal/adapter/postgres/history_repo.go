package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"healthmetrics/internal/domain"
)

// HistoryRepo implements domain.HistoryRepository on the bmi_records table.
type HistoryRepo struct {
	db *DB
}

// NewHistoryRepo wraps a DB as a HistoryRepository.
func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

var _ domain.HistoryRepository = (*HistoryRepo)(nil)

const recordColumns = "id, weight, height, bmi, classification, bmr, ideal_weight, daily_calorie_needs, age, sex, activity_level, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.HistoryRecord, error) {
	var (
		r                    domain.HistoryRecord
		bmr, ideal, calories sql.NullFloat64
		classification, sex  string
		activity             int
	)
	err := row.Scan(&r.ID, &r.WeightKg, &r.HeightCm, &r.BMI, &classification,
		&bmr, &ideal, &calories, &r.Age, &sex, &activity, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.Classification = domain.BMIClassification(classification)
	r.Sex = domain.Sex(sex)
	r.ActivityLevel = domain.ActivityLevel(activity)
	r.BMR = nullFloat(bmr)
	r.IdealWeight = nullFloat(ideal)
	r.DailyCalorieNeeds = nullFloat(calories)
	return &r, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func floatArg(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// Insert stores rec and returns its new ID.
func (r *HistoryRepo) Insert(ctx context.Context, rec *domain.HistoryRecord) (int64, error) {
	if rec == nil {
		return 0, errors.New("nil record")
	}
	var id int64
	err := r.db.sql.QueryRowContext(ctx,
		`INSERT INTO bmi_records(weight, height, bmi, classification, bmr, ideal_weight, daily_calorie_needs, age, sex, activity_level, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id;`,
		rec.WeightKg, rec.HeightCm, rec.BMI, string(rec.Classification),
		floatArg(rec.BMR), floatArg(rec.IdealWeight), floatArg(rec.DailyCalorieNeeds),
		rec.Age, string(rec.Sex), int(rec.ActivityLevel), rec.CreatedAt.UTC(),
	).Scan(&id)
	return id, err
}

// GetAll returns every record, newest first.
func (r *HistoryRepo) GetAll(ctx context.Context) ([]domain.HistoryRecord, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		"SELECT "+recordColumns+" FROM bmi_records ORDER BY created_at DESC, id DESC;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.HistoryRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// GetByID returns the record with the given ID, or nil.
func (r *HistoryRepo) GetByID(ctx context.Context, id int64) (*domain.HistoryRecord, error) {
	row := r.db.sql.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM bmi_records WHERE id = $1;", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

// Delete removes the record with the given ID.
func (r *HistoryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.sql.ExecContext(ctx, "DELETE FROM bmi_records WHERE id = $1;", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteAll removes every record.
func (r *HistoryRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.sql.ExecContext(ctx, "DELETE FROM bmi_records;")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the number of stored records.
func (r *HistoryRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM bmi_records;").Scan(&n)
	return n, err
}

// LatestForLocalDay returns the most recent record for a local calendar day.
func (r *HistoryRepo) LatestForLocalDay(ctx context.Context, localDay string) (*domain.HistoryRecord, error) {
	dayStart, err := time.ParseInLocation("2006-01-02", localDay, time.Local)
	if err != nil {
		return nil, err
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	row := r.db.sql.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM bmi_records WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at DESC, id DESC LIMIT 1;",
		dayStart.UTC(), dayEnd.UTC(),
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}
