package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthmetrics/internal/app"
	"healthmetrics/internal/domain"
)

func TestHistoryGet_NotFound(t *testing.T) {
	svc := app.NewHistoryService(&mockHistoryRepo{}, &recordingPublisher{}, zerolog.Nop())

	_, err := svc.Get(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestHistoryGet_Found(t *testing.T) {
	repo := &mockHistoryRepo{
		getByIDFn: func(_ context.Context, id int64) (*domain.HistoryRecord, error) {
			return &domain.HistoryRecord{ID: id, BMI: 22}, nil
		},
	}
	svc := app.NewHistoryService(repo, &recordingPublisher{}, zerolog.Nop())

	rec, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.ID)
}

func TestHistoryDelete(t *testing.T) {
	tests := []struct {
		name       string
		deleted    bool
		repoErr    error
		wantErr    error
		wantEvents []string
	}{
		{"deleted", true, nil, nil, []string{app.EventRecordDeleted}},
		{"missing", false, nil, domain.ErrRecordNotFound, []string{}},
		{"repo error", false, errors.New("boom"), nil, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockHistoryRepo{
				deleteFn: func(_ context.Context, _ int64) (bool, error) {
					return tc.deleted, tc.repoErr
				},
			}
			pub := &recordingPublisher{}
			svc := app.NewHistoryService(repo, pub, zerolog.Nop())

			err := svc.Delete(context.Background(), 5)
			switch {
			case tc.repoErr != nil:
				assert.ErrorIs(t, err, tc.repoErr)
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			default:
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.wantEvents, pub.kinds())
		})
	}
}

func TestHistoryClear(t *testing.T) {
	repo := &mockHistoryRepo{
		deleteAllFn: func(_ context.Context) (int64, error) { return 4, nil },
	}
	pub := &recordingPublisher{}
	svc := app.NewHistoryService(repo, pub, zerolog.Nop())

	n, err := svc.Clear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	require.Len(t, pub.events, 1)
	assert.Equal(t, app.EventHistoryCleared, pub.events[0].Kind)
	assert.Equal(t, int64(4), pub.events[0].Removed)
}

func TestHistoryListAndCount(t *testing.T) {
	recs := []domain.HistoryRecord{{ID: 2}, {ID: 1}}
	repo := &mockHistoryRepo{
		getAllFn: func(_ context.Context) ([]domain.HistoryRecord, error) { return recs, nil },
		countFn:  func(_ context.Context) (int, error) { return len(recs), nil },
	}
	svc := app.NewHistoryService(repo, &recordingPublisher{}, zerolog.Nop())

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, recs, got)

	n, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
