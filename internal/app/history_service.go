package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"healthmetrics/internal/domain"
)

// HistoryService encapsulates the saved-measurement use cases.
type HistoryService struct {
	repo   domain.HistoryRepository
	events Publisher
	log    zerolog.Logger
}

// NewHistoryService creates a HistoryService backed by the given repository.
func NewHistoryService(repo domain.HistoryRepository, events Publisher, log zerolog.Logger) *HistoryService {
	return &HistoryService{repo: repo, events: events, log: log}
}

// List returns all records, newest first.
func (s *HistoryService) List(ctx context.Context) ([]domain.HistoryRecord, error) {
	return s.repo.GetAll(ctx)
}

// Get returns a single record or domain.ErrRecordNotFound.
func (s *HistoryService) Get(ctx context.Context, id int64) (*domain.HistoryRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrRecordNotFound
	}
	return rec, nil
}

// Delete removes a record. Deleting a missing record returns
// domain.ErrRecordNotFound.
func (s *HistoryService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrRecordNotFound
	}
	s.log.Info().Int64("record_id", id).Msg("record deleted")
	s.events.Publish(HistoryEvent{Kind: EventRecordDeleted, RecordID: id, At: time.Now().UTC()})
	return nil
}

// Clear removes every record and returns how many were removed.
func (s *HistoryService) Clear(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Info().Int64("removed", n).Msg("history cleared")
	s.events.Publish(HistoryEvent{Kind: EventHistoryCleared, Removed: n, At: time.Now().UTC()})
	return n, nil
}

// Count returns the number of stored records.
func (s *HistoryService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
