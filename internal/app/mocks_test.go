package app_test

import (
	"context"
	"sync"

	"healthmetrics/internal/app"
	"healthmetrics/internal/domain"
)

type mockHistoryRepo struct {
	insertFn    func(ctx context.Context, rec *domain.HistoryRecord) (int64, error)
	getAllFn    func(ctx context.Context) ([]domain.HistoryRecord, error)
	getByIDFn   func(ctx context.Context, id int64) (*domain.HistoryRecord, error)
	deleteFn    func(ctx context.Context, id int64) (bool, error)
	deleteAllFn func(ctx context.Context) (int64, error)
	countFn     func(ctx context.Context) (int, error)
	latestFn    func(ctx context.Context, day string) (*domain.HistoryRecord, error)
}

func (m *mockHistoryRepo) Insert(ctx context.Context, rec *domain.HistoryRecord) (int64, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, rec)
	}
	return 1, nil
}

func (m *mockHistoryRepo) GetAll(ctx context.Context) ([]domain.HistoryRecord, error) {
	if m.getAllFn != nil {
		return m.getAllFn(ctx)
	}
	return nil, nil
}

func (m *mockHistoryRepo) GetByID(ctx context.Context, id int64) (*domain.HistoryRecord, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockHistoryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return false, nil
}

func (m *mockHistoryRepo) DeleteAll(ctx context.Context) (int64, error) {
	if m.deleteAllFn != nil {
		return m.deleteAllFn(ctx)
	}
	return 0, nil
}

func (m *mockHistoryRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockHistoryRepo) LatestForLocalDay(ctx context.Context, day string) (*domain.HistoryRecord, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, day)
	}
	return nil, nil
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []app.HistoryEvent
}

func (p *recordingPublisher) Publish(evt app.HistoryEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}
