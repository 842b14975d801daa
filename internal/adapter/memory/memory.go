// Package memory implements the repositories in process memory. It backs the
// server when no DATABASE_URL is configured and is used by the HTTP tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"healthmetrics/internal/domain"
)

// DB holds every record, user and session behind one mutex.
type DB struct {
	mu       sync.Mutex
	records  []domain.HistoryRecord
	users    []*domain.User
	sessions map[string]*domain.Session

	recordIDCounter int64
	userIDCounter   int64
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

var (
	_ domain.HistoryRepository = (*HistoryRepo)(nil)
	_ domain.UserRepository    = (*UserRepo)(nil)
	_ domain.SessionRepository = (*SessionRepo)(nil)
)

// --- HistoryRepository ---

// HistoryRepo implements history persistence.
type HistoryRepo struct {
	db *DB
}

// NewHistoryRepo returns the history repository view of db.
func (db *DB) NewHistoryRepo() *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Insert stores a copy of rec and assigns it the next ID.
func (r *HistoryRepo) Insert(ctx context.Context, rec *domain.HistoryRecord) (int64, error) {
	if rec == nil {
		return 0, errors.New("nil record")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.recordIDCounter++
	stored := *rec
	stored.ID = r.db.recordIDCounter
	stored.CreatedAt = rec.CreatedAt.UTC()
	r.db.records = append(r.db.records, stored)
	return stored.ID, nil
}

// GetAll returns every record, newest first. Records created at the same
// instant are ordered by descending ID.
func (r *HistoryRepo) GetAll(ctx context.Context) ([]domain.HistoryRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	result := make([]domain.HistoryRecord, len(r.db.records))
	copy(result, r.db.records)
	sortNewestFirst(result)
	return result, nil
}

// GetByID returns a copy of the record with the given ID, or nil.
func (r *HistoryRepo) GetByID(ctx context.Context, id int64) (*domain.HistoryRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.records {
		if r.db.records[i].ID == id {
			rec := r.db.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

// Delete removes the record with the given ID.
func (r *HistoryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.records {
		if r.db.records[i].ID == id {
			r.db.records = append(r.db.records[:i], r.db.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// DeleteAll removes every record. IDs are not reused afterwards.
func (r *HistoryRepo) DeleteAll(ctx context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	n := int64(len(r.db.records))
	r.db.records = nil
	return n, nil
}

// Count returns the number of stored records.
func (r *HistoryRepo) Count(ctx context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.records), nil
}

// LatestForLocalDay returns the newest record created on the given day.
func (r *HistoryRepo) LatestForLocalDay(ctx context.Context, localDay string) (*domain.HistoryRecord, error) {
	dayStart, err := time.ParseInLocation("2006-01-02", localDay, time.Local)
	if err != nil {
		return nil, err
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var latest *domain.HistoryRecord
	for i := range r.db.records {
		rec := &r.db.records[i]
		if rec.CreatedAt.Before(dayStart) || !rec.CreatedAt.Before(dayEnd) {
			continue
		}
		if latest == nil || newer(*rec, *latest) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, nil
	}
	ret := *latest
	return &ret, nil
}

func newer(a, b domain.HistoryRecord) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func sortNewestFirst(recs []domain.HistoryRecord) {
	sort.Slice(recs, func(i, j int) bool {
		return newer(recs[i], recs[j])
	})
}

// --- UserRepository ---

// UserRepo implements user persistence.
type UserRepo struct {
	db *DB
}

// NewUserRepo returns the user repository view of db.
func (db *DB) NewUserRepo() *UserRepo {
	return &UserRepo{db: db}
}

// GetByUsername retrieves a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// Create creates a new user. Usernames are unique.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}

	r.db.userIDCounter++
	u := &domain.User{
		ID:           r.db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.db.users = append(r.db.users, u)
	cp := *u
	return &cp, nil
}

// Count returns the total number of users.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo returns the session repository view of db.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create stores a session keyed by its token.
func (r *SessionRepo) Create(ctx context.Context, s domain.Session) error {
	if s.Token == "" {
		return errors.New("empty session token")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	r.db.sessions[s.Token] = &s
	return nil
}

// GetByToken retrieves a session by token. Expiry is left to the caller.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes every session that expired before now.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
			n++
		}
	}
	return n, nil
}
