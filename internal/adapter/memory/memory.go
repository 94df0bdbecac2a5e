// Package memory implements in-memory repositories for development and
// testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"carbontrack/internal/domain"
)

// DB implements the domain repositories in memory.
type DB struct {
	mu       sync.Mutex
	users    []*domain.User
	records  []domain.EmissionRecord
	sessions map[string]*domain.Session

	userIDCounter   int64
	recordIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.RecordRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- UserRepository ---

// GetByUsername retrieves a user by username, or (nil, nil) if absent.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID, or (nil, nil) if absent.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// Create creates a new user, enforcing username uniqueness.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, domain.ErrDuplicateUser
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	cp := *u
	return &cp, nil
}

// --- RecordRepository ---

// AppendRecord appends an emission record, enforcing the username foreign
// key.
func (db *DB) AppendRecord(ctx context.Context, username, day string, total float64, breakdown domain.Breakdown) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	known := false
	for _, u := range db.users {
		if u.Username == username {
			known = true
			break
		}
	}
	if !known {
		return 0, domain.ErrUnknownUser
	}

	db.recordIDCounter++
	db.records = append(db.records, domain.EmissionRecord{
		ID:        db.recordIDCounter,
		Username:  username,
		Day:       day,
		Total:     total,
		Breakdown: breakdown,
		CreatedAt: time.Now().UTC(),
	})
	return db.recordIDCounter, nil
}

// ListRecentRecords returns up to limit most recent records for a user.
func (db *DB) ListRecentRecords(ctx context.Context, username string, limit int) ([]domain.EmissionRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.EmissionRecord, 0, limit)
	for i := len(db.records) - 1; i >= 0 && len(out) < limit; i-- {
		if db.records[i].Username == username {
			out = append(out, db.records[i])
		}
	}
	return out, nil
}

// DailyTotals returns per-day sums for a user, most recent day first.
func (db *DB) DailyTotals(ctx context.Context, username string) ([]domain.DayTotal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	sums := make(map[string]float64)
	for _, r := range db.records {
		if r.Username == username {
			sums[r.Day] += r.Total
		}
	}

	out := make([]domain.DayTotal, 0, len(sums))
	for day, total := range sums {
		out = append(out, domain.DayTotal{Day: day, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day > out[j].Day })
	return out, nil
}

// GlobalAverage returns the mean total across all users' records, or 0 when
// empty.
func (db *DB) GlobalAverage(ctx context.Context) (float64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if len(db.records) == 0 {
		return 0, nil
	}
	var sum float64
	for _, r := range db.records {
		sum += r.Total
	}
	return sum / float64(len(db.records)), nil
}

// --- SessionRepository ---

// SessionRepo implements session operations on DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create stores a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token, or (nil, nil) if absent.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, ok := r.db.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// Delete removes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired removes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	for token, s := range r.db.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.db.sessions, token)
		}
	}
	return nil
}
