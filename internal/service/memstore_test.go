package service

import (
	"context"
	"sort"
	"sync"
	"time"

	dom "github.com/karlbohn/feedback-app/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore is an in-memory stand-in for both repositories. It mimics the
// Postgres behavior the services rely on: pgx.ErrNoRows for misses, a
// 23505 unique violation on duplicate usernames, a 23503 foreign key
// violation for feedback without an owner, and cascade on user delete.
type memStore struct {
	mu       sync.Mutex
	users    map[string]dom.User
	feedback map[int64]dom.Feedback
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]dom.User{},
		feedback: map[int64]dom.Feedback{},
	}
}

func (s *memStore) GetByUsername(_ context.Context, username string) (dom.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (s *memStore) Create(_ context.Context, u dom.User) (dom.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Username]; ok {
		return dom.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"}
	}
	u.CreatedAt = time.Now()
	s.users[u.Username] = u
	return u, nil
}

func (s *memStore) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.users, username)
	for id, f := range s.feedback {
		if f.Username == username {
			delete(s.feedback, id)
		}
	}
	return nil
}

func (s *memStore) CreateFeedback(_ context.Context, f dom.Feedback) (dom.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[f.Username]; !ok {
		return dom.Feedback{}, &pgconn.PgError{Code: "23503", ConstraintName: "feedback_username_fkey"}
	}
	s.nextID++
	f.ID = s.nextID
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	s.feedback[f.ID] = f
	return f, nil
}

func (s *memStore) GetByID(_ context.Context, id int64) (dom.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.feedback[id]
	if !ok {
		return dom.Feedback{}, pgx.ErrNoRows
	}
	return f, nil
}

func (s *memStore) ListByUsername(_ context.Context, username string) ([]dom.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []dom.Feedback
	for _, f := range s.feedback {
		if f.Username == username {
			list = append(list, f)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (s *memStore) Update(_ context.Context, id int64, title, content string) (dom.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.feedback[id]
	if !ok {
		return dom.Feedback{}, pgx.ErrNoRows
	}
	f.Title = title
	f.Content = content
	f.UpdatedAt = time.Now()
	s.feedback[id] = f
	return f, nil
}

func (s *memStore) DeleteFeedback(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.feedback[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.feedback, id)
	return nil
}

// feedbackRepoView adapts memStore to repo.FeedbackRepo (Create and
// Delete collide with the user methods by name).
type feedbackRepoView struct{ *memStore }

func (v feedbackRepoView) Create(ctx context.Context, f dom.Feedback) (dom.Feedback, error) {
	return v.CreateFeedback(ctx, f)
}

func (v feedbackRepoView) Delete(ctx context.Context, id int64) error {
	return v.DeleteFeedback(ctx, id)
}
