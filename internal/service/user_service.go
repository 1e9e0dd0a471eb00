package service

import (
	"context"
	"errors"
	"strings"

	"github.com/karlbohn/feedback-app/internal/auth"
	"github.com/karlbohn/feedback-app/internal/cache"
	dom "github.com/karlbohn/feedback-app/internal/domain"
	"github.com/karlbohn/feedback-app/internal/repo"
	"github.com/karlbohn/feedback-app/internal/utils"

	"github.com/jackc/pgx/v5"
)

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrUsernameTaken = errors.New("username already taken")
var ErrNotFound = errors.New("not found")

// PasswordHasher is the credential transform used for registration and
// login. Defined here on the consumer side; internal/password provides it.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
	VerifyDummy(plaintext string) bool
}

// UserService handles the account lifecycle: register, authenticate,
// fetch, delete with cascade.
type UserService struct {
	repo   repo.UserRepo
	hasher PasswordHasher
	cache  *cache.FeedbackCache
}

// NewUserService returns a new UserService. If c is nil, caching is disabled.
func NewUserService(r repo.UserRepo, h PasswordHasher, c *cache.FeedbackCache) *UserService {
	return &UserService{repo: r, hasher: h, cache: c}
}

// Register creates a new account with a hashed password. The plaintext
// never reaches the repository. A taken username yields ErrUsernameTaken;
// the check rides on the primary key constraint, so two concurrent
// registrations of the same name cannot both win.
func (s *UserService) Register(ctx context.Context, username, password, email, firstName, lastName string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, dom.User{
		Username:     username,
		PasswordHash: hash,
		Email:        strings.TrimSpace(email),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
	})
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// Authenticate checks username and password; returns the user if valid.
// An unknown username and a wrong password both come back as
// ErrInvalidCredentials, and the unknown-username path still pays one
// hash comparison so the two are not distinguishable by timing either.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.hasher.VerifyDummy(password)
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns the account named username, visible only to its owner.
func (s *UserService) Get(ctx context.Context, id auth.Identity, username string) (dom.User, error) {
	if err := auth.Authorize(id, username); err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// Delete removes the account and all feedback it owns. The cascade is a
// single DELETE against users; the foreign key takes the feedback rows
// down in the same transaction.
func (s *UserService) Delete(ctx context.Context, id auth.Identity, username string) error {
	if err := auth.Authorize(id, username); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, username)
	}
	return nil
}
