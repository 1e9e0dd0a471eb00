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
	"golang.org/x/sync/singleflight"
)

// FeedbackService handles owner-scoped feedback CRUD. Every mutation
// resolves the resource first, then applies the ownership check: a
// missing id is ErrNotFound before it can ever be ErrUnauthorized.
type FeedbackService struct {
	repo  repo.FeedbackRepo
	cache *cache.FeedbackCache
	sf    singleflight.Group
}

// NewFeedbackService creates a FeedbackService. If c is nil, caching is disabled.
func NewFeedbackService(r repo.FeedbackRepo, c *cache.FeedbackCache) *FeedbackService {
	return &FeedbackService{repo: r, cache: c}
}

// Create adds feedback owned by owner. The caller must be authenticated
// as owner. No re-check happens below this point; the repository trusts
// the service to have authorized.
func (s *FeedbackService) Create(ctx context.Context, id auth.Identity, owner, title, content string) (dom.Feedback, error) {
	if err := auth.Authorize(id, owner); err != nil {
		return dom.Feedback{}, err
	}
	f, err := s.repo.Create(ctx, dom.Feedback{
		Title:    strings.TrimSpace(title),
		Content:  content,
		Username: owner,
	})
	if err != nil {
		// Owner row gone between login and insert: account was deleted.
		if utils.IsPGForeignKeyViolation(err) {
			return dom.Feedback{}, auth.ErrUnauthorized
		}
		return dom.Feedback{}, err
	}
	s.invalidate(ctx, owner)
	return f, nil
}

// Get returns one feedback item, visible only to its owner.
func (s *FeedbackService) Get(ctx context.Context, id auth.Identity, feedbackID int64) (dom.Feedback, error) {
	f, err := s.resolve(ctx, feedbackID)
	if err != nil {
		return dom.Feedback{}, err
	}
	if err := auth.Authorize(id, f.Username); err != nil {
		return dom.Feedback{}, err
	}
	return f, nil
}

// ListByUser returns all feedback owned by username, newest first.
func (s *FeedbackService) ListByUser(ctx context.Context, id auth.Identity, username string) ([]dom.Feedback, error) {
	if err := auth.Authorize(id, username); err != nil {
		return nil, err
	}
	if s.cache != nil {
		v, err, _ := s.sf.Do("list:"+username, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, username); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.ListByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, username, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Feedback), nil
	}
	return s.repo.ListByUsername(ctx, username)
}

// Update replaces title and/or content of existing feedback. Nil fields
// keep their current value. Only the owner may update; ownership itself
// has no update path.
func (s *FeedbackService) Update(ctx context.Context, id auth.Identity, feedbackID int64, title, content *string) (dom.Feedback, error) {
	existing, err := s.resolve(ctx, feedbackID)
	if err != nil {
		return dom.Feedback{}, err
	}
	if err := auth.Authorize(id, existing.Username); err != nil {
		return dom.Feedback{}, err
	}
	newTitle := existing.Title
	if title != nil {
		newTitle = strings.TrimSpace(*title)
	}
	newContent := existing.Content
	if content != nil {
		newContent = *content
	}
	f, err := s.repo.Update(ctx, feedbackID, newTitle, newContent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Feedback{}, ErrNotFound
		}
		return dom.Feedback{}, err
	}
	s.invalidate(ctx, f.Username)
	return f, nil
}

// Delete removes existing feedback. Only the owner may delete.
func (s *FeedbackService) Delete(ctx context.Context, id auth.Identity, feedbackID int64) error {
	existing, err := s.resolve(ctx, feedbackID)
	if err != nil {
		return err
	}
	if err := auth.Authorize(id, existing.Username); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, feedbackID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidate(ctx, existing.Username)
	return nil
}

func (s *FeedbackService) resolve(ctx context.Context, feedbackID int64) (dom.Feedback, error) {
	f, err := s.repo.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Feedback{}, ErrNotFound
		}
		return dom.Feedback{}, err
	}
	return f, nil
}

func (s *FeedbackService) invalidate(ctx context.Context, username string) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, username)
	}
}
