package repo

import (
	"context"

	dom "github.com/karlbohn/feedback-app/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FeedbackRepo provides feedback persistence.
type FeedbackRepo interface {
	Create(ctx context.Context, f dom.Feedback) (dom.Feedback, error)
	GetByID(ctx context.Context, id int64) (dom.Feedback, error)
	ListByUsername(ctx context.Context, username string) ([]dom.Feedback, error)
	Update(ctx context.Context, id int64, title, content string) (dom.Feedback, error)
	Delete(ctx context.Context, id int64) error
}

// PGFeedbackRepo implements FeedbackRepo with Postgres.
type PGFeedbackRepo struct {
	db *pgxpool.Pool
}

// NewPGFeedbackRepo returns a new PGFeedbackRepo.
func NewPGFeedbackRepo(db *pgxpool.Pool) *PGFeedbackRepo {
	return &PGFeedbackRepo{db: db}
}

// Create inserts a new feedback row and returns it with its assigned ID.
func (r *PGFeedbackRepo) Create(ctx context.Context, f dom.Feedback) (dom.Feedback, error) {
	query := `
		INSERT INTO feedback (title, content, username)
		VALUES ($1, $2, $3)
		RETURNING id, title, content, username, created_at, updated_at`
	var out dom.Feedback
	err := r.db.QueryRow(ctx, query, f.Title, f.Content, f.Username).Scan(
		&out.ID, &out.Title, &out.Content, &out.Username, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

// GetByID returns the feedback by ID.
func (r *PGFeedbackRepo) GetByID(ctx context.Context, id int64) (dom.Feedback, error) {
	query := `
		SELECT id, title, content, username, created_at, updated_at
		FROM feedback WHERE id = $1`
	var f dom.Feedback
	err := r.db.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.Title, &f.Content, &f.Username, &f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}

// ListByUsername returns all feedback owned by username, newest first.
func (r *PGFeedbackRepo) ListByUsername(ctx context.Context, username string) ([]dom.Feedback, error) {
	query := `
		SELECT id, title, content, username, created_at, updated_at
		FROM feedback WHERE username = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Feedback
	for rows.Next() {
		var f dom.Feedback
		if err := rows.Scan(&f.ID, &f.Title, &f.Content, &f.Username,
			&f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

// Update replaces title and content. Ownership is not touched here;
// the username column never changes after creation.
func (r *PGFeedbackRepo) Update(ctx context.Context, id int64, title, content string) (dom.Feedback, error) {
	query := `
		UPDATE feedback SET title = $2, content = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, content, username, created_at, updated_at`
	var f dom.Feedback
	err := r.db.QueryRow(ctx, query, id, title, content).Scan(
		&f.ID, &f.Title, &f.Content, &f.Username, &f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}

// Delete removes the feedback row. Returns pgx.ErrNoRows if it does not exist.
func (r *PGFeedbackRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
