package repo

import (
	"context"

	dom "github.com/karlbohn/feedback-app/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides user persistence.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	Create(ctx context.Context, u dom.User) (dom.User, error)
	Delete(ctx context.Context, username string) error
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// GetByUsername returns the user by username.
func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT username, password_hash, email, first_name, last_name, created_at
		 FROM users WHERE username = $1`,
		username,
	).Scan(&u.Username, &u.PasswordHash, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt)
	return u, err
}

// Create inserts a new user and returns it. The username primary key
// makes the uniqueness check and the insert a single atomic statement;
// a duplicate surfaces as a unique violation, never as a lost race.
func (r *PGUserRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	query := `
		INSERT INTO users (username, password_hash, email, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING username, password_hash, email, first_name, last_name, created_at`
	var out dom.User
	err := r.db.QueryRow(ctx, query,
		u.Username, u.PasswordHash, u.Email, u.FirstName, u.LastName,
	).Scan(&out.Username, &out.PasswordHash, &out.Email, &out.FirstName, &out.LastName, &out.CreatedAt)
	return out, err
}

// Delete removes the user. Owned feedback rows go with it in the same
// statement via the ON DELETE CASCADE foreign key. Returns pgx.ErrNoRows
// if no such user exists.
func (r *PGUserRepo) Delete(ctx context.Context, username string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
