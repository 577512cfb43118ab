package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Repository abstracts host account persistence.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (Host, error)
	Create(ctx context.Context, host Host) (Host, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// ErrEmailTaken reports a registration against an existing email.
var ErrEmailTaken = errors.New("auth: email already registered")

func (r *repository) FindByEmail(ctx context.Context, email string) (Host, error) {
	query := `SELECT id, email, name, password_hash, created_at FROM hosts WHERE email = $1`
	var h Host
	err := r.db.QueryRow(ctx, query, email).Scan(&h.ID, &h.Email, &h.Name, &h.PasswordHash, &h.CreatedAt)
	if err != nil {
		return Host{}, err
	}
	return h, nil
}

func (r *repository) Create(ctx context.Context, host Host) (Host, error) {
	query := `INSERT INTO hosts (email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query, host.Email, host.Name, host.PasswordHash, now).Scan(&host.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Host{}, ErrEmailTaken
		}
		return Host{}, err
	}
	host.CreatedAt = now
	return host, nil
}
