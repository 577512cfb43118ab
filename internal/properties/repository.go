package properties

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository abstracts property persistence. Every query is scoped by the
// owning host so one tenant can never see another tenant's rows.
type Repository interface {
	List(ctx context.Context, hostID int64) ([]Property, error)
	Get(ctx context.Context, id, hostID int64) (Property, error)
	Create(ctx context.Context, property Property) (Property, error)
	Update(ctx context.Context, property Property) (int64, error)
	Delete(ctx context.Context, id, hostID int64) (int64, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, hostID int64) ([]Property, error) {
	query := `SELECT id, host_id, name, address, thumbnail_url, created_at, updated_at
		FROM properties WHERE host_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []Property
	for rows.Next() {
		var p Property
		if err := rows.Scan(&p.ID, &p.HostID, &p.Name, &p.Address, &p.ThumbnailURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

func (r *repository) Get(ctx context.Context, id, hostID int64) (Property, error) {
	query := `SELECT id, host_id, name, address, thumbnail_url, created_at, updated_at
		FROM properties WHERE id = $1 AND host_id = $2`
	var p Property
	err := r.db.QueryRow(ctx, query, id, hostID).Scan(&p.ID, &p.HostID, &p.Name, &p.Address, &p.ThumbnailURL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) Create(ctx context.Context, property Property) (Property, error) {
	query := `INSERT INTO properties (host_id, name, address, thumbnail_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query, property.HostID, property.Name, property.Address, property.ThumbnailURL, now).Scan(&property.ID)
	if err != nil {
		return Property{}, err
	}
	property.CreatedAt = now
	property.UpdatedAt = now
	return property, nil
}

func (r *repository) Update(ctx context.Context, property Property) (int64, error) {
	query := `UPDATE properties SET name = $1, address = $2, thumbnail_url = $3, updated_at = $4
		WHERE id = $5 AND host_id = $6`
	tag, err := r.db.Exec(ctx, query, property.Name, property.Address, property.ThumbnailURL, time.Now(), property.ID, property.HostID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repository) Delete(ctx context.Context, id, hostID int64) (int64, error) {
	// Bookings, items and logs cascade via foreign keys.
	query := `DELETE FROM properties WHERE id = $1 AND host_id = $2`
	tag, err := r.db.Exec(ctx, query, id, hostID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
