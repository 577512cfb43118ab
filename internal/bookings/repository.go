package bookings

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hostflow/hostflow/internal/finance"
)

// Repository abstracts booking persistence. Mutations are scoped through
// the owning property's host so tenants stay isolated.
type Repository interface {
	ListForProperty(ctx context.Context, propertyID, hostID int64) ([]Booking, error)
	Create(ctx context.Context, booking Booking, hostID int64) (Booking, error)
	Update(ctx context.Context, booking Booking, hostID int64) (int64, error)
	Delete(ctx context.Context, id, hostID int64) (int64, error)
	BookingSnapshots(ctx context.Context, propertyID int64) ([]finance.Booking, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListForProperty(ctx context.Context, propertyID, hostID int64) ([]Booking, error) {
	query := `SELECT b.id, b.property_id, b.guest_name, b.payout_amount, b.check_in, b.check_out, b.created_at
		FROM bookings b
		JOIN properties p ON p.id = b.property_id
		WHERE b.property_id = $1 AND p.host_id = $2
		ORDER BY b.check_in DESC`
	rows, err := r.db.Query(ctx, query, propertyID, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.PropertyID, &b.GuestName, &b.PayoutAmount, &b.CheckIn, &b.CheckOut, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *repository) Create(ctx context.Context, booking Booking, hostID int64) (Booking, error) {
	query := `INSERT INTO bookings (property_id, guest_name, payout_amount, check_in, check_out, created_at)
		SELECT $1, $2, $3, $4, $5, $6
		WHERE EXISTS (SELECT 1 FROM properties WHERE id = $1 AND host_id = $7)
		RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query,
		booking.PropertyID, booking.GuestName, booking.PayoutAmount,
		booking.CheckIn, booking.CheckOut, now, hostID,
	).Scan(&booking.ID)
	if err != nil {
		return Booking{}, err
	}
	booking.CreatedAt = now
	return booking, nil
}

func (r *repository) Update(ctx context.Context, booking Booking, hostID int64) (int64, error) {
	query := `UPDATE bookings b SET guest_name = $1, payout_amount = $2, check_in = $3, check_out = $4
		FROM properties p
		WHERE b.id = $5 AND p.id = b.property_id AND p.host_id = $6`
	tag, err := r.db.Exec(ctx, query,
		booking.GuestName, booking.PayoutAmount, booking.CheckIn, booking.CheckOut,
		booking.ID, hostID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repository) Delete(ctx context.Context, id, hostID int64) (int64, error) {
	query := `DELETE FROM bookings b
		USING properties p
		WHERE b.id = $1 AND p.id = b.property_id AND p.host_id = $2`
	tag, err := r.db.Exec(ctx, query, id, hostID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// BookingSnapshots feeds the finance engine. Nullable numeric columns are
// coerced to zero here so the aggregation core can assume clean values.
func (r *repository) BookingSnapshots(ctx context.Context, propertyID int64) ([]finance.Booking, error) {
	query := `SELECT guest_name, COALESCE(payout_amount, 0), check_in, check_out
		FROM bookings WHERE property_id = $1`
	rows, err := r.db.Query(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []finance.Booking
	for rows.Next() {
		var s finance.Booking
		if err := rows.Scan(&s.GuestName, &s.PayoutAmount, &s.CheckIn, &s.CheckOut); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
