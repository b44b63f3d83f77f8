package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clubcourt/courtbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSlotTaken is returned by ReserveSlot when a conflicting interval was
// committed between the caller's conflict check and the write. Callers retry
// admission from the conflict check, not the write.
var ErrSlotTaken = errors.New("slot is already taken")

type BookingRepository interface {
	ListActiveForDay(ctx context.Context, courtID int64, date time.Time) ([]domain.Booking, error)
	CountUserActive(ctx context.Context, userID string, date time.Time) (int, error)
	GetByToken(ctx context.Context, token string) (*domain.Booking, error)
	ReserveSlot(ctx context.Context, booking *domain.Booking) error
	UpdateStatus(ctx context.Context, token string, status domain.BookingStatus) (*domain.Booking, error)
	ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, court_id, user_id, token, date, start_minute, end_minute, guests, status, tier, price_cents, discount_cents, currency, expires_at, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.CourtID, &b.UserID, &b.Token, &b.Date, &b.StartMinute, &b.EndMinute, &b.Guests, &b.Status, &b.Tier, &b.PriceCents, &b.DiscountCents, &b.Currency, &b.ExpiresAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListActiveForDay returns the bookings that occupy slots on a court for one
// date: confirmed ones plus pending holds that have not expired yet.
func (r *PGBookingRepository) ListActiveForDay(ctx context.Context, courtID int64, date time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE court_id=$1 AND date=$2
		AND (status=$3 OR (status=$4 AND expires_at > now()))
		ORDER BY start_minute`,
		courtID, date, domain.BookingStatusConfirmed, domain.BookingStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) CountUserActive(ctx context.Context, userID string, date time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings
		WHERE user_id=$1 AND date=$2
		AND (status=$3 OR (status=$4 AND expires_at > now()))`,
		userID, date, domain.BookingStatusConfirmed, domain.BookingStatusPending).Scan(&count)
	return count, err
}

func (r *PGBookingRepository) GetByToken(ctx context.Context, token string) (*domain.Booking, error) {
	return scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE token=$1`, token))
}

// reserveLockKey names the advisory lock serializing reservations for one
// court on one date. The key is hashed server-side into the single-bigint
// lock form, so court ids of any size map without truncation.
func reserveLockKey(courtID int64, date time.Time) string {
	return fmt.Sprintf("bookings:%d:%s", courtID, date.Format("2006-01-02"))
}

// ReserveSlot combines the conflict re-check and the insert into one
// serialized operation per (court, date). The transaction takes an advisory
// lock keyed on the court and day, so two concurrent reservations for the
// same day cannot both pass the overlap check.
func (r *PGBookingRepository) ReserveSlot(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, reserveLockKey(booking.CourtID, booking.Date)); err != nil {
		return err
	}

	var conflicts int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM bookings
		WHERE court_id=$1 AND date=$2
		AND (status=$3 OR (status=$4 AND expires_at > now()))
		AND start_minute < $5 AND $6 < end_minute`,
		booking.CourtID, booking.Date,
		domain.BookingStatusConfirmed, domain.BookingStatusPending,
		booking.EndMinute, booking.StartMinute).Scan(&conflicts); err != nil {
		return err
	}
	if conflicts > 0 {
		return ErrSlotTaken
	}

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (court_id, user_id, token, date, start_minute, end_minute, guests, status, tier, price_cents, discount_cents, currency, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		booking.CourtID, booking.UserID, booking.Token, booking.Date, booking.StartMinute, booking.EndMinute,
		booking.Guests, booking.Status, booking.Tier, booking.PriceCents, booking.DiscountCents, booking.Currency, booking.ExpiresAt).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, token string, status domain.BookingStatus) (*domain.Booking, error) {
	return scanBooking(r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE token=$2 RETURNING `+bookingColumns, status, token))
}

func (r *PGBookingRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE status=$2 AND expires_at <= $3
		RETURNING `+bookingColumns,
		domain.BookingStatusExpired, domain.BookingStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *b)
	}
	return expired, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
