package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/clubcourt/courtbook/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CourtRepository interface {
	List(ctx context.Context) ([]domain.Court, error)
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
	GetWeeklySchedule(ctx context.Context) (domain.WeeklySchedule, error)
	GetCourtSchedule(ctx context.Context, courtID int64) (domain.WeeklySchedule, error)
}

type PGCourtRepository struct {
	db *pgxpool.Pool
}

func NewCourtRepository(db *pgxpool.Pool) CourtRepository {
	return &PGCourtRepository{db: db}
}

func (r *PGCourtRepository) List(ctx context.Context) ([]domain.Court, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, surface, indoor, active, created_at, updated_at FROM courts WHERE active ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courts := make([]domain.Court, 0)
	for rows.Next() {
		var c domain.Court
		if err := rows.Scan(&c.ID, &c.Name, &c.Surface, &c.Indoor, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courts = append(courts, c)
	}
	return courts, rows.Err()
}

func (r *PGCourtRepository) GetByID(ctx context.Context, id int64) (*domain.Court, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, surface, indoor, active, created_at, updated_at FROM courts WHERE id=$1`, id)
	var c domain.Court
	if err := row.Scan(&c.ID, &c.Name, &c.Surface, &c.Indoor, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetWeeklySchedule loads the organization-level operating hours. The loaded
// schedule is validated before use; a malformed one halts startup rather
// than failing individual bookings.
func (r *PGCourtRepository) GetWeeklySchedule(ctx context.Context) (domain.WeeklySchedule, error) {
	rows, err := r.db.Query(ctx, `SELECT weekday, open_minute, close_minute, closed FROM operating_hours`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedule, err := scanSchedule(rows)
	if err != nil {
		return nil, err
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return schedule, nil
}

// GetCourtSchedule loads per-court overrides. A court with no override rows
// yields a nil schedule and falls back to the organization hours. Override
// windows get the same validation as the organization schedule; a malformed
// row is a configuration error, never a silently empty day.
func (r *PGCourtRepository) GetCourtSchedule(ctx context.Context, courtID int64) (domain.WeeklySchedule, error) {
	rows, err := r.db.Query(ctx, `SELECT weekday, open_minute, close_minute, closed FROM court_operating_hours WHERE court_id=$1`, courtID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedule, err := scanSchedule(rows)
	if err != nil {
		return nil, err
	}
	if len(schedule) == 0 {
		return nil, nil
	}
	if err := schedule.ValidateWindows(); err != nil {
		return nil, fmt.Errorf("court %d override: %w", courtID, err)
	}
	return schedule, nil
}

type scheduleRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanSchedule(rows scheduleRows) (domain.WeeklySchedule, error) {
	schedule := domain.WeeklySchedule{}
	for rows.Next() {
		var weekday int
		var h domain.DayHours
		if err := rows.Scan(&weekday, &h.Open, &h.Close, &h.Closed); err != nil {
			return nil, err
		}
		schedule[time.Weekday(weekday)] = h
	}
	return schedule, rows.Err()
}

var _ CourtRepository = (*PGCourtRepository)(nil)
