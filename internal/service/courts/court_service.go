package courts

import (
	"context"
	"log"
	"time"

	"github.com/clubcourt/courtbook/internal/domain"
	"github.com/clubcourt/courtbook/internal/engine"
	"github.com/clubcourt/courtbook/internal/repository"
)

type CourtUseCase interface {
	List(ctx context.Context) ([]domain.Court, error)
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
	Availability(ctx context.Context, courtID int64, date time.Time) (*DayAvailability, error)
}

type Cache interface {
	GetCourts(ctx context.Context) ([]domain.Court, error)
	SetCourts(ctx context.Context, courts []domain.Court) error
	GetSchedule(ctx context.Context, courtID int64) (domain.WeeklySchedule, error)
	SetSchedule(ctx context.Context, courtID int64, schedule domain.WeeklySchedule) error
}

// Slot is one bookable start time on a court's day, with whether it is
// still free at its base granularity.
type Slot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

type DayAvailability struct {
	CourtID int64  `json:"court_id"`
	Date    string `json:"date"`
	Closed  bool   `json:"closed"`
	Open    string `json:"open,omitempty"`
	Close   string `json:"close,omitempty"`
	Slots   []Slot `json:"slots"`
}

type CourtService struct {
	courts      repository.CourtRepository
	bookings    repository.BookingRepository
	cache       Cache
	granularity int
}

func NewCourtService(courts repository.CourtRepository, bookings repository.BookingRepository, cache Cache, granularity int) *CourtService {
	return &CourtService{
		courts:      courts,
		bookings:    bookings,
		cache:       cache,
		granularity: granularity,
	}
}

func (s *CourtService) List(ctx context.Context) ([]domain.Court, error) {
	if s.cache != nil {
		cached, err := s.cache.GetCourts(ctx)
		if err != nil {
			log.Printf("courts cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	courts, err := s.courts.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCourts(ctx, courts); err != nil {
			log.Printf("courts cache write failed: %v", err)
		}
	}
	return courts, nil
}

func (s *CourtService) GetByID(ctx context.Context, id int64) (*domain.Court, error) {
	return s.courts.GetByID(ctx, id)
}

// Availability lists the court's candidate slots for one date, marking each
// free or occupied against the bookings currently holding the day.
func (s *CourtService) Availability(ctx context.Context, courtID int64, date time.Time) (*DayAvailability, error) {
	schedule, err := s.effectiveSchedule(ctx, courtID)
	if err != nil {
		return nil, err
	}

	day := &DayAvailability{CourtID: courtID, Date: date.Format("2006-01-02"), Slots: []Slot{}}

	hours := engine.ResolveDay(schedule, nil, date)
	if hours.Closed {
		day.Closed = true
		return day, nil
	}
	day.Open = domain.FormatClock(hours.Open)
	day.Close = domain.FormatClock(hours.Close)

	existing, err := s.bookings.ListActiveForDay(ctx, courtID, date)
	if err != nil {
		return nil, err
	}

	for _, start := range engine.Slots(hours, s.granularity) {
		end := start + s.granularity
		day.Slots = append(day.Slots, Slot{
			Start:     domain.FormatClock(start),
			End:       domain.FormatClock(end),
			Available: !engine.HasConflict(start, end, existing),
		})
	}
	return day, nil
}

// effectiveSchedule is the org schedule with the court's per-weekday
// overrides applied, cached per court.
func (s *CourtService) effectiveSchedule(ctx context.Context, courtID int64) (domain.WeeklySchedule, error) {
	if s.cache != nil {
		cached, err := s.cache.GetSchedule(ctx, courtID)
		if err != nil {
			log.Printf("schedule cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	org, err := s.courts.GetWeeklySchedule(ctx)
	if err != nil {
		return nil, err
	}
	override, err := s.courts.GetCourtSchedule(ctx, courtID)
	if err != nil {
		return nil, err
	}

	merged := make(domain.WeeklySchedule, len(org))
	for wd, h := range org {
		merged[wd] = h
	}
	for wd, h := range override {
		merged[wd] = h
	}

	if s.cache != nil {
		if err := s.cache.SetSchedule(ctx, courtID, merged); err != nil {
			log.Printf("schedule cache write failed: %v", err)
		}
	}
	return merged, nil
}

var _ CourtUseCase = (*CourtService)(nil)
