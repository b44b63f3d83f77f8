package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/clubcourt/courtbook/internal/domain"
	"github.com/clubcourt/courtbook/internal/engine"
	"github.com/clubcourt/courtbook/internal/kafka"
	"github.com/clubcourt/courtbook/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*CreateBookingResult, error)
	CancelBooking(ctx context.Context, token, userID string) (*CancelBookingResult, error)
	ApplyPaymentEvent(ctx context.Context, event kafka.PaymentEvent) (*domain.Booking, error)
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
}

// Cache is the slice of the redis cache the booking flow needs: short slot
// holds around the admission decision and the database reserve.
type Cache interface {
	AcquireSlotHold(ctx context.Context, courtID int64, date time.Time, startMinute int, ttl time.Duration) (bool, error)
	ReleaseSlotHold(ctx context.Context, courtID int64, date time.Time, startMinute int) error
}

// Producer publishes with a bounded retry; events ride state changes that
// are already committed, so a transient broker error is worth a few
// attempts before being logged away.
type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

// publishRetries bounds publish attempts per event.
const publishRetries = 3

// TierResolver maps a tier name to its privilege record. Satisfied by
// config.TierTable.
type TierResolver interface {
	Resolve(tier domain.Tier) (domain.TierPrivileges, bool)
}

// RejectionError carries an admission or cancellation denial as a value the
// transport layer can translate into a precise user-facing response.
type RejectionError struct {
	Reason  engine.Reason
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

func rejected(d engine.Decision) error {
	return &RejectionError{Reason: d.Reason, Message: d.Message}
}

type BookingService struct {
	bookings repository.BookingRepository
	courts   repository.CourtRepository
	cache    Cache
	producer Producer
	tiers    TierResolver

	bookingTopic       string
	notificationsTopic string

	granularity    int
	policy         engine.PolicyConfig
	lateFeeCents   int64
	reserveRetries int
	holdTTL        time.Duration
	paymentTTL     time.Duration
	loc            *time.Location
}

type CreateBookingInput struct {
	CourtID         int64       `json:"court_id"`
	UserID          string      `json:"user_id"`
	Tier            domain.Tier `json:"tier"`
	Date            string      `json:"date"`  // "2006-01-02"
	Start           string      `json:"start"` // "HH:MM"
	DurationMinutes int         `json:"duration_minutes"`
	Guests          int         `json:"guests"`
}

// CreateBookingResult is an admitted booking plus the quote it was admitted
// at and any non-blocking warnings from the policy engine.
type CreateBookingResult struct {
	Booking  *domain.Booking
	Quote    engine.Quote
	Warnings []string
}

type CancelBookingResult struct {
	Booking        *domain.Booking
	RefundEligible bool
	FeeCents       int64
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithLocation(loc *time.Location) BookingServiceOption {
	return func(s *BookingService) {
		s.loc = loc
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	courts repository.CourtRepository,
	cache Cache,
	producer Producer,
	tiers TierResolver,
	bookingTopic string,
	granularity int,
	policy engine.PolicyConfig,
	lateFeeCents int64,
	reserveRetries int,
	holdTTL, paymentTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:       bookings,
		courts:         courts,
		cache:          cache,
		producer:       producer,
		tiers:          tiers,
		bookingTopic:   bookingTopic,
		granularity:    granularity,
		policy:         policy,
		lateFeeCents:   lateFeeCents,
		reserveRetries: reserveRetries,
		holdTTL:        holdTTL,
		paymentTTL:     paymentTTL,
		loc:            time.UTC,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking runs the full admission pipeline for one request: calendar
// window, interval shape, conflicts, tier policy, price, then the atomic
// reserve. Contention during the reserve re-runs admission from the conflict
// check a bounded number of times before giving up.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*CreateBookingResult, error) {
	req, err := s.buildRequest(input)
	if err != nil {
		return nil, err
	}

	priv, ok := s.tiers.Resolve(req.Tier)
	if !ok {
		return nil, &RejectionError{Reason: engine.ReasonNoActiveMembership, Message: fmt.Sprintf("no active membership for tier %q", req.Tier)}
	}

	if d := engine.ValidateInterval(req.StartMinute, req.DurationMinutes, s.granularity); !d.Valid {
		return nil, rejected(d)
	}

	window, err := s.resolveWindow(ctx, req.CourtID, req.Date)
	if err != nil {
		return nil, err
	}
	if window.Closed {
		return nil, &RejectionError{Reason: engine.ReasonOutsideOperatingHours, Message: fmt.Sprintf("court is closed on %s", req.Date.Weekday())}
	}
	if req.StartMinute < window.Open || req.EndMinute() > window.Close {
		return nil, &RejectionError{
			Reason:  engine.ReasonOutsideOperatingHours,
			Message: fmt.Sprintf("requested time is outside operating hours %s-%s", domain.FormatClock(window.Open), domain.FormatClock(window.Close)),
		}
	}

	existing, err := s.bookings.ListActiveForDay(ctx, req.CourtID, req.Date)
	if err != nil {
		return nil, err
	}
	if engine.HasConflict(req.StartMinute, req.EndMinute(), existing) {
		return nil, &RejectionError{Reason: engine.ReasonSlotConflict, Message: "requested slot is already booked"}
	}

	bookingsToday, err := s.bookings.CountUserActive(ctx, req.UserID, req.Date)
	if err != nil {
		return nil, err
	}
	decision := engine.Evaluate(req, priv, bookingsToday, time.Now(), s.policy)
	if !decision.Valid {
		return nil, rejected(decision)
	}

	quote := engine.Price(priv.PricePerHourCents, req.DurationMinutes, priv.DiscountPercentage)

	held, err := s.cache.AcquireSlotHold(ctx, req.CourtID, req.Date, req.StartMinute, s.holdTTL)
	if err != nil {
		return nil, err
	}
	if !held {
		return nil, &RejectionError{Reason: engine.ReasonSlotConflict, Message: "slot is being booked by someone else"}
	}

	booking := &domain.Booking{
		CourtID:       req.CourtID,
		UserID:        req.UserID,
		Token:         uuid.NewString(),
		Date:          req.Date,
		StartMinute:   req.StartMinute,
		EndMinute:     req.EndMinute(),
		Guests:        req.Guests,
		Status:        domain.BookingStatusPending,
		Tier:          req.Tier,
		PriceCents:    quote.FinalCents,
		DiscountCents: quote.DiscountCents,
		Currency:      "USD",
		ExpiresAt:     time.Now().Add(s.paymentTTL),
	}

	if err := s.reserveWithRetry(ctx, req, booking); err != nil {
		_ = s.cache.ReleaseSlotHold(ctx, req.CourtID, req.Date, req.StartMinute)
		return nil, err
	}

	if err := s.publish(ctx, "booking_created", booking, 0, false); err != nil {
		log.Printf("WARNING: failed to publish booking_created for %s: %v", booking.Token, err)
	}
	return &CreateBookingResult{Booking: booking, Quote: quote, Warnings: decision.Warnings}, nil
}

// reserveWithRetry drives the single-writer reserve. ErrSlotTaken means a
// conflicting interval was committed concurrently: admission restarts from a
// fresh conflict check rather than blindly retrying the write.
func (s *BookingService) reserveWithRetry(ctx context.Context, req engine.Request, booking *domain.Booking) error {
	for attempt := 0; attempt < s.reserveRetries; attempt++ {
		err := s.bookings.ReserveSlot(ctx, booking)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrSlotTaken) {
			return err
		}

		existing, err := s.bookings.ListActiveForDay(ctx, req.CourtID, req.Date)
		if err != nil {
			return err
		}
		if engine.HasConflict(req.StartMinute, req.EndMinute(), existing) {
			return &RejectionError{Reason: engine.ReasonSlotConflict, Message: "requested slot is already booked"}
		}
		// The conflicting hold is gone (expired or released); try the
		// reserve again.
	}
	return &RejectionError{Reason: engine.ReasonSlotConflict, Message: "could not reserve slot after repeated contention"}
}

// CancelBooking decides the cancellation economics and performs the status
// transition. Cancelling an already-cancelled or expired booking is a no-op
// success so duplicate client requests are harmless.
func (s *BookingService) CancelBooking(ctx context.Context, token, userID string) (*CancelBookingResult, error) {
	current, err := s.bookings.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if current.UserID != userID {
		return nil, errors.New("booking belongs to another member")
	}
	if current.Status == domain.BookingStatusCancelled || current.Status == domain.BookingStatusExpired {
		return &CancelBookingResult{Booking: current}, nil
	}

	priv, ok := s.tiers.Resolve(current.Tier)
	if !ok {
		return nil, &RejectionError{Reason: engine.ReasonNoActiveMembership, Message: fmt.Sprintf("no active membership for tier %q", current.Tier)}
	}

	decision := engine.EvaluateCancellation(current.StartAt(s.loc), time.Now(), priv, s.lateFeeCents)

	updated, err := s.bookings.UpdateStatus(ctx, token, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	_ = s.cache.ReleaseSlotHold(ctx, updated.CourtID, updated.Date, updated.StartMinute)

	if err := s.publish(ctx, "booking_cancelled", updated, decision.FeeCents, decision.RefundEligible); err != nil {
		log.Printf("WARNING: failed to publish booking_cancelled for %s: %v", updated.Token, err)
	}
	return &CancelBookingResult{Booking: updated, RefundEligible: decision.RefundEligible, FeeCents: decision.FeeCents}, nil
}

// ApplyPaymentEvent applies an asynchronous payment status to a pending
// booking. Events arrive at-least-once; a booking already in its final
// status is left untouched.
func (s *BookingService) ApplyPaymentEvent(ctx context.Context, event kafka.PaymentEvent) (*domain.Booking, error) {
	current, err := s.bookings.GetByToken(ctx, event.BookingToken)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.BookingStatusPending {
		return current, nil
	}

	switch event.Type {
	case "payment_succeeded":
		updated, err := s.bookings.UpdateStatus(ctx, event.BookingToken, domain.BookingStatusConfirmed)
		if err != nil {
			return nil, err
		}
		_ = s.cache.ReleaseSlotHold(ctx, updated.CourtID, updated.Date, updated.StartMinute)
		if err := s.publish(ctx, "booking_confirmed", updated, 0, false); err != nil {
			log.Printf("WARNING: failed to publish booking_confirmed for %s: %v", updated.Token, err)
		}
		return updated, nil
	case "payment_failed":
		updated, err := s.bookings.UpdateStatus(ctx, event.BookingToken, domain.BookingStatusCancelled)
		if err != nil {
			return nil, err
		}
		_ = s.cache.ReleaseSlotHold(ctx, updated.CourtID, updated.Date, updated.StartMinute)
		if err := s.publish(ctx, "booking_cancelled", updated, 0, false); err != nil {
			log.Printf("WARNING: failed to publish booking_cancelled for %s: %v", updated.Token, err)
		}
		return updated, nil
	default:
		log.Printf("ignoring unknown payment event type %q for %s", event.Type, event.BookingToken)
		return current, nil
	}
}

func (s *BookingService) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	expired, err := s.bookings.ExpirePendingBefore(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	for i := range expired {
		b := &expired[i]
		_ = s.cache.ReleaseSlotHold(ctx, b.CourtID, b.Date, b.StartMinute)
		if err := s.publish(ctx, "booking_expired", b, 0, false); err != nil {
			log.Printf("WARNING: failed to publish booking_expired for %s: %v", b.Token, err)
		}
	}
	return expired, nil
}

func (s *BookingService) buildRequest(input CreateBookingInput) (engine.Request, error) {
	if input.UserID == "" {
		return engine.Request{}, errors.New("user id is required")
	}
	date, err := time.ParseInLocation("2006-01-02", input.Date, s.loc)
	if err != nil {
		return engine.Request{}, fmt.Errorf("invalid date %q: %w", input.Date, err)
	}
	start, err := domain.ParseClock(input.Start)
	if err != nil {
		return engine.Request{}, fmt.Errorf("invalid start time %q: %w", input.Start, err)
	}
	return engine.Request{
		CourtID:         input.CourtID,
		UserID:          input.UserID,
		Tier:            input.Tier,
		Date:            date,
		StartMinute:     start,
		DurationMinutes: input.DurationMinutes,
		Guests:          input.Guests,
	}, nil
}

func (s *BookingService) resolveWindow(ctx context.Context, courtID int64, date time.Time) (domain.DayHours, error) {
	org, err := s.courts.GetWeeklySchedule(ctx)
	if err != nil {
		return domain.DayHours{}, err
	}
	override, err := s.courts.GetCourtSchedule(ctx, courtID)
	if err != nil {
		return domain.DayHours{}, err
	}
	return engine.ResolveDay(org, override, date), nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, feeCents int64, refund bool) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:          eventType,
		Token:         booking.Token,
		CourtID:       booking.CourtID,
		UserID:        booking.UserID,
		Date:          booking.Date.Format("2006-01-02"),
		StartMinute:   booking.StartMinute,
		EndMinute:     booking.EndMinute,
		Status:        string(booking.Status),
		PriceCents:    booking.PriceCents,
		DiscountCents: booking.DiscountCents,
		FeeCents:      feeCents,
		Refund:        refund,
		ExpiresAt:     booking.ExpiresAt,
	}
	if err := s.producer.PublishWithRetry(ctx, s.bookingTopic, booking.Token, event, publishRetries); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.PublishWithRetry(ctx, s.notificationsTopic, booking.Token, event, publishRetries)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
