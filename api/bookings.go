package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/clubcourt/courtbook/internal/domain"
	"github.com/clubcourt/courtbook/internal/engine"
	"github.com/clubcourt/courtbook/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	CourtID         int64  `json:"court_id"`
	Date            string `json:"date"`
	Start           string `json:"start"`
	DurationMinutes int    `json:"duration_minutes"`
	Guests          int    `json:"guests"`
}

type bookingResponse struct {
	Token         string   `json:"token"`
	Status        string   `json:"status"`
	CourtID       int64    `json:"court_id"`
	Date          string   `json:"date"`
	Start         string   `json:"start"`
	End           string   `json:"end"`
	Guests        int      `json:"guests,omitempty"`
	PriceCents    int64    `json:"price_cents"`
	DiscountCents int64    `json:"discount_cents"`
	Currency      string   `json:"currency"`
	ExpiresAt     string   `json:"expires_at"`
	Warnings      []string `json:"warnings,omitempty"`
}

type cancelResponse struct {
	Token          string `json:"token"`
	Status         string `json:"status"`
	RefundEligible bool   `json:"refund_eligible"`
	FeeCents       int64  `json:"fee_cents"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.DELETE("/:token", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, tier := userFromContext(c)
	result, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		CourtID:         req.CourtID,
		UserID:          userID,
		Tier:            tier,
		Date:            req.Date,
		Start:           req.Start,
		DurationMinutes: req.DurationMinutes,
		Guests:          req.Guests,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	b := result.Booking
	c.JSON(http.StatusCreated, bookingResponse{
		Token:         b.Token,
		Status:        string(b.Status),
		CourtID:       b.CourtID,
		Date:          b.Date.Format("2006-01-02"),
		Start:         req.Start,
		End:           domain.FormatClock(b.EndMinute),
		Guests:        b.Guests,
		PriceCents:    b.PriceCents,
		DiscountCents: b.DiscountCents,
		Currency:      b.Currency,
		ExpiresAt:     b.ExpiresAt.Format(time.RFC3339),
		Warnings:      result.Warnings,
	})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	token := c.Param("token")
	userID, _ := userFromContext(c)

	result, err := h.service.CancelBooking(c.Request.Context(), token, userID)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, cancelResponse{
		Token:          result.Booking.Token,
		Status:         string(result.Booking.Status),
		RefundEligible: result.RefundEligible,
		FeeCents:       result.FeeCents,
	})
}

// writeBookingError maps an admission rejection to its HTTP status so a
// client can distinguish "pick another slot" from "upgrade your tier".
func writeBookingError(c *gin.Context, err error) {
	var rej *booking.RejectionError
	if !errors.As(err, &rej) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusUnprocessableEntity
	switch rej.Reason {
	case engine.ReasonSlotConflict:
		status = http.StatusConflict
	case engine.ReasonNoActiveMembership:
		status = http.StatusForbidden
	case engine.ReasonInvalidInterval:
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": rej.Message, "reason": string(rej.Reason)})
}
