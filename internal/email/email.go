package email

import (
	"context"
	"fmt"

	"github.com/clubcourt/courtbook/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("notify member %s: %s for court %d on %s %s\n", event.UserID, event.Type, event.CourtID, event.Date, event.Status)
	return nil
}
