package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clubcourt/courtbook/config"
	"github.com/clubcourt/courtbook/internal/cache"
	"github.com/clubcourt/courtbook/internal/email"
	"github.com/clubcourt/courtbook/internal/kafka"
	"github.com/clubcourt/courtbook/internal/repository"
	"github.com/clubcourt/courtbook/internal/service/booking"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.ScheduleCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	courtRepo := repository.NewCourtRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	bookingService := booking.NewBookingService(
		bookingRepo,
		courtRepo,
		redisCache,
		producer,
		cfg.Tiers,
		cfg.Kafka.BookingEventsTopic,
		cfg.Booking.SlotGranularityMinutes,
		cfg.Booking.Policy(),
		cfg.Booking.LateCancelFeeCents,
		cfg.Booking.ReserveRetries,
		time.Duration(cfg.Booking.HoldTTLMinutes)*time.Minute,
		time.Duration(cfg.Booking.PaymentTTLMinutes)*time.Minute,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	// Payment status events from the payment collaborator. At-least-once
	// delivery; ApplyPaymentEvent tolerates duplicates.
	paymentConsumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.PaymentEventsTopic)
	defer paymentConsumer.Close()

	go func() {
		if err := paymentConsumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.PaymentEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode payment event error: %v", err)
				return nil
			}
			if _, err := bookingService.ApplyPaymentEvent(ctx, event); err != nil {
				log.Printf("apply payment event for %s: %v", event.BookingToken, err)
			}
			return nil
		}); err != nil {
			log.Printf("payment consumer stopped: %v", err)
		}
	}()

	notifyConsumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID+"-notify", cfg.Kafka.NotificationsTopic)
	defer notifyConsumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := notifyConsumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode booking event error: %v", err)
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	expireTicker := time.NewTicker(time.Duration(cfg.Worker.ExpirationSweepMinutes) * time.Minute)
	defer expireTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-expireTicker.C:
			expired, err := bookingService.ExpirePendingBookings(ctx)
			if err != nil {
				log.Printf("expire bookings error: %v", err)
				continue
			}
			if len(expired) > 0 {
				log.Printf("expired %d bookings", len(expired))
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
