package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clubcourt/courtbook/config"
	"github.com/clubcourt/courtbook/internal/bootstrap"
	"github.com/clubcourt/courtbook/internal/cache"
	"github.com/clubcourt/courtbook/internal/kafka"
	"github.com/clubcourt/courtbook/internal/repository"
	"github.com/clubcourt/courtbook/internal/service/booking"
	"github.com/clubcourt/courtbook/internal/service/courts"
	"github.com/jackc/pgx/v5/pgxpool"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	courtService := courts.NewCourtService(courtRepo, bookingRepo, redisCache, cfg.Booking.SlotGranularityMinutes)
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

	if err := bootstrap.Run(ctx, cfg, courtService, bookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
