package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
	Tiers    TierTable      `yaml:"tiers"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	PaymentEventsTopic string   `yaml:"payment_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// BookingConfig carries the org-level booking knobs. Prime time and weekend
// days default to 17:00-21:00 and Sat/Sun when left unset.
type BookingConfig struct {
	SlotGranularityMinutes int   `yaml:"slot_granularity_minutes"`
	HoldTTLMinutes         int   `yaml:"hold_ttl_minutes"`
	PaymentTTLMinutes      int   `yaml:"payment_ttl_minutes"`
	ScheduleCacheTTL       int   `yaml:"schedule_cache_ttl_seconds"`
	ReserveRetries         int   `yaml:"reserve_retries"`
	LateCancelFeeCents     int64 `yaml:"late_cancel_fee_cents"`
	PrimeTimeStartHour     int   `yaml:"prime_time_start_hour"`
	PrimeTimeEndHour       int   `yaml:"prime_time_end_hour"`
	WeekendDays            []int `yaml:"weekend_days"`
}

type WorkerConfig struct {
	ExpirationSweepMinutes int `yaml:"expiration_sweep_minutes"`
}

// LoadConfig reads the yaml file over a pre-populated default config, so a
// key left out keeps its default while an explicit zero stays zero. A fee of
// 0 or a prime-time band starting at midnight are real settings, not gaps.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Config{
		Booking: BookingConfig{
			SlotGranularityMinutes: 30,
			HoldTTLMinutes:         1,
			PaymentTTLMinutes:      15,
			ScheduleCacheTTL:       60,
			ReserveRetries:         3,
			LateCancelFeeCents:     1000,
			PrimeTimeStartHour:     17,
			PrimeTimeEndHour:       21,
			WeekendDays:            []int{6, 0}, // Saturday, Sunday
		},
		Worker: WorkerConfig{ExpirationSweepMinutes: 1},
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Tiers.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tier configuration: %w", err)
	}

	return &cfg, nil
}
