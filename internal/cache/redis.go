package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clubcourt/courtbook/config"
	"github.com/clubcourt/courtbook/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client      *redis.Client
	scheduleTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, scheduleTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		scheduleTTL: scheduleTTL,
	}
}

// AcquireSlotHold takes a short-lived lock on one slot while the admission
// decision and the database reserve run. It is a cheap pre-filter in front
// of the transactional reserve, not the source of truth.
func (c *RedisCache) AcquireSlotHold(ctx context.Context, courtID int64, date time.Time, startMinute int, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, slotHoldKey(courtID, date, startMinute), "held", ttl).Result()
}

func (c *RedisCache) ReleaseSlotHold(ctx context.Context, courtID int64, date time.Time, startMinute int) error {
	return c.client.Del(ctx, slotHoldKey(courtID, date, startMinute)).Err()
}

func (c *RedisCache) GetCourts(ctx context.Context) ([]domain.Court, error) {
	data, err := c.client.Get(ctx, courtsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var courts []domain.Court
	if err := json.Unmarshal(data, &courts); err != nil {
		return nil, err
	}
	return courts, nil
}

func (c *RedisCache) SetCourts(ctx context.Context, courts []domain.Court) error {
	payload, err := json.Marshal(courts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, courtsKey(), payload, c.scheduleTTL).Err()
}

func (c *RedisCache) GetSchedule(ctx context.Context, courtID int64) (domain.WeeklySchedule, error) {
	data, err := c.client.Get(ctx, scheduleKey(courtID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var schedule domain.WeeklySchedule
	if err := json.Unmarshal(data, &schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (c *RedisCache) SetSchedule(ctx context.Context, courtID int64, schedule domain.WeeklySchedule) error {
	payload, err := json.Marshal(schedule)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, scheduleKey(courtID), payload, c.scheduleTTL).Err()
}

func courtsKey() string {
	return "cache:courts"
}

func scheduleKey(courtID int64) string {
	return fmt.Sprintf("cache:schedule:court:%d", courtID)
}

func slotHoldKey(courtID int64, date time.Time, startMinute int) string {
	return fmt.Sprintf("hold:court:%d:%s:%d", courtID, date.Format("2006-01-02"), startMinute)
}
