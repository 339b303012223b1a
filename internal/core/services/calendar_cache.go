package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
)

const defaultCalendarTTL = 5 * time.Minute

// CalendarCache keeps one redis hash per tenant and unit, one field per
// queried date range. Any committed write to the unit drops the whole hash.
type CalendarCache struct {
	rdb redis.Cmdable
	ttl time.Duration
	log logrus.FieldLogger
}

func NewCalendarCache(rdb redis.Cmdable, ttl time.Duration, log logrus.FieldLogger) *CalendarCache {
	if ttl <= 0 {
		ttl = defaultCalendarTTL
	}
	return &CalendarCache{rdb: rdb, ttl: ttl, log: log}
}

func CalendarKey(tenantID, unitID uuid.UUID) string {
	return fmt.Sprintf("calendar:%s:%s", tenantID, unitID)
}

func calendarField(from, to time.Time) string {
	return from.Format(domain.DateLayout) + ":" + to.Format(domain.DateLayout)
}

// Fetch serves the range from redis, falling back to load on a miss. Redis
// errors are logged and never fail the read.
func (c *CalendarCache) Fetch(ctx context.Context, tenantID, unitID uuid.UUID, from, to time.Time, load func(ctx context.Context) ([]domain.Reservation, error)) ([]domain.Reservation, error) {
	key := CalendarKey(tenantID, unitID)
	field := calendarField(from, to)

	raw, err := c.rdb.HGet(ctx, key, field).Result()
	switch {
	case err == nil:
		var cached []domain.Reservation
		if jerr := json.Unmarshal([]byte(raw), &cached); jerr == nil {
			return cached, nil
		}
		c.log.WithField("key", key).Warn("Discarding unreadable calendar cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.WithError(err).WithField("key", key).Warn("Calendar cache read failed")
	}

	segments, err := load(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(segments)
	if err != nil {
		c.log.WithError(err).Warn("Failed to encode calendar for cache")
		return segments, nil
	}

	if err := c.rdb.HSet(ctx, key, field, string(payload)).Err(); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("Calendar cache write failed")
		return segments, nil
	}
	if err := c.rdb.Expire(ctx, key, c.ttl).Err(); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("Calendar cache expire failed")
	}

	return segments, nil
}

// Invalidate drops the cached calendars of the given units.
func (c *CalendarCache) Invalidate(ctx context.Context, tenantID uuid.UUID, unitIDs ...uuid.UUID) {
	if len(unitIDs) == 0 {
		return
	}

	seen := make(map[uuid.UUID]struct{}, len(unitIDs))
	keys := make([]string, 0, len(unitIDs))
	for _, id := range unitIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, CalendarKey(tenantID, id))
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.WithError(err).WithField("keys", keys).Warn("Failed to invalidate calendar cache")
	}
}
