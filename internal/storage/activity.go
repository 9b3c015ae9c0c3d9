package storage

import (
	"context"
	"strconv"
	"time"

	"hive-food/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	popularItemsKey  = "activity:popular"
	sessionKeyPrefix = "activity:session:"
	closedKeyPrefix  = "activity:closed:"
)

// ActivityStore keeps the counters fed by the order-event consumer:
// a global popularity ranking of item names and per-session activity
// tallies. All keys are TTL-bounded; losing them loses nothing the
// database cannot recompute.
type ActivityStore struct {
	Client *redis.Client
}

func NewActivityStore(client *redis.Client) *ActivityStore {
	return &ActivityStore{Client: client}
}

func (s *ActivityStore) RecordItemEvent(ctx context.Context, event domain.SessionEvent) error {
	if event.Type == domain.EventItemAdded && event.ItemName != "" {
		if err := s.Client.ZIncrBy(ctx, popularItemsKey, float64(event.Quantity), event.ItemName).Err(); err != nil {
			return err
		}
		s.Client.Expire(ctx, popularItemsKey, 30*24*time.Hour)
	}

	sessionKey := sessionKeyPrefix + strconv.Itoa(event.SessionID)
	if err := s.Client.Incr(ctx, sessionKey).Err(); err != nil {
		return err
	}
	return s.Client.Expire(ctx, sessionKey, 7*24*time.Hour).Err()
}

func (s *ActivityStore) RecordSessionClosed(ctx context.Context, event domain.SessionEvent) error {
	day := event.Timestamp.Format("2006-01-02")
	key := closedKeyPrefix + day
	if err := s.Client.Incr(ctx, key).Err(); err != nil {
		return err
	}
	return s.Client.Expire(ctx, key, 30*24*time.Hour).Err()
}

func (s *ActivityStore) TopItemNames(ctx context.Context, limit int) ([]domain.ItemActivity, error) {
	results, err := s.Client.ZRevRangeWithScores(ctx, popularItemsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	var top []domain.ItemActivity
	for _, result := range results {
		name, ok := result.Member.(string)
		if !ok {
			continue
		}
		top = append(top, domain.ItemActivity{Name: name, Score: result.Score})
	}
	return top, nil
}
