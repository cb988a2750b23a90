package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CheckAndSetRateLimit acquires a short lock for the given subject and action.
// Returns true when the caller may proceed. A nil client disables limiting.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, subject string, action string, limit time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rate_limit:%s:%s", action, subject)

	wasSet, err := rdb.SetNX(ctx, key, "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

// CountFailure tracks consecutive failures for a subject, returning the count
// so far. The window starts at the first failure.
func CountFailure(ctx context.Context, rdb *redis.Client, subject string, action string, window time.Duration) (int64, error) {
	if rdb == nil {
		return 0, nil
	}

	key := fmt.Sprintf("fail_count:%s:%s", action, subject)

	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count failures in redis: %w", err)
	}
	if count == 1 {
		rdb.Expire(ctx, key, window)
	}
	return count, nil
}

// GetFailures reads the current failure count without touching it.
func GetFailures(ctx context.Context, rdb *redis.Client, subject string, action string) (int64, error) {
	if rdb == nil {
		return 0, nil
	}

	key := fmt.Sprintf("fail_count:%s:%s", action, subject)

	count, err := rdb.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read failure count from redis: %w", err)
	}
	return count, nil
}

func ClearFailures(ctx context.Context, rdb *redis.Client, subject string, action string) error {
	if rdb == nil {
		return nil
	}
	key := fmt.Sprintf("fail_count:%s:%s", action, subject)
	_, err := rdb.Del(ctx, key).Result()
	return err
}
