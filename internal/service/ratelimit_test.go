package service

import (
	"context"
	"testing"
	"time"
)

// Without a redis client every limiter call reports "allowed" so the feature
// switches off cleanly instead of blocking writes.
func TestRateLimitDisabledWithoutRedis(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := CheckAndSetRateLimit(ctx, nil, "someone", "blog", time.Minute)
		if err != nil {
			t.Fatalf("check: %v", err)
		}
		if !allowed {
			t.Fatal("disabled limiter must always allow")
		}
	}
}

func TestFailureCountingDisabledWithoutRedis(t *testing.T) {
	ctx := context.Background()

	count, err := CountFailure(ctx, nil, "someone", "login", time.Minute)
	if err != nil || count != 0 {
		t.Fatalf("count = %d, err = %v", count, err)
	}

	count, err = GetFailures(ctx, nil, "someone", "login")
	if err != nil || count != 0 {
		t.Fatalf("get = %d, err = %v", count, err)
	}

	if err := ClearFailures(ctx, nil, "someone", "login"); err != nil {
		t.Fatalf("clear: %v", err)
	}
}
