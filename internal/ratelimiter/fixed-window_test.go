package ratelimiter

import (
	"testing"
	"time"
)

func TestFixedWindowLimiter(t *testing.T) {
	limiter := NewFixedWindowLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if allowed, _ := limiter.Allow("10.0.0.1"); !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	allowed, retryAfter := limiter.Allow("10.0.0.1")
	if allowed {
		t.Error("request over the limit should be denied")
	}
	if retryAfter != time.Hour {
		t.Errorf("expected retry after %v, got %v", time.Hour, retryAfter)
	}
}

func TestFixedWindowLimiterPerClient(t *testing.T) {
	limiter := NewFixedWindowLimiter(1, time.Hour)

	if allowed, _ := limiter.Allow("10.0.0.1"); !allowed {
		t.Fatal("first client should be allowed")
	}
	if allowed, _ := limiter.Allow("10.0.0.2"); !allowed {
		t.Error("one client exhausting its window must not affect another")
	}
	if allowed, _ := limiter.Allow("10.0.0.1"); allowed {
		t.Error("first client should be over its limit")
	}
}

func TestFixedWindowLimiterResets(t *testing.T) {
	limiter := NewFixedWindowLimiter(1, 20*time.Millisecond)

	if allowed, _ := limiter.Allow("10.0.0.1"); !allowed {
		t.Fatal("first request should be allowed")
	}
	if allowed, _ := limiter.Allow("10.0.0.1"); allowed {
		t.Fatal("second request in the window should be denied")
	}

	time.Sleep(50 * time.Millisecond)

	if allowed, _ := limiter.Allow("10.0.0.1"); !allowed {
		t.Error("request after the window should be allowed again")
	}
}
