package ratelimiter

import (
	"testing"
	"time"
)

func TestFixedWindowLimiter(t *testing.T) {
	rl := NewFixedWindowLimiter(2, time.Minute)

	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Fatal("first request should be allowed")
	}
	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Fatal("second request should be allowed")
	}
	ok, retryAfter := rl.Allow("10.0.0.1")
	if ok {
		t.Fatal("third request should be denied")
	}
	if retryAfter != time.Minute {
		t.Errorf("expected retry-after of one window, got %v", retryAfter)
	}

	// Other clients have their own budget.
	if ok, _ := rl.Allow("10.0.0.2"); !ok {
		t.Error("a different client should still be allowed")
	}
}
