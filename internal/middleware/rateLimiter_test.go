package middleware

import (
	"testing"

	"golang.org/x/time/rate"
)

func TestIPRateLimiter_SameLimiterPerIP(t *testing.T) {
	rl := NewIPRateLimiter(rate.Limit(1), 1)

	first := rl.GetLimiter("10.0.0.1")
	second := rl.GetLimiter("10.0.0.1")
	if first != second {
		t.Error("same IP should reuse its limiter")
	}

	other := rl.GetLimiter("10.0.0.2")
	if other == first {
		t.Error("distinct IPs must not share a limiter")
	}
}

func TestIPRateLimiter_BurstExhaustion(t *testing.T) {
	rl := NewIPRateLimiter(rate.Limit(0), 2) // no refill, burst of 2

	limiter := rl.GetLimiter("10.0.0.3")
	if !limiter.Allow() || !limiter.Allow() {
		t.Fatal("burst allowance should admit the first two requests")
	}
	if limiter.Allow() {
		t.Error("third request should be rejected with the bucket drained")
	}

	// a different IP still has its full burst
	if !rl.GetLimiter("10.0.0.4").Allow() {
		t.Error("fresh IP should not be affected by another IP's bucket")
	}
}
