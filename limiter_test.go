package bloglet

import (
	"testing"
	"time"
)

func TestGateLimiterBlocksAfterMaxFailures(t *testing.T) {
	limiter := NewGateLimiter(2, 200*time.Millisecond)
	ip := "203.0.113.10"

	if !limiter.Check(ip) {
		t.Fatalf("expected first attempt to be allowed")
	}
	limiter.Record(ip)
	if !limiter.Check(ip) {
		t.Fatalf("expected second attempt to be allowed")
	}
	limiter.Record(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected third attempt to be blocked")
	}
}

func TestGateLimiterSuccessDoesNotCount(t *testing.T) {
	limiter := NewGateLimiter(1, 200*time.Millisecond)
	ip := "203.0.113.15"

	// Check without Record models a successful login.
	for i := 0; i < 5; i++ {
		if !limiter.Check(ip) {
			t.Fatalf("successful logins must not trip the limiter")
		}
	}
}

func TestGateLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewGateLimiter(1, 150*time.Millisecond)
	ip := "203.0.113.20"

	limiter.Record(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected attempt to be blocked inside the window")
	}

	time.Sleep(200 * time.Millisecond)
	if !limiter.Check(ip) {
		t.Fatalf("expected attempt after window to be allowed")
	}
}

func TestGateLimiterIsPerIP(t *testing.T) {
	limiter := NewGateLimiter(1, 200*time.Millisecond)

	limiter.Record("203.0.113.30")
	if !limiter.Check("203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if limiter.Check("203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}
