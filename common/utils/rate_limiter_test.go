package utils

import (
	"testing"
	"time"
)

func TestRateLimiter_Burst(t *testing.T) {
	rl := NewRateLimiter(1, 3)
	now := rl.lastRefill
	for i := 0; i < 3; i++ {
		if !rl.allowAt(now) {
			t.Fatalf("request %d within burst rejected", i)
		}
	}
	if rl.allowAt(now) {
		t.Fatalf("request beyond burst allowed")
	}
	if !rl.allowAt(now.Add(time.Second)) {
		t.Fatalf("token not refilled after one second")
	}
	if rl.allowAt(now.Add(time.Second)) {
		t.Fatalf("only one token should be refilled")
	}
}

func TestRateLimiter_CapacityCapsRefill(t *testing.T) {
	rl := NewRateLimiter(10, 0)
	later := rl.lastRefill.Add(time.Hour)
	n := 0
	for rl.allowAt(later) {
		n++
	}
	if n != 10 {
		t.Fatalf("expected capacity 10, got %d", n)
	}
}
