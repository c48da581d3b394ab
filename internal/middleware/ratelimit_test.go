package middleware

import (
	"testing"
	"time"

	"github.com/iliyamo/ecommerce-backend/internal/config"
)

func TestParseDecision(t *testing.T) {
	d, ok := parseDecision([]interface{}{int64(0), int64(0), int64(1500)})
	if !ok || d.allowed || d.remaining != 0 || d.wait != 1500*time.Millisecond {
		t.Fatalf("got %+v ok=%v", d, ok)
	}
	d, ok = parseDecision([]interface{}{int64(1), int64(9), int64(0)})
	if !ok || !d.allowed || d.remaining != 9 {
		t.Fatalf("got %+v ok=%v", d, ok)
	}
	if _, ok := parseDecision("OK"); ok {
		t.Fatal("non-array reply accepted")
	}
}

func TestRetryAfterRoundsUp(t *testing.T) {
	cases := map[time.Duration]int{
		0:                       0,
		-time.Second:            0,
		time.Millisecond:        1,
		time.Second:             1,
		1500 * time.Millisecond: 2,
	}
	for in, want := range cases {
		if got := retryAfter(in); got != want {
			t.Errorf("retryAfter(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestRateKeyUnknownStrategyUsesEverything(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "bogus"}
	c, _ := newContext("")
	c.SetPath("/auth/register")
	want := "rl:ip:" + c.RealIP() + ":user:anon:route:GET /auth/register"
	if got := buildRateKey(cfg, c); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
