package mind

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Governors bundles the two token-bucket limiters and the hourly completion
// quota. The buckets are acquired blocking, immediately before the guarded
// action, never speculatively; the quota is a hard non-blocking gate.
type Governors struct {
	transport  *rate.Limiter
	completion *rate.Limiter
	quota      *HourlyQuota
}

func NewGovernors(transportPerMinute, completionPerMinute, completionPerHour int) *Governors {
	return &Governors{
		transport:  perMinuteLimiter(transportPerMinute),
		completion: perMinuteLimiter(completionPerMinute),
		quota:      NewHourlyQuota(completionPerHour),
	}
}

func perMinuteLimiter(n int) *rate.Limiter {
	if n <= 0 {
		n = 1
	}
	return rate.NewLimiter(rate.Limit(float64(n)/60.0), n)
}

// WaitTransport blocks until an outbound-transport token is available.
func (g *Governors) WaitTransport(ctx context.Context) error {
	return g.transport.Wait(ctx)
}

// WaitCompletion blocks until a completion-API token is available.
func (g *Governors) WaitCompletion(ctx context.Context) error {
	return g.completion.Wait(ctx)
}

// Quota returns the hourly completion quota.
func (g *Governors) Quota() *HourlyQuota {
	return g.quota
}

// HourlyQuota hard-caps completion calls per wall-clock hour. The counter
// resets whenever the hour-of-day changes.
type HourlyQuota struct {
	mu    sync.Mutex
	hour  int
	count int
	max   int
}

func NewHourlyQuota(max int) *HourlyQuota {
	return &HourlyQuota{hour: -1, max: max}
}

// Allow consumes one slot when available. When the cap is reached it returns
// false and the caller must fall back — no blocking, no retry.
func (q *HourlyQuota) Allow(now time.Time) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if h := now.Hour(); h != q.hour {
		q.hour = h
		q.count = 0
	}
	if q.count >= q.max {
		return false
	}
	q.count++
	return true
}
