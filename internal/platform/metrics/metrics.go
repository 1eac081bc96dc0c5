package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	totalDurationMs uint64
	movesValidated  uint64
	movesWarned     uint64
	movesBlocked    uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordMove counts one validated move; warned marks a verdict that needed
// confirmation, blocked a rejection at the permission gate.
func (c *Collector) RecordMove(warned, blocked bool) {
	atomic.AddUint64(&c.movesValidated, 1)
	if warned {
		atomic.AddUint64(&c.movesWarned, 1)
	}
	if blocked {
		atomic.AddUint64(&c.movesBlocked, 1)
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":  total,
		"errorsTotal":    atomic.LoadUint64(&c.errorRequests),
		"avgDurationMs":  avg,
		"movesValidated": atomic.LoadUint64(&c.movesValidated),
		"movesWarned":    atomic.LoadUint64(&c.movesWarned),
		"movesBlocked":   atomic.LoadUint64(&c.movesBlocked),
	}
}
