package id

import (
	"sync"
	"time"
)

// Generator creates numeric IDs for records created without a database.
type Generator interface {
	NewID() int64
}

// ClockGenerator issues millisecond timestamps, bumped by one whenever the
// clock has not advanced since the previous ID so values stay unique and increasing.
type ClockGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewClockGenerator() *ClockGenerator {
	return &ClockGenerator{now: time.Now}
}

func (g *ClockGenerator) NewID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	next := g.now().UnixMilli()
	if next <= g.last {
		next = g.last + 1
	}
	g.last = next
	return next
}
