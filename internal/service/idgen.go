package service

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator produces correlated booking/transaction identifier pairs.
// Both identifiers of a pair share one millisecond timestamp; the
// timestamp is bumped under the mutex so concurrent callers never mint
// the same pair.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// NextPair returns a ("BK<ms>", "TRX<ms>") pair with a shared timestamp.
func (g *IDGenerator) NextPair() (bookingID, transactionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms

	suffix := strconv.FormatInt(ms, 10)
	return "BK" + suffix, "TRX" + suffix
}
