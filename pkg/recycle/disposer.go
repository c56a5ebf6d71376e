package recycle

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/recycle/pkg/logger"
)

// disposer periodically evicts elements from a stack on behalf of a timed
// retention policy. It runs as its own goroutine between start and
// terminate, and acquires the stack's mutex for every eviction so it never
// races foreground callers that serialize on the same lock.
type disposer struct {
	target   Target
	interval time.Duration
	evict    EvictFunc
	log      *zap.Logger
	done     chan struct{}
	stop     sync.Once
}

func newDisposer(target Target, interval time.Duration, evict EvictFunc) *disposer {
	return &disposer{
		target:   target,
		interval: interval,
		evict:    evict,
		log:      logger.With(zap.String("component", "disposer")),
		done:     make(chan struct{}),
	}
}

func (d *disposer) start() {
	go d.run()
}

func (d *disposer) run() {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			if !d.dispose() {
				return
			}
		}
	}
}

// dispose performs one eviction pass. It reports false once the disposer has
// been terminated.
func (d *disposer) dispose() (alive bool) {
	lk := d.target.Locker()
	lk.Lock()
	defer lk.Unlock()

	// Terminate runs while its caller holds the stack lock, so a tick that
	// raced termination sees the signal here and backs off before mutating.
	select {
	case <-d.done:
		return false
	default:
	}

	// A panicking evict function must not kill the loop; alive is settled
	// before the call so the recover path keeps ticking.
	alive = true
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("evict function panicked", zap.Any("panic", r))
		}
	}()

	n := d.evict(d.target.Size())
	if n > 0 {
		d.target.Remove(n)
		d.log.Debug("disposed elements",
			zap.Int("count", n),
			zap.Int("remaining", d.target.Size()),
		)
	}
	return true
}

// terminate stops the disposer. It is idempotent and wakes a sleeping loop
// immediately instead of waiting out the interval.
func (d *disposer) terminate() {
	d.stop.Do(func() {
		close(d.done)
	})
}
