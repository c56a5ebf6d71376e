package recycle

import (
	"time"

	"github.com/ajitpratap0/recycle/pkg/errors"
)

// EvictFunc maps the current number of retained elements to the number of
// elements a timed policy evicts on one tick. Results below zero are treated
// as zero.
type EvictFunc func(size int) int

// EvictAll evicts every retained element on each tick.
func EvictAll(size int) int { return size }

// EvictHalf evicts half of the retained elements, rounded up.
func EvictHalf(size int) int { return (size + 1) / 2 }

// EvictConstant returns an EvictFunc that always evicts up to n elements.
func EvictConstant(n int) EvictFunc {
	return func(int) int { return n }
}

// timedPolicy carries the disposer bookkeeping shared by the timed retention
// variants. Install starts the disposer, Uninstall terminates it; after
// Uninstall returns the disposer performs no further mutation.
type timedPolicy struct {
	basePolicy
	interval time.Duration
	evict    EvictFunc
	disposer *disposer
}

func newTimedPolicy(interval time.Duration, evict EvictFunc) (timedPolicy, error) {
	if interval < time.Millisecond {
		return timedPolicy{}, errors.New(errors.ErrorTypeValidation, "disposal interval must be at least 1ms").
			WithDetail("interval", interval.String())
	}
	if evict == nil {
		return timedPolicy{}, errors.New(errors.ErrorTypeValidation, "evict function is nil")
	}
	return timedPolicy{interval: interval, evict: evict}, nil
}

func (p *timedPolicy) Install(target Target) {
	p.disposer = newDisposer(target, p.interval, p.evict)
	p.disposer.start()
}

func (p *timedPolicy) Uninstall() {
	if p.disposer != nil {
		p.disposer.terminate()
		p.disposer = nil
	}
}

// retainAllTimed keeps every element but ages them out in the background.
type retainAllTimed struct {
	timedPolicy
}

// NewRetainAllTimed returns a policy that places no limit on retained
// elements and evicts evict(size) elements every interval while installed.
// The interval must be at least one millisecond.
//
// The policy mutates the stack from a background goroutine; install it only
// on stacks whose access is serialized, such as those owned by a Recycler.
func NewRetainAllTimed(interval time.Duration, evict EvictFunc) (RetentionPolicy, error) {
	base, err := newTimedPolicy(interval, evict)
	if err != nil {
		return nil, err
	}
	return &retainAllTimed{timedPolicy: base}, nil
}

func (p *retainAllTimed) CanPush() bool      { return true }
func (p *retainAllTimed) CanPushN(n int) int { return n }

// retainMaxTimed bounds the number of retained elements and ages them out in
// the background.
type retainMaxTimed struct {
	timedPolicy
	limit int
	count int
}

// NewRetainMaxTimed returns a policy that admits elements while fewer than
// limit are retained and evicts evict(size) elements every interval while
// installed. The interval must be at least one millisecond.
//
// The policy mutates the stack from a background goroutine; install it only
// on stacks whose access is serialized, such as those owned by a Recycler.
func NewRetainMaxTimed(limit int, interval time.Duration, evict EvictFunc) (RetentionPolicy, error) {
	base, err := newTimedPolicy(interval, evict)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		return nil, errors.New(errors.ErrorTypeValidation, "retention limit must be at least 1").
			WithDetail("limit", limit)
	}
	return &retainMaxTimed{timedPolicy: base, limit: limit}, nil
}

func (p *retainMaxTimed) CanPush() bool {
	return p.count < p.limit
}

func (p *retainMaxTimed) CanPushN(n int) int {
	free := p.limit - p.count
	if free < 0 {
		free = 0
	}
	if n < free {
		return n
	}
	return free
}

func (p *retainMaxTimed) OnPush()       { p.count++ }
func (p *retainMaxTimed) OnPushN(n int) { p.count += n }
func (p *retainMaxTimed) OnPop()        { p.count-- }
func (p *retainMaxTimed) OnPopN(n int)  { p.count -= n }
func (p *retainMaxTimed) OnClear()      { p.count = 0 }

func (p *retainMaxTimed) Install(target Target) {
	// The disposer evicts without a retention event, so the policy settles
	// its own count here. Runs under the stack's lock, same as OnPush/OnPop.
	evict := p.evict
	p.disposer = newDisposer(target, p.interval, func(size int) int {
		n := evict(size)
		if n > size {
			n = size
		}
		if n > 0 {
			p.count -= n
			if p.count < 0 {
				p.count = 0
			}
		}
		return n
	})
	p.disposer.start()
}

func (p *retainMaxTimed) Uninstall() {
	p.timedPolicy.Uninstall()
	p.count = 0
}
