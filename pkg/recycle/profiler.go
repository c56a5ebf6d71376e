package recycle

import (
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/recycle/pkg/errors"
	"github.com/ajitpratap0/recycle/pkg/logger"
)

// Snapshot is an immutable statistics record captured from a profiling
// session. Elements and Buckets describe the pool at capture time; Retains,
// Gets and Recycled are deltas since the previous snapshot.
type Snapshot struct {
	// Elements is the number of elements in the pool.
	Elements int `json:"elements"`
	// Buckets is the number of buckets in the pool's stack.
	Buckets int `json:"buckets"`
	// Retains is the number of elements returned to the pool.
	Retains int `json:"retains"`
	// Gets is the number of elements requested from the pool.
	Gets int `json:"gets"`
	// Recycled is how many of those requests were served from the pool
	// rather than the supplier.
	Recycled int `json:"recycled"`
}

// String renders the snapshot as JSON.
func (s Snapshot) String() string {
	b, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Profiler decorates a Recycler, counting operations and periodically
// capturing statistics snapshots from its own background loop. Use it by
// wrapping an existing recycler and calling the usual Recycler methods on
// the profiler instead.
//
// Profiler is safe for concurrent use.
type Profiler[T any] struct {
	recycler Recycler[T]
	interval time.Duration
	log      *zap.Logger

	mu        sync.Mutex
	session   *session[T]
	snapshots []Snapshot

	done chan struct{}
	stop sync.Once
}

// NewProfiler wraps recycler in a profiler that captures a snapshot every
// interval. An interval of zero disables the background loop; statistics are
// then gathered manually with CreateSnapshot. A negative interval is
// rejected.
func NewProfiler[T any](recycler Recycler[T], interval time.Duration) (*Profiler[T], error) {
	if recycler == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "recycler is nil")
	}
	if interval < 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "snapshot interval is negative").
			WithDetail("interval", interval.String())
	}

	p := &Profiler[T]{
		recycler: recycler,
		interval: interval,
		log:      logger.With(zap.String("component", "profiler")),
		session:  newSession(recycler.Stack()),
		done:     make(chan struct{}),
	}
	if interval > 0 {
		go p.run()
	}
	return p, nil
}

// Get returns a potentially recycled element and counts the request.
func (p *Profiler[T]) Get() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	element := p.recycler.Get()
	p.session.incrementGet()
	return element
}

// GetN fills buf[:n] with potentially recycled elements and counts the
// requests.
func (p *Profiler[T]) GetN(buf []T, n int) []T {
	if n > len(buf) {
		n = len(buf)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recycler.GetN(buf, n)
	p.session.incrementGetN(n)
	return buf
}

// Retain stores an element for reuse and counts it if the pool kept it.
func (p *Profiler[T]) Retain(element T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recycler.Retain(element)
	p.session.incrementRetain()
}

// RetainN stores up to n elements from buf and counts how many the pool
// kept.
func (p *Profiler[T]) RetainN(buf []T, n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recycler.RetainN(buf, n)
	p.session.incrementRetainN()
}

// Clear removes all retained elements and resets the session's view of the
// pool.
func (p *Profiler[T]) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recycler.Clear()
	p.session.clear()
}

// Size returns the number of retained elements.
func (p *Profiler[T]) Size() int {
	return p.recycler.Size()
}

// SetRetentionPolicy installs a new policy and resyncs the session.
func (p *Profiler[T]) SetRetentionPolicy(policy RetentionPolicy) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.recycler.SetRetentionPolicy(policy); err != nil {
		return err
	}
	p.session.reset()
	return nil
}

// Stack returns the underlying stack of the wrapped recycler.
func (p *Profiler[T]) Stack() *Stack[T] {
	return p.recycler.Stack()
}

// CreateSnapshot captures a snapshot immediately and resets the delta
// counters. Intended for profilers created with a zero interval, where
// statistics are gathered manually.
func (p *Profiler[T]) CreateSnapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.snapshot()
}

// Snapshots returns a copy of all snapshots captured so far.
func (p *Profiler[T]) Snapshots() []Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Snapshot, len(p.snapshots))
	copy(out, p.snapshots)
	return out
}

// Terminate stops the snapshot loop. It is idempotent and wakes a sleeping
// loop immediately. The profiler keeps delegating after termination; only
// snapshot capturing stops.
func (p *Profiler[T]) Terminate() {
	p.stop.Do(func() {
		close(p.done)
	})
}

func (p *Profiler[T]) run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.mu.Lock()
			snap := p.session.snapshot()
			p.snapshots = append(p.snapshots, snap)
			p.mu.Unlock()

			p.log.Debug("captured snapshot",
				zap.Int("elements", snap.Elements),
				zap.Int("buckets", snap.Buckets),
				zap.Int("retains", snap.Retains),
				zap.Int("gets", snap.Gets),
				zap.Int("recycled", snap.Recycled),
			)
		}
	}
}

// session tracks pool statistics between snapshots. Retain accounting does
// not re-derive the stack's size; it diffs the bucket count and cursor
// around the delegated call, which is how crossings of a bucket boundary are
// attributed correctly. Reads of stack internals happen under the stack's
// lock so a concurrent disposer cannot tear them.
type session[T any] struct {
	stack *Stack[T]

	cursor   int
	elements int
	buckets  int

	retains  int
	gets     int
	recycled int
}

func newSession[T any](stack *Stack[T]) *session[T] {
	lk := stack.Locker()
	lk.Lock()
	defer lk.Unlock()
	return &session[T]{
		stack:    stack,
		cursor:   stack.cursor,
		elements: stack.Size(),
		buckets:  stack.bucketCount,
	}
}

// snapshot captures the current statistics and zeroes the delta counters.
func (s *session[T]) snapshot() Snapshot {
	rv := Snapshot{
		Elements: s.elements,
		Buckets:  s.buckets,
		Retains:  s.retains,
		Gets:     s.gets,
		Recycled: s.recycled,
	}
	s.retains, s.gets, s.recycled = 0, 0, 0
	return rv
}

func (s *session[T]) incrementGet() {
	s.gets++

	if s.elements > 0 {
		s.recycled++
		s.elements--
		s.syncMeta()
	}
}

func (s *session[T]) incrementGetN(n int) {
	s.gets += n

	if s.elements > 0 {
		popped := s.elements
		if n < popped {
			popped = n
		}
		s.recycled += popped
		s.elements -= popped
		s.syncMeta()
	}
}

func (s *session[T]) incrementRetain() {
	lk := s.stack.Locker()
	lk.Lock()
	defer lk.Unlock()

	switch {
	case s.stack.bucketCount > s.buckets:
		s.retains++
		s.elements++
		s.buckets = s.stack.bucketCount
		s.cursor = s.stack.cursor
	case s.stack.bucketCount < s.buckets || s.stack.cursor < s.cursor:
		// A disposer evicted between observations; resync instead of
		// diffing.
		s.retains++
		s.elements = s.stack.Size()
		s.buckets = s.stack.bucketCount
		s.cursor = s.stack.cursor
	case s.cursor != s.stack.cursor:
		s.retains++
		s.elements++
		s.cursor = s.stack.cursor
	}
}

func (s *session[T]) incrementRetainN() {
	lk := s.stack.Locker()
	lk.Lock()
	defer lk.Unlock()

	switch {
	case s.stack.bucketCount > s.buckets:
		// Count what landed in the buckets added since the last
		// observation, plus the remainder of the bucket that was current
		// back then.
		pushed := s.stack.cursor
		b := s.stack.head.prev
		for i := s.stack.bucketCount - 1; i > s.buckets; i-- {
			pushed += len(b.array)
			b = b.prev
		}
		pushed += len(b.array) - s.cursor

		s.retains += pushed
		s.elements += pushed
		s.buckets = s.stack.bucketCount
		s.cursor = s.stack.cursor
	case s.stack.bucketCount < s.buckets || s.stack.cursor < s.cursor:
		// A disposer evicted between observations; resync instead of
		// guessing the delta.
		s.elements = s.stack.Size()
		s.buckets = s.stack.bucketCount
		s.cursor = s.stack.cursor
	case s.cursor != s.stack.cursor:
		pushed := s.stack.cursor - s.cursor
		s.retains += pushed
		s.elements += pushed
		s.cursor = s.stack.cursor
	}
}

func (s *session[T]) clear() {
	s.elements = 0
	s.buckets = 1
	s.cursor = 0
}

// reset resyncs the element and bucket counts from the stack.
func (s *session[T]) reset() {
	lk := s.stack.Locker()
	lk.Lock()
	defer lk.Unlock()
	s.elements = s.stack.Size()
	s.buckets = s.stack.bucketCount
	s.cursor = s.stack.cursor
}

// syncMeta refreshes the session's view of the stack layout under its lock.
func (s *session[T]) syncMeta() {
	lk := s.stack.Locker()
	lk.Lock()
	s.buckets = s.stack.bucketCount
	s.cursor = s.stack.cursor
	lk.Unlock()
}
