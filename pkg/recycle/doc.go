// Package recycle implements a growable, policy-driven object-reuse pool.
// It amortizes allocation cost for short-lived, same-shaped objects by
// keeping a stack of free elements that callers acquire from and return to,
// instead of allocating on every use.
//
// # Architecture
//
// Core types:
//
//   - Stack[T]: a LIFO store of free elements kept in a chain of fixed-size
//     buckets. Buckets are created and discarded as the stack grows and
//     shrinks; there is never a single contiguous resizable buffer. The
//     length of each bucket comes from an ArrayProducer, so the growth curve
//     (constant, linear, exponential) is chosen by the caller, not the stack.
//   - RetentionPolicy: a pluggable rule consulted on every mutation that
//     decides whether and how many elements the stack keeps. Shipped
//     variants: RetainAll, RetainNone, NewRetainMax, NewRetainAllTimed,
//     NewRetainMaxTimed. Timed variants own a background disposer that
//     evicts elements at a fixed interval.
//   - Recycler[T]: the thread-safe facade. Get returns a pooled element or
//     supplies a new one; Retain returns an element for reuse.
//   - Profiler[T]: a Recycler decorator that gathers usage statistics and
//     captures periodic snapshots.
//
// # Concurrency
//
// Stack is not safe for unsynchronized concurrent use. Recycler serializes
// all access behind one mutex per pool, and a timed policy's disposer
// acquires that same mutex before evicting. Use Stack directly only from a
// single goroutine, or synchronize on Stack.Locker yourself.
//
// # Usage
//
// Basic pool usage:
//
//	r, err := recycle.New(func() *bytes.Buffer { return &bytes.Buffer{} })
//	if err != nil {
//		return err
//	}
//
//	buf := r.Get()
//	// use buf ...
//	buf.Reset()
//	r.Retain(buf)
//
// Bounding the pool and aging out idle elements:
//
//	policy, err := recycle.NewRetainMaxTimed(1024, time.Minute, recycle.EvictHalf)
//	if err != nil {
//		return err
//	}
//	r, err := recycle.New(newConn,
//		recycle.WithBucketSize[*Conn](256),
//		recycle.WithPolicy[*Conn](policy),
//	)
//
// Elements retained into the pool belong to the pool; elements returned by
// Get belong to the caller. It is legal to retain objects that were never
// obtained from Get.
package recycle
