package recycle

import (
	"sync"

	"github.com/ajitpratap0/recycle/pkg/errors"
)

// Recycler is the thread-safe pooling facade. It behaves like a stack of
// free elements, except that Get never fails on empty: when no element is
// retained, the configured supplier provides a fresh one. The push and pop
// verbs are named Retain and Get.
//
// Elements returned by Get belong to the caller; elements passed to Retain
// belong to the pool. Retaining objects that did not come from Get is legal,
// and objects obtained from Get should be retained after use or the pool
// degenerates into a plain allocator.
type Recycler[T any] interface {
	// Get returns a potentially recycled element.
	Get() T
	// GetN fills buf[:n] with potentially recycled elements and returns
	// buf. When n exceeds len(buf) the whole buffer is filled.
	GetN(buf []T, n int) []T
	// Retain stores an element for reuse.
	Retain(element T)
	// RetainN stores up to n elements from buf for reuse.
	RetainN(buf []T, n int)
	// Clear removes all retained elements.
	Clear()
	// Size returns the number of retained elements.
	Size() int
	// SetRetentionPolicy installs a new policy on the underlying stack.
	SetRetentionPolicy(policy RetentionPolicy) error
	// Stack returns the underlying stack. It is not synchronized; use it
	// concurrently only behind its Locker.
	Stack() *Stack[T]
}

// recycler delegates to its stack under the stack's own mutex, and asks the
// supplier for fresh elements outside of it.
type recycler[T any] struct {
	stack    *Stack[T]
	supplier func() T
	mu       sync.Locker
}

// NewRecycler creates a recycler from explicit collaborators. Most callers
// want New with options instead.
func NewRecycler[T any](producer ArrayProducer[T], policy RetentionPolicy, supplier func() T) (Recycler[T], error) {
	if supplier == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "supplier is nil")
	}
	stack, err := NewStack(producer, policy)
	if err != nil {
		return nil, err
	}
	return &recycler[T]{
		stack:    stack,
		supplier: supplier,
		mu:       stack.Locker(),
	}, nil
}

func (r *recycler[T]) Get() T {
	r.mu.Lock()
	element, err := r.stack.Pop()
	r.mu.Unlock()
	if err != nil {
		// supply outside the lock; suppliers may be slow
		return r.supplier()
	}
	return element
}

func (r *recycler[T]) GetN(buf []T, n int) []T {
	if n > len(buf) {
		n = len(buf)
	}
	r.mu.Lock()
	popped := r.stack.PopN(buf, n)
	r.mu.Unlock()
	for i := popped; i < n; i++ {
		buf[i] = r.supplier()
	}
	return buf
}

func (r *recycler[T]) Retain(element T) {
	r.mu.Lock()
	r.stack.Push(element)
	r.mu.Unlock()
}

func (r *recycler[T]) RetainN(buf []T, n int) {
	r.mu.Lock()
	r.stack.PushN(buf, n)
	r.mu.Unlock()
}

func (r *recycler[T]) Clear() {
	r.mu.Lock()
	r.stack.Clear()
	r.mu.Unlock()
}

func (r *recycler[T]) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stack.Size()
}

func (r *recycler[T]) SetRetentionPolicy(policy RetentionPolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stack.SetRetentionPolicy(policy)
}

func (r *recycler[T]) Stack() *Stack[T] {
	return r.stack
}
