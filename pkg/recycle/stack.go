package recycle

import (
	"sync"

	"github.com/ajitpratap0/recycle/pkg/errors"
)

// ErrEmpty is returned by Pop when the stack holds no elements. Callers
// should match it with errors.Is and fall back to supplying a new element.
var ErrEmpty = errors.New(errors.ErrorTypeEmpty, "stack is empty")

// bucket is one node of the storage chain: a fixed-size array of slots and a
// link to the previous (older) bucket. Buckets are discarded as a unit when
// the stack shrinks past them.
type bucket[T any] struct {
	prev  *bucket[T]
	array []T
}

// Stack is a LIFO store of free elements kept in a chain of fixed-size
// buckets. New buckets come from the ArrayProducer when the head fills up,
// so the growth curve is decided by the producer, not the stack. Every
// mutation consults the installed RetentionPolicy.
//
// Stack is not safe for unsynchronized concurrent use. Callers that share a
// stack across goroutines must serialize every method behind Locker,
// which is also the mutex a timed policy's disposer acquires.
type Stack[T any] struct {
	producer ArrayProducer[T]
	policy   RetentionPolicy

	head        *bucket[T]
	cursor      int // index of the next free slot in head
	bucketCount int

	mu sync.Mutex
}

// NewStack creates a stack that draws bucket arrays from producer and
// retains elements according to policy. The policy is installed before the
// stack is returned.
func NewStack[T any](producer ArrayProducer[T], policy RetentionPolicy) (*Stack[T], error) {
	if producer == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "array producer is nil")
	}
	if policy == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "retention policy is nil")
	}

	s := &Stack[T]{producer: producer, policy: policy}
	s.head = &bucket[T]{array: producer(s.bucketCount)}
	s.bucketCount++

	policy.Install(s)
	return s, nil
}

// Locker returns the mutex that serializes access to the stack. Stack
// methods do not acquire it themselves; the facade and the disposer do.
func (s *Stack[T]) Locker() sync.Locker {
	return &s.mu
}

// IsEmpty reports whether the stack holds no elements.
func (s *Stack[T]) IsEmpty() bool {
	return s.cursor == 0 && s.head.prev == nil
}

// Size returns the number of elements in the stack. Cost is linear in the
// number of buckets, not elements.
func (s *Stack[T]) Size() int {
	size := s.cursor
	for b := s.head.prev; b != nil; b = b.prev {
		size += len(b.array)
	}
	return size
}

// Push stores element on the stack. When the retention policy rejects it,
// the element is silently dropped; the only observable effect is that Size
// does not change.
func (s *Stack[T]) Push(element T) {
	if !s.policy.CanPush() {
		return
	}

	if s.cursor == len(s.head.array) {
		s.grow()
	}

	s.head.array[s.cursor] = element
	s.cursor++

	s.policy.OnPush()
}

// PushN stores up to n elements from buf onto the stack, in buf order. The
// retention policy is asked once how many elements may be admitted, and
// notified once with the number actually stored.
func (s *Stack[T]) PushN(buf []T, n int) {
	if n > len(buf) {
		n = len(buf)
	}
	n = s.policy.CanPushN(n)

	pushed := 0
	for pushed < n {
		if s.cursor == len(s.head.array) {
			s.grow()
		}
		for s.cursor < len(s.head.array) && pushed < n {
			s.head.array[s.cursor] = buf[pushed]
			s.cursor++
			pushed++
		}
	}

	if pushed > 0 {
		s.policy.OnPushN(pushed)
	}
}

// Pop removes and returns the most recently pushed element. It returns
// ErrEmpty when the stack holds nothing.
func (s *Stack[T]) Pop() (T, error) {
	var zero T

	// discard the head bucket if it is spent
	if s.cursor == 0 {
		if s.head.prev == nil {
			return zero, ErrEmpty
		}
		s.shrink()
	}

	s.cursor--
	element := s.head.array[s.cursor]
	s.head.array[s.cursor] = zero // release the reference

	s.policy.OnPop()
	return element, nil
}

// PopN pops up to min(n, len(buf)) elements into buf and returns how many
// were popped. Elements land in the same order sequential Pop calls would
// yield them: most recently pushed first. The retention policy is notified
// once with the total.
func (s *Stack[T]) PopN(buf []T, n int) int {
	if n > len(buf) {
		n = len(buf)
	}
	var zero T
	index := 0

	for n > 0 && (s.cursor != 0 || s.head.prev != nil) {
		if s.cursor == 0 {
			s.shrink()
		}

		if n >= s.cursor && s.head.prev != nil {
			// The whole bucket drains: block-copy its live slots, flip them
			// into pop order, and drop the bucket instead of clearing slot
			// by slot.
			m := s.cursor
			copy(buf[index:index+m], s.head.array[:m])
			reverse(buf[index : index+m])
			index += m
			n -= m
			s.shrink()
		} else {
			m := s.cursor
			if n < m {
				m = n
			}
			for i := 0; i < m; i++ {
				s.cursor--
				buf[index] = s.head.array[s.cursor]
				s.head.array[s.cursor] = zero
				index++
			}
			n -= m
		}
	}

	if index > 0 {
		s.policy.OnPopN(index)
	}
	return index
}

// Remove evicts up to n elements without returning them. The retention
// policy is not notified: removal is an eviction primitive used by policies
// themselves, not a retention event.
func (s *Stack[T]) Remove(n int) {
	var zero T

	for n > 0 && (s.cursor != 0 || s.head.prev != nil) {
		if s.cursor == 0 {
			s.shrink()
		}

		if n >= s.cursor && s.head.prev != nil {
			// drop the bucket wholesale
			n -= s.cursor
			s.shrink()
		} else {
			m := s.cursor
			if n < m {
				m = n
			}
			for i := 0; i < m; i++ {
				s.cursor--
				s.head.array[s.cursor] = zero
			}
			n -= m
		}
	}
}

// Clear removes all elements and collapses the chain back to a single empty
// bucket. The retention policy's OnClear fires exactly once, and only when
// the stack held anything.
func (s *Stack[T]) Clear() {
	didClear := !s.IsEmpty()
	var zero T

	for s.cursor != 0 || s.head.prev != nil {
		if s.head.prev != nil {
			s.shrink()
		} else {
			for i := 0; i < s.cursor; i++ {
				s.head.array[i] = zero
			}
			s.cursor = 0
		}
	}

	if didClear {
		s.policy.OnClear()
	}
}

// SetRetentionPolicy swaps the installed policy: the current policy is
// uninstalled, then the new one installed. Exactly one policy is active at a
// time.
func (s *Stack[T]) SetRetentionPolicy(policy RetentionPolicy) error {
	if policy == nil {
		return errors.New(errors.ErrorTypeValidation, "retention policy is nil")
	}
	s.policy.Uninstall()
	s.policy = policy
	policy.Install(s)
	return nil
}

// BucketCount returns the number of live buckets in the chain.
func (s *Stack[T]) BucketCount() int {
	return s.bucketCount
}

// grow links a fresh bucket in front of the current head.
func (s *Stack[T]) grow() {
	s.head = &bucket[T]{prev: s.head, array: s.producer(s.bucketCount)}
	s.bucketCount++
	s.cursor = 0
}

// shrink discards the head bucket and steps back to the previous one, which
// is full by construction.
func (s *Stack[T]) shrink() {
	s.head = s.head.prev
	s.cursor = len(s.head.array)
	s.bucketCount--
}

func reverse[T any](xs []T) {
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
}
