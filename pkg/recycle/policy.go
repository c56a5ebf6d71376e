package recycle

import (
	"sync"

	"github.com/ajitpratap0/recycle/pkg/errors"
)

// Target is the view of a stack that retention policies and disposers
// operate on. Stack[T] implements it for every element type.
type Target interface {
	// Size returns the number of retained elements.
	Size() int
	// Remove evicts up to n elements without returning them.
	Remove(n int)
	// Clear removes all elements.
	Clear()
	// Locker returns the mutex that serializes access to the stack.
	// Stack methods do not acquire it themselves.
	Locker() sync.Locker
}

// RetentionPolicy decides whether elements are kept by a stack and is
// notified of every mutation. A policy is installed on exactly one stack at
// a time; Install and Uninstall are the only points where a policy may start
// or stop background work.
//
// The stack invokes the policy while holding whatever synchronization its
// caller provides; policy implementations do not need their own locking
// unless they share state outside the stack.
type RetentionPolicy interface {
	// CanPush reports whether one more element may be retained.
	CanPush() bool
	// CanPushN returns how many of n elements may be retained, never
	// negative.
	CanPushN(n int) int
	// OnPush and OnPushN are called after elements were stored.
	OnPush()
	OnPushN(n int)
	// OnPop and OnPopN are called after elements were popped.
	OnPop()
	OnPopN(n int)
	// OnClear is called after a non-empty stack was cleared.
	OnClear()
	// Install binds the policy to a stack.
	Install(target Target)
	// Uninstall releases the policy from its stack.
	Uninstall()
}

// basePolicy provides no-op defaults for the optional RetentionPolicy
// callbacks so variants only implement what they track.
type basePolicy struct{}

func (basePolicy) OnPush()        {}
func (basePolicy) OnPushN(int)    {}
func (basePolicy) OnPop()         {}
func (basePolicy) OnPopN(int)     {}
func (basePolicy) OnClear()       {}
func (basePolicy) Install(Target) {}
func (basePolicy) Uninstall()     {}

// retainAll keeps every element offered to the stack.
type retainAll struct{ basePolicy }

func (retainAll) CanPush() bool      { return true }
func (retainAll) CanPushN(n int) int { return n }

// retainNone rejects every element; installing it drains the stack.
type retainNone struct{ basePolicy }

func (retainNone) CanPush() bool    { return false }
func (retainNone) CanPushN(int) int { return 0 }

func (retainNone) Install(target Target) {
	target.Clear()
}

// Shared stateless policy values. Both are immutable and safe to install on
// any number of stacks over their lifetime (one at a time each).
var (
	// RetainAll places no limit on the number of retained elements.
	RetainAll RetentionPolicy = retainAll{}

	// RetainNone retains nothing, which temporarily disables pooling
	// without bypassing the recycler. Installing it clears the stack.
	RetainNone RetentionPolicy = retainNone{}
)

// retainMax bounds the number of retained elements.
type retainMax struct {
	basePolicy
	limit int
	count int
}

// NewRetainMax returns a policy that admits elements while fewer than limit
// are retained. Pushes beyond the limit are silently dropped by the stack.
func NewRetainMax(limit int) (RetentionPolicy, error) {
	if limit < 1 {
		return nil, errors.New(errors.ErrorTypeValidation, "retention limit must be at least 1").
			WithDetail("limit", limit)
	}
	return &retainMax{limit: limit}, nil
}

func (p *retainMax) CanPush() bool {
	return p.count < p.limit
}

func (p *retainMax) CanPushN(n int) int {
	free := p.limit - p.count
	if free < 0 {
		free = 0
	}
	if n < free {
		return n
	}
	return free
}

func (p *retainMax) OnPush()       { p.count++ }
func (p *retainMax) OnPushN(n int) { p.count += n }
func (p *retainMax) OnPop()        { p.count-- }
func (p *retainMax) OnPopN(n int)  { p.count -= n }

// OnClear zeroes the count; the stack no longer holds anything.
func (p *retainMax) OnClear() { p.count = 0 }

func (p *retainMax) Uninstall() { p.count = 0 }
