package recycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetainAll(t *testing.T) {
	assert.True(t, RetainAll.CanPush())
	assert.Equal(t, 7, RetainAll.CanPushN(7))

	stack := newIntStack(t, 4)
	for i := 0; i < 1000; i++ {
		stack.Push(i)
	}
	assert.Equal(t, 1000, stack.Size())
}

func TestRetainNone(t *testing.T) {
	assert.False(t, RetainNone.CanPush())
	assert.Equal(t, 0, RetainNone.CanPushN(7))

	producer, err := ConstantProducer[int](4)
	require.NoError(t, err)
	stack, err := NewStack(producer, RetainNone)
	require.NoError(t, err)

	stack.Push(1)
	stack.PushN([]int{1, 2, 3}, 3)
	assert.True(t, stack.IsEmpty())
}

func TestRetainNone_InstallDrainsStack(t *testing.T) {
	stack := newIntStack(t, 4)
	for i := 0; i < 10; i++ {
		stack.Push(i)
	}

	require.NoError(t, stack.SetRetentionPolicy(RetainNone))
	assert.True(t, stack.IsEmpty())
}

func TestNewRetainMax_InvalidLimit(t *testing.T) {
	_, err := NewRetainMax(0)
	assert.Error(t, err)
	_, err = NewRetainMax(-1)
	assert.Error(t, err)
}

func TestRetainMax_BoundsSize(t *testing.T) {
	policy, err := NewRetainMax(5)
	require.NoError(t, err)
	producer, err := ConstantProducer[int](4)
	require.NoError(t, err)
	stack, err := NewStack(producer, policy)
	require.NoError(t, err)

	// pushing more than the limit caps the size at the limit
	for i := 0; i < 20; i++ {
		stack.Push(i)
	}
	assert.Equal(t, 5, stack.Size())

	// the retained elements are the first ones offered
	for want := 4; want >= 0; want-- {
		element, err := stack.Pop()
		require.NoError(t, err)
		assert.Equal(t, want, element)
	}
}

func TestRetainMax_BulkClamped(t *testing.T) {
	policy, err := NewRetainMax(5)
	require.NoError(t, err)
	producer, err := ConstantProducer[int](4)
	require.NoError(t, err)
	stack, err := NewStack(producer, policy)
	require.NoError(t, err)

	buf := []int{0, 1, 2, 3, 4, 5, 6, 7}
	stack.PushN(buf, 8)
	assert.Equal(t, 5, stack.Size())

	// popping frees capacity for new pushes
	out := make([]int, 3)
	popped := stack.PopN(out, 3)
	require.Equal(t, 3, popped)
	stack.PushN(buf, 8)
	assert.Equal(t, 5, stack.Size())
}

func TestRetainMax_ClearResetsCount(t *testing.T) {
	policy, err := NewRetainMax(3)
	require.NoError(t, err)
	producer, err := ConstantProducer[int](4)
	require.NoError(t, err)
	stack, err := NewStack(producer, policy)
	require.NoError(t, err)

	stack.PushN([]int{1, 2, 3}, 3)
	stack.Clear()

	// a cleared stack accepts a full batch again
	stack.PushN([]int{4, 5, 6}, 3)
	assert.Equal(t, 3, stack.Size())
}

func TestRetainMax_UninstallResetsCount(t *testing.T) {
	policy, err := NewRetainMax(3)
	require.NoError(t, err)
	producer, err := ConstantProducer[int](4)
	require.NoError(t, err)
	stack, err := NewStack(producer, policy)
	require.NoError(t, err)

	stack.PushN([]int{1, 2, 3}, 3)
	require.NoError(t, stack.SetRetentionPolicy(RetainAll))

	// reinstalling the policy starts counting from the stack's drained state
	require.NoError(t, stack.SetRetentionPolicy(RetainNone))
	require.NoError(t, stack.SetRetentionPolicy(policy))
	stack.PushN([]int{4, 5, 6}, 3)
	assert.Equal(t, 3, stack.Size())
}
