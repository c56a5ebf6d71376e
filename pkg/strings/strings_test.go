package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytesToString(t *testing.T) {
	assert.Equal(t, "", BytesToString(nil))
	assert.Equal(t, "", BytesToString([]byte{}))
	assert.Equal(t, "hello", BytesToString([]byte("hello")))
}

func TestClone(t *testing.T) {
	b := []byte("mutable")
	s := Clone(BytesToString(b))
	b[0] = 'X'
	assert.Equal(t, "mutable", s)
}

func TestBuilder(t *testing.T) {
	b := NewBuilder(16)
	b.WriteString("hello")
	b.WriteString(" world")
	assert.Equal(t, "hello world", b.String())
	assert.Equal(t, 11, b.Len())

	n, err := b.Write([]byte("!"))
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "hello world!", b.String())

	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, "", b.String())
}

func TestGetPutBuilder(t *testing.T) {
	for _, size := range []BuilderSize{Small, Medium, Large} {
		b := GetBuilder(size)
		assert.Equal(t, 0, b.Len())
		b.WriteString("data")
		PutBuilder(b, size)
	}
	PutBuilder(nil, Small) // must not panic
}

func TestConcat(t *testing.T) {
	assert.Equal(t, "", Concat())
	assert.Equal(t, "one", Concat("one"))
	assert.Equal(t, "onetwothree", Concat("one", "two", "three"))
}

func TestSprintf(t *testing.T) {
	assert.Equal(t, "no args", Sprintf("no args"))
	assert.Equal(t, "x=1 y=two", Sprintf("x=%d y=%s", 1, "two"))
}
