package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFifo_PushPopOrder(t *testing.T) {
	f := newFifo[int](nil)
	assert.True(t, f.empty())

	f.push(1)
	f.push(2)
	f.push(3)
	assert.False(t, f.empty())

	v, ok := f.pop()
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = f.pop()
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = f.pop()
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = f.pop()
	assert.False(t, ok)
	assert.True(t, f.empty())
}

func TestFifo_PopEmpty(t *testing.T) {
	f := newFifo[string](nil)
	v, ok := f.pop()
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestFifo_DrainRunsDestructorOnRemainingItems(t *testing.T) {
	var destroyed []int
	f := newFifo[int](func(v int) { destroyed = append(destroyed, v) })

	f.push(10)
	f.push(20)
	f.push(30)

	// One item already consumed normally; drain must only touch what's left.
	v, ok := f.pop()
	assert.True(t, ok)
	assert.Equal(t, 10, v)

	f.drain()

	assert.Equal(t, []int{20, 30}, destroyed)
	assert.True(t, f.empty())
}

func TestFifo_DrainWithNilDestructor(t *testing.T) {
	f := newFifo[int](nil)
	f.push(1)
	assert.NotPanics(t, func() { f.drain() })
	assert.True(t, f.empty())
}
