package flagmask

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_OutOfRangeIsAtomic(t *testing.T) {
	tests := []struct {
		name string
		ids  []int
		bad  int
	}{
		{"past end", []int{1, 2, 10}, 10},
		{"negative", []int{-1, 3}, -1},
		{"first valid then far", []int{0, 1 << 20}, 1 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, err := New(10)
			require.NoError(t, err)
			red := fm.MustFlag("red")

			err = fm.Set(red, tt.ids...)
			require.ErrorIs(t, err, ErrOutOfRange)

			var oor *OutOfRangeError
			require.True(t, errors.As(err, &oor))
			assert.Equal(t, tt.bad, oor.ID)
			assert.Equal(t, 10, oor.Size)

			assert.Empty(t, collect(fm.FilterAny(red)), "no entity may be mutated")
		})
	}
}

func TestClear_OutOfRangeIsAtomic(t *testing.T) {
	fm, err := New(4)
	require.NoError(t, err)
	red := fm.MustFlag("red")
	fm.SetAll(red)

	err = fm.Clear(red, 0, 4)
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, []int{0, 1, 2, 3}, collect(fm.FilterAll(red)))

	require.NoError(t, fm.Clear(red, 0, 3))
	assert.Equal(t, []int{1, 2}, collect(fm.FilterAll(red)))
}

func TestSetClear_NoIDs(t *testing.T) {
	fm, err := New(3)
	require.NoError(t, err)
	red := fm.MustFlag("red")

	require.NoError(t, fm.Set(red))
	require.NoError(t, fm.Clear(red))
	assert.Zero(t, fm.CountAny(red))
}

func TestSet_Accumulates(t *testing.T) {
	fm, err := New(3)
	require.NoError(t, err)
	a, b := fm.MustFlag("a"), fm.MustFlag("b")

	require.NoError(t, fm.Set(a, 1))
	require.NoError(t, fm.Set(b, 1, 1))
	require.NoError(t, fm.Set(a|b, 2))
	require.NoError(t, fm.Clear(a, 2))

	v1, err := fm.Value(1)
	require.NoError(t, err)
	assert.Equal(t, a|b, v1)

	v2, err := fm.Value(2)
	require.NoError(t, err)
	assert.Equal(t, b, v2)

	_, err = fm.Value(3)
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.EqualError(t, err, "entity id 3 out of range [0, 3)")
}

func TestSetAllClearAll(t *testing.T) {
	fm, err := New(5)
	require.NoError(t, err)
	a, b := fm.MustFlag("a"), fm.MustFlag("b")

	fm.SetAll(a | b)
	assert.Equal(t, 5, fm.Count(a|b))

	fm.ClearAll(a)
	assert.Zero(t, fm.CountAny(a))
	assert.Equal(t, 5, fm.Count(b))
}

func TestStore_Bit63(t *testing.T) {
	fm, err := New(4, WithInitialWidth(Width64))
	require.NoError(t, err)

	top := Mask(1) << 63
	require.NoError(t, fm.Set(top, 1, 3))
	assert.True(t, fm.Has(top)(1))
	assert.False(t, fm.Has(top)(2))
	assert.Equal(t, []int{1, 3}, collect(fm.FilterAll(top)))

	fm.SetAll(1)
	require.NoError(t, fm.Clear(top, 3))
	v, _ := fm.Value(1)
	assert.Equal(t, top|1, v)
	v, _ = fm.Value(3)
	assert.Equal(t, Mask(1), v)
}
