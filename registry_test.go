package flagmask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/flagmask/testutil"
)

func TestFlag_Idempotent(t *testing.T) {
	fm, err := New(4)
	require.NoError(t, err)

	a, err := fm.Flag("sea")
	require.NoError(t, err)
	b, err := fm.Flag("sea")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, 1, fm.Len())
}

func TestRegister_Strict(t *testing.T) {
	fm, err := New(4)
	require.NoError(t, err)

	sea, err := fm.Register("sea")
	require.NoError(t, err)
	assert.Equal(t, Mask(1), sea)

	_, err = fm.Register("sea")
	require.ErrorIs(t, err, ErrFlagExists)

	// The failed registration did not allocate anything.
	river, err := fm.Register("river")
	require.NoError(t, err)
	assert.Equal(t, Mask(2), river)
}

func TestRegister_FirstFitReuse(t *testing.T) {
	fm, err := New(4)
	require.NoError(t, err)

	for i, name := range []string{"a", "b", "c", "d"} {
		m, err := fm.Flag(name)
		require.NoError(t, err)
		assert.Equal(t, Mask(1)<<i, m)
	}

	fm.Remove("b")
	fm.Remove("d")

	e, err := fm.Flag("e")
	require.NoError(t, err)
	assert.Equal(t, Mask(1)<<1, e, "lowest freed position is reused first")

	f, err := fm.Flag("f")
	require.NoError(t, err)
	assert.Equal(t, Mask(1)<<3, f)

	g, err := fm.Flag("g")
	require.NoError(t, err)
	assert.Equal(t, Mask(1)<<4, g)
}

func TestRegister_WidthProgression(t *testing.T) {
	fm, err := New(3)
	require.NoError(t, err)

	want := map[int]Width{1: Width8, 8: Width8, 9: Width16, 16: Width16, 17: Width32, 32: Width32, 33: Width64, 64: Width64}
	for i, name := range testutil.FlagNames("f", 64) {
		mask, err := fm.Flag(name)
		require.NoError(t, err)
		assert.Equal(t, Mask(1)<<i, mask)
		if w, ok := want[i+1]; ok {
			assert.Equal(t, w, fm.Width(), "after %d flags", i+1)
		}
	}
}

func TestPromotion_PreservesValues(t *testing.T) {
	rng := testutil.NewRNG(4711)
	fm, err := New(200)
	require.NoError(t, err)

	names := testutil.FlagNames("f", 8)
	for _, name := range names {
		mask := fm.MustFlag(name)
		require.NoError(t, fm.Set(mask, rng.SampleIDs(200, 70)...))
	}
	require.Equal(t, Width8, fm.Width())

	before := make([]Mask, fm.Size())
	for id := range before {
		before[id], _ = fm.Value(id)
	}

	ninth, err := fm.Flag("ninth")
	require.NoError(t, err)
	assert.Equal(t, Mask(1)<<8, ninth)
	assert.Equal(t, Width16, fm.Width())

	for id, v := range before {
		got, err := fm.Value(id)
		require.NoError(t, err)
		assert.Equal(t, v, got, "entity %d", id)
	}

	// The new bit is usable after promotion.
	require.NoError(t, fm.Set(ninth, 7))
	assert.True(t, fm.Has(ninth)(7))
	got, _ := fm.Value(7)
	assert.Equal(t, before[7]|ninth, got)
}

func TestRegister_CapacityExceeded(t *testing.T) {
	fm, err := New(5)
	require.NoError(t, err)

	for _, name := range testutil.FlagNames("f", MaxFlags) {
		fm.MustFlag(name)
	}
	last := fm.MustFlag("f63")
	assert.Equal(t, Mask(1)<<63, last)

	require.NoError(t, fm.Set(last|1, 2))
	namesBefore := fm.Names()

	_, err = fm.Flag("overflow")
	require.ErrorIs(t, err, ErrCapacityExceeded)
	_, err = fm.Register("overflow")
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Panics(t, func() { fm.MustFlag("overflow") })

	assert.Equal(t, Width64, fm.Width())
	assert.Equal(t, namesBefore, fm.Names())
	assert.Equal(t, MaxFlags, fm.Len())
	_, ok := fm.Lookup("overflow")
	assert.False(t, ok)

	v, err := fm.Value(2)
	require.NoError(t, err)
	assert.Equal(t, last|1, v)
	for i := 0; i < MaxFlags; i++ {
		m, ok := fm.Lookup(testutil.FlagNames("f", MaxFlags)[i])
		require.True(t, ok)
		assert.Equal(t, Mask(1)<<i, m)
	}

	// Freeing a position makes registration possible again.
	fm.Remove("f10")
	m, err := fm.Flag("overflow")
	require.NoError(t, err)
	assert.Equal(t, Mask(1)<<10, m)
}

func TestRemove(t *testing.T) {
	fm, err := New(6)
	require.NoError(t, err)

	red := fm.MustFlag("red")
	blue := fm.MustFlag("blue")
	green := fm.MustFlag("green")
	require.NoError(t, fm.Set(red, 0, 1, 2))
	require.NoError(t, fm.Set(blue, 1, 2, 3))
	require.NoError(t, fm.Set(green, 2, 3, 4))

	hasRed, hasAllBG := fm.Has(red), fm.HasAll(blue|green)
	before := make([][2]bool, fm.Size())
	for id := range before {
		before[id] = [2]bool{hasRed(id), hasAllBG(id)}
	}

	fm.Remove("blue")
	_, ok := fm.Lookup("blue")
	assert.False(t, ok)
	assert.Empty(t, collect(fm.FilterAny(blue)), "blue bit cleared everywhere")

	for id := range before {
		assert.Equal(t, before[id][0], hasRed(id), "red on %d", id)
		assert.True(t, fm.Has(green)(id) == (id >= 2 && id <= 4))
	}

	// Unknown names are a no-op.
	fm.Remove("blue")
	fm.Remove("never")
	assert.Equal(t, []string{"red", "green"}, fm.Names())
}

func TestRemove_WidthNeverShrinks(t *testing.T) {
	fm, err := New(2)
	require.NoError(t, err)

	names := testutil.FlagNames("f", 20)
	for _, name := range names {
		fm.MustFlag(name)
	}
	require.Equal(t, Width32, fm.Width())

	for _, name := range names {
		fm.Remove(name)
	}
	assert.Zero(t, fm.Len())
	assert.Equal(t, Width32, fm.Width())
	assert.Equal(t, Mask(1), fm.MustFlag("again"))
}

func TestMaskAndDescribe(t *testing.T) {
	fm, err := New(2)
	require.NoError(t, err)

	both, err := fm.Mask("sea", "river")
	require.NoError(t, err)
	assert.Equal(t, Mask(0b11), both)

	fm.MustFlag("lake")
	assert.Equal(t, []string{"sea", "river"}, fm.Describe(both))
	assert.Equal(t, []string{"sea", "river", "lake"}, fm.Names())
	assert.Equal(t, []string{"lake"}, fm.Describe(Mask(1)<<2|Mask(1)<<40))
	assert.Empty(t, fm.Describe(0))
}

func TestMask_CapacityError(t *testing.T) {
	fm, err := New(1)
	require.NoError(t, err)
	for _, name := range testutil.FlagNames("f", MaxFlags) {
		fm.MustFlag(name)
	}

	_, err = fm.Mask("f0", "extra")
	require.ErrorIs(t, err, ErrCapacityExceeded)
}
