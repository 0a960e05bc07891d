package arena

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

func TestScalarsZeroed(t *testing.T) {
	assert := require.New(t)
	a := New()
	s := a.Scalars(100)
	assert.Len(s, 100)
	for i := range s {
		assert.True(s[i].IsZero())
	}
}

func TestDistinctAllocations(t *testing.T) {
	assert := require.New(t)
	a := New()
	x := a.Scalars(10)
	y := a.Scalars(10)
	x[0].SetUint64(7)
	assert.True(y[0].IsZero())

	// full-capacity slices must not bleed into the next allocation
	x = append(x, fr.Element{})
	assert.True(y[0].IsZero())
}

func TestScalarsCopy(t *testing.T) {
	assert := require.New(t)
	a := New()
	src := []fr.Element{{}, {}}
	src[0].SetUint64(3)
	dst := a.ScalarsCopy(src)
	assert.Equal(src, dst)
	dst[0].SetUint64(9)
	var want fr.Element
	want.SetUint64(3)
	assert.Equal(want, src[0])
}

func TestBools(t *testing.T) {
	assert := require.New(t)
	a := New()
	b := a.Bools(8)
	assert.Len(b, 8)
	for _, v := range b {
		assert.False(v)
	}
	assert.Nil(a.Bools(0))
	assert.Nil(a.Scalars(0))
}

func TestResetZeroesAndReuses(t *testing.T) {
	assert := require.New(t)
	a := New()
	s := a.Scalars(50)
	s[7].SetUint64(99)
	b := a.Bools(50)
	b[3] = true

	a.Reset()

	s2 := a.Scalars(50)
	for i := range s2 {
		assert.True(s2[i].IsZero(), "stale scalar at %d", i)
	}
	b2 := a.Bools(50)
	for i := range b2 {
		assert.False(b2[i], "stale bool at %d", i)
	}
}

func TestLargeAllocation(t *testing.T) {
	assert := require.New(t)
	a := New()
	s := a.Scalars(3 * minBlock)
	assert.Len(s, 3*minBlock)
}
