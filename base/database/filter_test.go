package database

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/verisql/verisql/base/arena"
	"github.com/verisql/verisql/base/scalar"
)

func frSlice(vals ...uint64) []fr.Element {
	out := make([]fr.Element, len(vals))
	for i, v := range vals {
		out[i] = scalar.FromUint64(v)
	}
	return out
}

func TestSelectionBitSet(t *testing.T) {
	assert := require.New(t)
	sel := SelectionBitSet([]bool{true, false, true, true, false})
	assert.Equal(uint(3), sel.Count())
	assert.True(sel.Test(0))
	assert.False(sel.Test(1))
	assert.True(sel.Test(3))
}

func TestFilterColumnsPreservesOrder(t *testing.T) {
	assert := require.New(t)
	a := arena.New()

	cols := []Column{
		NewIntegerColumn(BigIntType(), []int64{10, 20, 30, 20, 50}),
		NewBooleanColumn([]bool{true, true, false, false, true}),
		NewVarCharColumn([]string{"a", "b", "c", "b", "e"}),
		NewScalarColumn(frSlice(1, 2, 3, 4, 5)),
	}
	sel := SelectionBitSet([]bool{true, false, false, true, true})

	out, m := FilterColumns(a, cols, sel)
	assert.Equal(3, m)
	assert.Equal([]int64{10, 20, 50}, out[0].Ints())

	bools, ok := out[1].AsBoolean()
	assert.True(ok)
	assert.Equal([]bool{true, false, true}, bools)

	assert.Equal([]string{"a", "b", "e"}, out[2].Strings())
	assert.Equal(frSlice(1, 4, 5), out[3].Scalars())
}

func TestFilterColumnsEmptySelection(t *testing.T) {
	assert := require.New(t)
	a := arena.New()
	cols := []Column{NewIntegerColumn(IntType(), []int64{1, 2, 3})}
	out, m := FilterColumns(a, cols, SelectionBitSet([]bool{false, false, false}))
	assert.Equal(0, m)
	assert.Equal(0, out[0].Len())
}

func TestToOwnedDeepCopies(t *testing.T) {
	assert := require.New(t)
	backing := []int64{1, 2, 3}
	owned := ToOwned(NewIntegerColumn(BigIntType(), backing))
	backing[0] = 99
	assert.Empty(cmp.Diff([]int64{1, 2, 3}, owned.Ints))
}

func TestToScalarsEncodings(t *testing.T) {
	assert := require.New(t)
	a := arena.New()

	bools := NewBooleanColumn([]bool{true, false}).ToScalars(a)
	assert.Equal(frSlice(1, 0), bools)

	ints := NewIntegerColumn(BigIntType(), []int64{-1}).ToScalars(a)
	var minusOne fr.Element
	minusOne.SetInt64(-1)
	assert.Equal(minusOne, ints[0])

	strs := NewVarCharColumn([]string{"abc"}).ToScalars(a)
	assert.Equal(scalar.HashBytes([]byte("abc")), strs[0])

	raw := frSlice(7)
	assert.Equal(raw, NewScalarColumn(raw).ToScalars(a))
}
