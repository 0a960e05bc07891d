package sumcheck

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/verisql/verisql/base/scalar"
)

func TestTensorBasisSingleVariable(t *testing.T) {
	assert := require.New(t)
	r := scalar.FromUint64(3)
	basis := TensorBasis([]fr.Element{r})
	assert.Len(basis, 2)

	var oneMinus fr.Element
	one := fr.One()
	oneMinus.Sub(&one, &r)
	assert.Equal(oneMinus, basis[0])
	assert.Equal(r, basis[1])
}

func TestTensorBasisBitOrder(t *testing.T) {
	assert := require.New(t)
	r0 := scalar.FromUint64(5)
	r1 := scalar.FromUint64(9)
	basis := TensorBasis([]fr.Element{r0, r1})
	assert.Len(basis, 4)

	// the first point coordinate governs the top bit of the index
	var want fr.Element
	want.Mul(&r0, &r1)
	assert.Equal(want, basis[3])

	one := fr.One()
	var omr1 fr.Element
	omr1.Sub(&one, &r1)
	want.Mul(&r0, &omr1)
	assert.Equal(want, basis[2])
}

func TestTensorBasisSumsToOne(t *testing.T) {
	assert := require.New(t)
	point := []fr.Element{scalar.FromUint64(11), scalar.FromUint64(22), scalar.FromUint64(33)}
	sum := scalar.Sum(TensorBasis(point))
	assert.True(sum.IsOne())
}

func TestEvaluateMLEOnHypercubePoints(t *testing.T) {
	assert := require.New(t)
	table := []fr.Element{
		scalar.FromUint64(10), scalar.FromUint64(20),
		scalar.FromUint64(30), scalar.FromUint64(40),
	}
	for idx := 0; idx < 4; idx++ {
		point := []fr.Element{
			scalar.FromBool(idx&2 != 0), // top bit first
			scalar.FromBool(idx&1 != 0),
		}
		got := EvaluateMLE(table, TensorBasis(point))
		assert.Equal(table[idx], got, "index %d", idx)
	}
}

func TestEvaluateMLEZeroExtension(t *testing.T) {
	assert := require.New(t)
	short := []fr.Element{scalar.FromUint64(7)}
	padded := []fr.Element{scalar.FromUint64(7), {}, {}, {}}
	basis := TensorBasis([]fr.Element{scalar.FromUint64(3), scalar.FromUint64(5)})
	a := EvaluateMLE(short, basis)
	b := EvaluateMLE(padded, basis)
	assert.True(a.Equal(&b))
}

func TestChiEvaluationMatchesOnesVector(t *testing.T) {
	assert := require.New(t)
	basis := TensorBasis([]fr.Element{scalar.FromUint64(4), scalar.FromUint64(6), scalar.FromUint64(8)})
	one := fr.One()
	for length := 0; length <= 8; length++ {
		ones := make([]fr.Element, length)
		for i := range ones {
			ones[i] = one
		}
		want := EvaluateMLE(ones, basis)
		got := ChiEvaluation(basis, length)
		assert.True(want.Equal(&got), "length %d", length)
	}
}

func TestEqEvaluation(t *testing.T) {
	assert := require.New(t)

	// on boolean points eq is the equality indicator
	z := []fr.Element{fr.One(), {}}
	same := EqEvaluation(z, z)
	assert.True(same.IsOne())
	other := []fr.Element{fr.One(), fr.One()}
	diff := EqEvaluation(z, other)
	assert.True(diff.IsZero())

	// in general eq is the inner product of the two tensor bases
	a := []fr.Element{scalar.FromUint64(3), scalar.FromUint64(7)}
	b := []fr.Element{scalar.FromUint64(2), scalar.FromUint64(9)}
	want := scalar.InnerProduct(TensorBasis(a), TensorBasis(b))
	got := EqEvaluation(a, b)
	assert.True(want.Equal(&got))

	empty := EqEvaluation(nil, nil)
	assert.True(empty.IsOne())
}
