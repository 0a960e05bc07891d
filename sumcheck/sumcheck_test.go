package sumcheck

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/verisql/verisql/base/scalar"
	"github.com/verisql/verisql/base/transcript"
)

// sumOverHypercube computes the claimed sum by brute force.
func sumOverHypercube(poly Polynomial) fr.Element {
	size := 1 << poly.NumVars
	var sum, prod fr.Element
	for idx := 0; idx < size; idx++ {
		for _, term := range poly.Terms {
			prod = term.Coeff
			for _, m := range term.Multiplicands {
				if idx < len(m) {
					prod.Mul(&prod, &m[idx])
				} else {
					prod.SetZero()
				}
			}
			sum.Add(&sum, &prod)
		}
	}
	return sum
}

// evaluateAt evaluates the batched polynomial at an arbitrary point via the
// tensor basis.
func evaluateAt(poly Polynomial, point []fr.Element) fr.Element {
	basis := TensorBasis(point)
	var sum, prod, ev fr.Element
	for _, term := range poly.Terms {
		prod = term.Coeff
		for _, m := range term.Multiplicands {
			ev = EvaluateMLE(m, basis)
			prod.Mul(&prod, &ev)
		}
		sum.Add(&sum, &prod)
	}
	return sum
}

func testPolynomial() Polynomial {
	a := []fr.Element{
		scalar.FromUint64(3), scalar.FromInt64(-1), scalar.FromUint64(4), scalar.FromUint64(1),
		scalar.FromUint64(5), scalar.FromUint64(9), scalar.FromUint64(2), scalar.FromUint64(6),
	}
	b := []fr.Element{
		scalar.FromUint64(2), scalar.FromUint64(7), scalar.FromUint64(1), scalar.FromUint64(8),
		scalar.FromUint64(2), scalar.FromUint64(8), scalar.FromUint64(1), scalar.FromInt64(-8),
	}
	// short table exercises zero extension
	c := []fr.Element{scalar.FromUint64(6), scalar.FromUint64(2), scalar.FromUint64(8)}

	return Polynomial{
		NumVars: 3,
		Terms: []Term{
			{Coeff: scalar.FromUint64(5), Multiplicands: [][]fr.Element{a, b}},
			{Coeff: scalar.FromInt64(-2), Multiplicands: [][]fr.Element{c}},
			{Coeff: scalar.FromUint64(1), Multiplicands: [][]fr.Element{a, b, c}},
		},
	}
}

func TestSumcheckRoundTrip(t *testing.T) {
	assert := require.New(t)
	poly := testPolynomial()
	claimed := sumOverHypercube(poly)

	pt := transcript.New("sumcheck_test")
	proof, provePoint := Prove(pt, poly)
	assert.Len(proof.RoundEvaluations, poly.NumVars)
	for _, evals := range proof.RoundEvaluations {
		assert.Len(evals, poly.Degree()+1)
	}

	vt := transcript.New("sumcheck_test")
	point, expected, err := Verify(vt, proof, poly.NumVars, poly.Degree(), claimed)
	assert.NoError(err)
	assert.Equal(provePoint, point)

	direct := evaluateAt(poly, point)
	assert.True(direct.Equal(&expected))
}

func TestSumcheckZeroVariables(t *testing.T) {
	assert := require.New(t)
	poly := Polynomial{
		NumVars: 0,
		Terms: []Term{{
			Coeff:         scalar.FromUint64(4),
			Multiplicands: [][]fr.Element{{scalar.FromUint64(3)}},
		}},
	}

	pt := transcript.New("sumcheck_test")
	proof, point := Prove(pt, poly)
	assert.Empty(proof.RoundEvaluations)
	assert.Empty(point)

	vt := transcript.New("sumcheck_test")
	_, expected, err := Verify(vt, proof, 0, poly.Degree(), scalar.FromUint64(12))
	assert.NoError(err)
	assert.Equal(scalar.FromUint64(12), expected)
}

func TestSumcheckRejectsWrongSum(t *testing.T) {
	assert := require.New(t)
	poly := testPolynomial()
	claimed := sumOverHypercube(poly)
	claimed.Add(&claimed, &claimed)

	pt := transcript.New("sumcheck_test")
	proof, _ := Prove(pt, poly)

	vt := transcript.New("sumcheck_test")
	_, _, err := Verify(vt, proof, poly.NumVars, poly.Degree(), claimed)
	assert.ErrorIs(err, ErrProofRejected)
}

func TestSumcheckRejectsTamperedRound(t *testing.T) {
	assert := require.New(t)
	poly := testPolynomial()
	claimed := sumOverHypercube(poly)

	pt := transcript.New("sumcheck_test")
	proof, _ := Prove(pt, poly)
	one := fr.One()
	proof.RoundEvaluations[1][0].Add(&proof.RoundEvaluations[1][0], &one)

	vt := transcript.New("sumcheck_test")
	_, _, err := Verify(vt, proof, poly.NumVars, poly.Degree(), claimed)
	assert.ErrorIs(err, ErrProofRejected)
}

func TestSumcheckRejectsWrongShape(t *testing.T) {
	assert := require.New(t)
	poly := testPolynomial()
	claimed := sumOverHypercube(poly)

	pt := transcript.New("sumcheck_test")
	proof, _ := Prove(pt, poly)

	vt := transcript.New("sumcheck_test")
	_, _, err := Verify(vt, proof, poly.NumVars+1, poly.Degree(), claimed)
	assert.ErrorIs(err, ErrMalformedProof)

	vt = transcript.New("sumcheck_test")
	_, _, err = Verify(vt, proof, poly.NumVars, poly.Degree()+1, claimed)
	assert.ErrorIs(err, ErrMalformedProof)
}

func TestInterpolateAtNodesAndBeyond(t *testing.T) {
	assert := require.New(t)

	// p(x) = 2x^2 + 3x + 1 sampled at 0, 1, 2
	evals := []fr.Element{scalar.FromUint64(1), scalar.FromUint64(6), scalar.FromUint64(15)}

	for k, want := range evals {
		got := interpolate(evals, scalar.FromUint64(uint64(k)))
		assert.True(want.Equal(&got), "node %d", k)
	}

	// p(5) = 66
	got := interpolate(evals, scalar.FromUint64(5))
	want := scalar.FromUint64(66)
	assert.True(want.Equal(&got))
}
