// Package sumcheck implements the multi-round sumcheck argument consumed by
// the proof layer.
//
// The claim is that a weighted sum of products of multilinear tables sums to
// a known value over the boolean hypercube.
// Each round the prover sends the restriction of the running sum to the
// current variable as a low-degree univariate polynomial, the verifier folds
// it at a transcript challenge, and after the last round the verifier is
// left with a single expected evaluation at a random point. Reconciling that
// evaluation against claimed MLE openings is the caller's job.
//
// Variables bind most-significant-bit first: folding variable k pairs table
// entries i and i + size/2.
package sumcheck

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verisql/verisql/base/transcript"
)

// ErrProofRejected is returned when a round polynomial is inconsistent with
// the running claim.
var ErrProofRejected = errors.New("sumcheck: proof rejected")

// ErrMalformedProof is returned when a proof has the wrong shape.
var ErrMalformedProof = errors.New("sumcheck: malformed proof")

// Term is one weighted product of multilinear tables. Tables shorter than
// the hypercube are treated as zero-extended.
type Term struct {
	Coeff         fr.Element
	Multiplicands [][]fr.Element
}

// Polynomial is a batched sum of terms over a 2^NumVars hypercube.
type Polynomial struct {
	NumVars int
	Terms   []Term
}

// Degree returns the per-variable degree bound: the largest number of
// multiplicands in any term.
func (p Polynomial) Degree() int {
	d := 1
	for _, t := range p.Terms {
		d = max(d, len(t.Multiplicands))
	}
	return d
}

// Proof holds one univariate round polynomial per variable, as evaluations
// at 0..degree.
type Proof struct {
	RoundEvaluations [][]fr.Element `cbor:"1,keyasint"`
}

// Prove runs the sumcheck prover, binding every round polynomial to the
// transcript. It returns the proof and the evaluation point fixed by the
// transcript challenges.
func Prove(t *transcript.Transcript, poly Polynomial) (*Proof, []fr.Element) {
	size := 1 << poly.NumVars
	degree := poly.Degree()

	// destructive folding below works on zero-extended copies
	tables := make([][][]fr.Element, len(poly.Terms))
	for ti, term := range poly.Terms {
		tables[ti] = make([][]fr.Element, len(term.Multiplicands))
		for mi, m := range term.Multiplicands {
			ext := make([]fr.Element, size)
			copy(ext, m)
			tables[ti][mi] = ext
		}
	}

	proof := &Proof{RoundEvaluations: make([][]fr.Element, poly.NumVars)}
	point := make([]fr.Element, poly.NumVars)

	for round := 0; round < poly.NumVars; round++ {
		half := size / 2
		evals := make([]fr.Element, degree+1)
		vals := make([]fr.Element, degree+1)
		prods := make([]fr.Element, degree+1)
		var delta, tmp fr.Element

		for ti, term := range poly.Terms {
			for k := range prods {
				prods[k].SetZero()
			}
			for b := 0; b < half; b++ {
				first := true
				for _, tab := range tables[ti] {
					lo := tab[b]
					delta.Sub(&tab[b+half], &lo)
					// restriction of this multiplicand at t = 0..degree
					v := lo
					for k := 0; k <= degree; k++ {
						if first {
							vals[k] = v
						} else {
							vals[k].Mul(&vals[k], &v)
						}
						v.Add(&v, &delta)
					}
					first = false
				}
				if first {
					continue
				}
				for k := 0; k <= degree; k++ {
					prods[k].Add(&prods[k], &vals[k])
				}
			}
			for k := 0; k <= degree; k++ {
				tmp.Mul(&term.Coeff, &prods[k])
				evals[k].Add(&evals[k], &tmp)
			}
		}

		t.AppendScalars("sumcheck_round", evals)
		r := t.ChallengeScalar("sumcheck_challenge")
		point[round] = r
		proof.RoundEvaluations[round] = evals

		for ti := range tables {
			for mi := range tables[ti] {
				tab := tables[ti][mi]
				for b := 0; b < half; b++ {
					delta.Sub(&tab[b+half], &tab[b])
					delta.Mul(&delta, &r)
					tab[b].Add(&tab[b], &delta)
				}
				tables[ti][mi] = tab[:half]
			}
		}
		size = half
	}

	return proof, point
}

// Verify replays the round polynomials against the transcript. It checks the
// claimed sum and round-to-round consistency, and returns the evaluation
// point along with the expected evaluation of the batched polynomial at that
// point. The caller must reconcile that expectation against claimed MLE
// openings.
func Verify(t *transcript.Transcript, proof *Proof, numVars, degree int, claimedSum fr.Element) ([]fr.Element, fr.Element, error) {
	if len(proof.RoundEvaluations) != numVars {
		return nil, fr.Element{}, ErrMalformedProof
	}
	point := make([]fr.Element, numVars)
	expected := claimedSum
	var sum01 fr.Element
	for round := 0; round < numVars; round++ {
		evals := proof.RoundEvaluations[round]
		if len(evals) != degree+1 {
			return nil, fr.Element{}, ErrMalformedProof
		}
		sum01.Add(&evals[0], &evals[1])
		if !sum01.Equal(&expected) {
			return nil, fr.Element{}, ErrProofRejected
		}
		t.AppendScalars("sumcheck_round", evals)
		r := t.ChallengeScalar("sumcheck_challenge")
		point[round] = r
		expected = interpolate(evals, r)
	}
	return point, expected, nil
}

// interpolate evaluates the degree-d polynomial with values evals[0..d] at
// the integer nodes 0..d, at the point r, by Lagrange interpolation.
func interpolate(evals []fr.Element, r fr.Element) fr.Element {
	d := len(evals) - 1

	// if r is one of the nodes the barycentric weights degenerate
	var node fr.Element
	for k := 0; k <= d; k++ {
		node.SetUint64(uint64(k))
		if node.Equal(&r) {
			return evals[k]
		}
	}

	// prefix[k] = prod_{j<k} (r - j), suffix[k] = prod_{j>k} (r - j)
	prefix := make([]fr.Element, d+2)
	suffix := make([]fr.Element, d+2)
	prefix[0] = fr.One()
	suffix[d+1] = fr.One()
	var diff fr.Element
	for k := 0; k <= d; k++ {
		node.SetUint64(uint64(k))
		diff.Sub(&r, &node)
		prefix[k+1].Mul(&prefix[k], &diff)
	}
	for k := d; k >= 0; k-- {
		node.SetUint64(uint64(k))
		diff.Sub(&r, &node)
		suffix[k].Mul(&suffix[k+1], &diff)
	}

	// denominator for node k is k! * (d-k)! with sign (-1)^(d-k)
	fact := make([]fr.Element, d+1)
	fact[0] = fr.One()
	var kf fr.Element
	for k := 1; k <= d; k++ {
		kf.SetUint64(uint64(k))
		fact[k].Mul(&fact[k-1], &kf)
	}

	var result, term, denom fr.Element
	for k := 0; k <= d; k++ {
		denom.Mul(&fact[k], &fact[d-k])
		if (d-k)%2 == 1 {
			denom.Neg(&denom)
		}
		denom.Inverse(&denom)
		term.Mul(&prefix[k], &suffix[k+1])
		term.Mul(&term, &denom)
		term.Mul(&term, &evals[k])
		result.Add(&result, &term)
	}
	return result
}
