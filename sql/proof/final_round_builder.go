package proof

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// FinalRoundBuilder accumulates the prover's second-pass artifacts in call
// order: intermediate witness columns to be committed, sumcheck
// subpolynomial constraints, and the post-result challenges being consumed.
// The emission order is the protocol contract; the verifier consumes the
// parallel information in exactly this order.
type FinalRoundBuilder struct {
	mles                 [][]fr.Element
	subpolynomials       []SumcheckSubpolynomial
	postResultChallenges []fr.Element
}

// NewFinalRoundBuilder starts a final-round pass with the post-result
// challenges drawn after the first round was bound to the transcript.
func NewFinalRoundBuilder(postResultChallenges []fr.Element) *FinalRoundBuilder {
	return &FinalRoundBuilder{postResultChallenges: postResultChallenges}
}

// ProduceIntermediateMLE registers a witness column. It will be committed
// and its evaluation claimed at the sumcheck point, in emission order.
func (b *FinalRoundBuilder) ProduceIntermediateMLE(column []fr.Element) {
	b.mles = append(b.mles, column)
}

// ProduceSumcheckSubpolynomial registers one constraint.
func (b *FinalRoundBuilder) ProduceSumcheckSubpolynomial(typ SumcheckSubpolynomialType, terms []SumcheckSubpolynomialTerm) {
	b.subpolynomials = append(b.subpolynomials, SumcheckSubpolynomial{Type: typ, Terms: terms})
}

// ConsumePostResultChallenge pops the next drawn challenge. Consuming more
// challenges than the first round requested is a programming error in the
// plan, not a runtime condition, so it panics.
func (b *FinalRoundBuilder) ConsumePostResultChallenge() fr.Element {
	if len(b.postResultChallenges) == 0 {
		panic("proof: post-result challenges over-consumed; first round requested too few")
	}
	c := b.postResultChallenges[0]
	b.postResultChallenges = b.postResultChallenges[1:]
	return c
}

// IntermediateMLEs returns the witness columns in emission order.
func (b *FinalRoundBuilder) IntermediateMLEs() [][]fr.Element {
	return b.mles
}

// Subpolynomials returns the constraints in emission order.
func (b *FinalRoundBuilder) Subpolynomials() []SumcheckSubpolynomial {
	return b.subpolynomials
}

// MaxDegree returns the degree bound of the batched sumcheck polynomial.
func (b *FinalRoundBuilder) MaxDegree() int {
	d := 1
	for _, s := range b.subpolynomials {
		d = max(d, s.Degree())
	}
	return d
}
