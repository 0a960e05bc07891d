package proof

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verisql/verisql/base/commitment"
)

// VerificationBuilder replays the prover's emission order against the proof's
// claimed evaluations. Every Produce* call on the prover side has a matching
// TryConsume* here; running past the end of any stream means the proof does
// not match the plan and is a protocol violation.
type VerificationBuilder struct {
	finalRoundMLEEvals   []fr.Element
	finalRoundCursor     int
	witnessCommitments   []commitment.Commitment
	commitmentCursor     int
	postResultChallenges []fr.Element
	challengeCursor      int
	chiEvaluations       []fr.Element
	chiCursor            int
	multipliers          []fr.Element
	multiplierCursor     int

	eqEval    fr.Element
	maxDegree int
	aggregate fr.Element
}

// NewVerificationBuilder wires the proof's claimed streams to the replay.
// eqEval is eq(z, r) at the sumcheck point, applied to Identity constraints;
// maxDegree bounds the degree any consumed subpolynomial may contribute.
func NewVerificationBuilder(
	finalRoundMLEEvals []fr.Element,
	witnessCommitments []commitment.Commitment,
	postResultChallenges []fr.Element,
	chiEvaluations []fr.Element,
	multipliers []fr.Element,
	eqEval fr.Element,
	maxDegree int,
) *VerificationBuilder {
	return &VerificationBuilder{
		finalRoundMLEEvals:   finalRoundMLEEvals,
		witnessCommitments:   witnessCommitments,
		postResultChallenges: postResultChallenges,
		chiEvaluations:       chiEvaluations,
		multipliers:          multipliers,
		eqEval:               eqEval,
		maxDegree:            maxDegree,
	}
}

// TryConsumeFinalRoundMLEEvaluation pops the next claimed witness evaluation.
func (b *VerificationBuilder) TryConsumeFinalRoundMLEEvaluation() (fr.Element, error) {
	if b.finalRoundCursor >= len(b.finalRoundMLEEvals) {
		return fr.Element{}, protocolErrorf("too few witness evaluations in proof")
	}
	e := b.finalRoundMLEEvals[b.finalRoundCursor]
	b.finalRoundCursor++
	return e, nil
}

// TryConsumeFinalRoundMLEEvaluations pops the next n claimed evaluations.
func (b *VerificationBuilder) TryConsumeFinalRoundMLEEvaluations(n int) ([]fr.Element, error) {
	if b.finalRoundCursor+n > len(b.finalRoundMLEEvals) {
		return nil, protocolErrorf("too few witness evaluations in proof")
	}
	out := b.finalRoundMLEEvals[b.finalRoundCursor : b.finalRoundCursor+n]
	b.finalRoundCursor += n
	return out, nil
}

// TryConsumeWitnessCommitment pops the next witness commitment.
func (b *VerificationBuilder) TryConsumeWitnessCommitment() (commitment.Commitment, error) {
	if b.commitmentCursor >= len(b.witnessCommitments) {
		return commitment.Commitment{}, protocolErrorf("too few witness commitments in proof")
	}
	c := b.witnessCommitments[b.commitmentCursor]
	b.commitmentCursor++
	return c, nil
}

// TryConsumePostResultChallenge pops the next post-result challenge.
func (b *VerificationBuilder) TryConsumePostResultChallenge() (fr.Element, error) {
	if b.challengeCursor >= len(b.postResultChallenges) {
		return fr.Element{}, protocolErrorf("too few post-result challenges in proof")
	}
	c := b.postResultChallenges[b.challengeCursor]
	b.challengeCursor++
	return c, nil
}

// TryConsumeChiEvaluation pops the next output-length chi evaluation together
// with the claimed length it was computed from.
func (b *VerificationBuilder) TryConsumeChiEvaluation() (fr.Element, error) {
	if b.chiCursor >= len(b.chiEvaluations) {
		return fr.Element{}, protocolErrorf("too few chi evaluations in proof")
	}
	e := b.chiEvaluations[b.chiCursor]
	b.chiCursor++
	return e, nil
}

// TryProduceSumcheckSubpolynomialEvaluation folds one constraint's evaluation
// into the running aggregate, mirroring the prover's batching: eval scaled by
// the next batch multiplier, and by eq(z, r) when the constraint is an
// Identity. degree is the constraint's degree bound including the Identity
// factor.
func (b *VerificationBuilder) TryProduceSumcheckSubpolynomialEvaluation(
	typ SumcheckSubpolynomialType,
	eval fr.Element,
	degree int,
) error {
	if degree > b.maxDegree {
		return protocolErrorf("subpolynomial degree %d exceeds proof degree bound %d", degree, b.maxDegree)
	}
	if b.multiplierCursor >= len(b.multipliers) {
		return protocolErrorf("too few subpolynomial multipliers in proof")
	}
	multiplier := b.multipliers[b.multiplierCursor]
	b.multiplierCursor++
	var term fr.Element
	term.Mul(&eval, &multiplier)
	if typ == Identity {
		term.Mul(&term, &b.eqEval)
	}
	b.aggregate.Add(&b.aggregate, &term)
	return nil
}

// Aggregate returns the accumulated batched evaluation, to be compared with
// the sumcheck verifier's expected final evaluation.
func (b *VerificationBuilder) Aggregate() fr.Element {
	return b.aggregate
}

// ConsumedAll reports whether every claimed stream was consumed exactly. A
// leftover claim means the proof carries data the plan never asked for.
func (b *VerificationBuilder) ConsumedAll() error {
	switch {
	case b.finalRoundCursor != len(b.finalRoundMLEEvals):
		return protocolErrorf("%d unconsumed witness evaluations", len(b.finalRoundMLEEvals)-b.finalRoundCursor)
	case b.commitmentCursor != len(b.witnessCommitments):
		return protocolErrorf("%d unconsumed witness commitments", len(b.witnessCommitments)-b.commitmentCursor)
	case b.challengeCursor != len(b.postResultChallenges):
		return protocolErrorf("%d unconsumed post-result challenges", len(b.postResultChallenges)-b.challengeCursor)
	case b.chiCursor != len(b.chiEvaluations):
		return protocolErrorf("%d unconsumed chi evaluations", len(b.chiEvaluations)-b.chiCursor)
	case b.multiplierCursor != len(b.multipliers):
		return protocolErrorf("%d unconsumed subpolynomial multipliers", len(b.multipliers)-b.multiplierCursor)
	}
	return nil
}
