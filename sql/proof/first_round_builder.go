package proof

// FirstRoundBuilder accumulates the prover's first-pass bookkeeping: how many
// post-result challenges the plan will need and which output lengths it
// declares as chi evaluations. Nothing is committed at this stage; the
// builder's contents become the first prover message, fixing the outputs
// before any challenge is drawn.
type FirstRoundBuilder struct {
	postResultChallenges int
	chiEvaluationLengths []int
	rangeLength          int
}

// NewFirstRoundBuilder starts a first-round pass over a domain of at least
// initialRangeLength rows.
func NewFirstRoundBuilder(initialRangeLength int) *FirstRoundBuilder {
	return &FirstRoundBuilder{rangeLength: initialRangeLength}
}

// RequestPostResultChallenges registers that the plan needs n more challenges
// drawn after the first-round outputs are bound to the transcript.
func (b *FirstRoundBuilder) RequestPostResultChallenges(n int) {
	b.postResultChallenges += n
}

// PostResultChallengeCount returns the total requested challenge count.
func (b *FirstRoundBuilder) PostResultChallengeCount() int {
	return b.postResultChallenges
}

// ProduceChiEvaluationLength declares a new domain length (typically an
// output row count) whose chi evaluation the verifier will need.
func (b *FirstRoundBuilder) ProduceChiEvaluationLength(length int) {
	b.chiEvaluationLengths = append(b.chiEvaluationLengths, length)
	b.rangeLength = max(b.rangeLength, length)
}

// ChiEvaluationLengths returns the declared lengths in emission order.
func (b *FirstRoundBuilder) ChiEvaluationLengths() []int {
	return b.chiEvaluationLengths
}

// UpdateRangeLength widens the sumcheck domain to cover length rows.
func (b *FirstRoundBuilder) UpdateRangeLength(length int) {
	b.rangeLength = max(b.rangeLength, length)
}

// RangeLength returns the sumcheck domain size before power-of-two padding.
func (b *FirstRoundBuilder) RangeLength() int {
	return b.rangeLength
}
