package proof

import (
	"math"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/verisql/verisql/base/commitment"
	"github.com/verisql/verisql/base/scalar"
)

func TestNumVarsFor(t *testing.T) {
	assert := require.New(t)
	cases := map[int]int{
		0: 0, 1: 0, 2: 1, 3: 2, 4: 2, 5: 3, 8: 3, 9: 4,
		1 << 20:       20,
		1<<20 + 1:     21,
		math.MaxInt64: 63,
	}
	for length, want := range cases {
		assert.Equal(want, numVarsFor(length), "length %d", length)
	}
}

func TestFirstRoundBuilder(t *testing.T) {
	assert := require.New(t)
	b := NewFirstRoundBuilder(10)

	assert.Equal(10, b.RangeLength())
	assert.Zero(b.PostResultChallengeCount())
	assert.Empty(b.ChiEvaluationLengths())

	b.RequestPostResultChallenges(2)
	b.RequestPostResultChallenges(1)
	assert.Equal(3, b.PostResultChallengeCount())

	b.ProduceChiEvaluationLength(4)
	b.ProduceChiEvaluationLength(25)
	assert.Equal([]int{4, 25}, b.ChiEvaluationLengths())
	// a declared length beyond the initial domain widens it
	assert.Equal(25, b.RangeLength())

	b.UpdateRangeLength(7)
	assert.Equal(25, b.RangeLength())
	b.UpdateRangeLength(40)
	assert.Equal(40, b.RangeLength())
}

func TestFinalRoundBuilder(t *testing.T) {
	assert := require.New(t)
	challenges := []fr.Element{scalar.FromUint64(11), scalar.FromUint64(22)}
	b := NewFinalRoundBuilder(challenges)

	assert.Equal(scalar.FromUint64(11), b.ConsumePostResultChallenge())
	assert.Equal(scalar.FromUint64(22), b.ConsumePostResultChallenge())
	assert.Panics(func() { b.ConsumePostResultChallenge() })

	col := []fr.Element{scalar.FromUint64(1)}
	b.ProduceIntermediateMLE(col)
	assert.Len(b.IntermediateMLEs(), 1)

	assert.Equal(1, b.MaxDegree())
	b.ProduceSumcheckSubpolynomial(ZeroSum, []SumcheckSubpolynomialTerm{Term(col, col)})
	assert.Equal(2, b.MaxDegree())
	b.ProduceSumcheckSubpolynomial(Identity, []SumcheckSubpolynomialTerm{Term(col, col), NegTerm(col)})
	assert.Equal(3, b.MaxDegree())
	assert.Len(b.Subpolynomials(), 2)
}

func TestSubpolynomialDegree(t *testing.T) {
	assert := require.New(t)
	col := []fr.Element{scalar.FromUint64(3)}

	zero := SumcheckSubpolynomial{Type: ZeroSum, Terms: []SumcheckSubpolynomialTerm{Term(col)}}
	assert.Equal(1, zero.Degree())

	ident := SumcheckSubpolynomial{Type: Identity, Terms: []SumcheckSubpolynomialTerm{Term(col, col)}}
	assert.Equal(3, ident.Degree())

	empty := SumcheckSubpolynomial{Type: ZeroSum}
	assert.Equal(1, empty.Degree())
}

func TestVerificationBuilderStreams(t *testing.T) {
	assert := require.New(t)
	b := NewVerificationBuilder(
		[]fr.Element{scalar.FromUint64(1), scalar.FromUint64(2), scalar.FromUint64(3)},
		[]commitment.Commitment{{}},
		[]fr.Element{scalar.FromUint64(4)},
		[]fr.Element{scalar.FromUint64(5)},
		nil,
		fr.Element{},
		3,
	)

	e, err := b.TryConsumeFinalRoundMLEEvaluation()
	assert.NoError(err)
	assert.Equal(scalar.FromUint64(1), e)

	rest, err := b.TryConsumeFinalRoundMLEEvaluations(2)
	assert.NoError(err)
	assert.Len(rest, 2)
	_, err = b.TryConsumeFinalRoundMLEEvaluation()
	assert.ErrorIs(err, ErrProtocol)

	_, err = b.TryConsumeWitnessCommitment()
	assert.NoError(err)
	_, err = b.TryConsumeWitnessCommitment()
	assert.ErrorIs(err, ErrProtocol)

	c, err := b.TryConsumePostResultChallenge()
	assert.NoError(err)
	assert.Equal(scalar.FromUint64(4), c)
	_, err = b.TryConsumePostResultChallenge()
	assert.ErrorIs(err, ErrProtocol)

	chi, err := b.TryConsumeChiEvaluation()
	assert.NoError(err)
	assert.Equal(scalar.FromUint64(5), chi)
	_, err = b.TryConsumeChiEvaluation()
	assert.ErrorIs(err, ErrProtocol)

	assert.NoError(b.ConsumedAll())
}

func TestVerificationBuilderAggregate(t *testing.T) {
	assert := require.New(t)
	eq := scalar.FromUint64(7)
	multipliers := []fr.Element{scalar.FromUint64(2), scalar.FromUint64(3)}
	b := NewVerificationBuilder(nil, nil, nil, nil, multipliers, eq, 3)

	// ZeroSum contributes eval * multiplier
	assert.NoError(b.TryProduceSumcheckSubpolynomialEvaluation(ZeroSum, scalar.FromUint64(5), 2))
	// Identity contributes eval * multiplier * eq
	assert.NoError(b.TryProduceSumcheckSubpolynomialEvaluation(Identity, scalar.FromUint64(11), 3))

	// 5*2 + 11*3*7
	want := scalar.FromUint64(241)
	got := b.Aggregate()
	assert.True(want.Equal(&got))
	assert.NoError(b.ConsumedAll())
}

func TestVerificationBuilderRejectsExcessDegree(t *testing.T) {
	assert := require.New(t)
	b := NewVerificationBuilder(nil, nil, nil, nil, []fr.Element{fr.One()}, fr.Element{}, 2)
	err := b.TryProduceSumcheckSubpolynomialEvaluation(Identity, fr.Element{}, 3)
	assert.ErrorIs(err, ErrProtocol)
}

func TestVerificationBuilderRejectsLeftovers(t *testing.T) {
	assert := require.New(t)
	b := NewVerificationBuilder([]fr.Element{fr.One()}, nil, nil, nil, nil, fr.Element{}, 1)
	assert.ErrorIs(b.ConsumedAll(), ErrProtocol)

	b = NewVerificationBuilder(nil, nil, nil, nil, []fr.Element{fr.One()}, fr.Element{}, 1)
	assert.ErrorIs(b.ConsumedAll(), ErrProtocol)
}
