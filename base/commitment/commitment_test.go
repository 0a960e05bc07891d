package commitment

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/verisql/verisql/base/scalar"
)

var testSetup *PublicSetup

func init() {
	s, err := NewPublicSetup(64)
	if err != nil {
		panic(err)
	}
	testSetup = s
}

func commitScalars(t *testing.T, vals []fr.Element) Commitment {
	t.Helper()
	comms, err := CommitColumns([]CommittableColumn{MakeCommittableScalars(vals)}, 0, testSetup)
	require.NoError(t, err)
	return comms[0]
}

func TestHomomorphicAdd(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	genVec := gen.SliceOfN(4, gen.UInt64().Map(scalar.FromUint64))

	properties.Property("commit(a) + commit(b) == commit(a+b)", prop.ForAll(
		func(a, b []fr.Element) bool {
			sum := make([]fr.Element, len(a))
			for i := range sum {
				sum[i].Add(&a[i], &b[i])
			}
			ca := commitScalars(t, a)
			cb := commitScalars(t, b)
			return ca.Add(cb).Equal(commitScalars(t, sum))
		},
		genVec, genVec,
	))

	properties.TestingRun(t)
}

func TestScalarMulMatchesRepeatedAdd(t *testing.T) {
	assert := require.New(t)
	c := commitScalars(t, []fr.Element{scalar.FromUint64(5), scalar.FromUint64(11)})
	three := scalar.FromUint64(3)
	assert.True(c.ScalarMul(&three).Equal(c.Add(c).Add(c)))
}

func TestSubCancels(t *testing.T) {
	assert := require.New(t)
	c := commitScalars(t, []fr.Element{scalar.FromUint64(9)})
	assert.True(c.Sub(c).IsZero())
	assert.False(c.IsZero())
}

func TestSerializationRoundTrip(t *testing.T) {
	assert := require.New(t)

	c := commitScalars(t, []fr.Element{scalar.FromUint64(123), scalar.FromUint64(456)})
	data, err := c.MarshalBinary()
	assert.NoError(err)
	assert.Len(data, bn254.SizeOfG1AffineCompressed)

	var back Commitment
	assert.NoError(back.UnmarshalBinary(data))
	assert.True(c.Equal(back))
}

func TestSerializationIdentity(t *testing.T) {
	assert := require.New(t)
	var zero Commitment
	data, err := zero.MarshalBinary()
	assert.NoError(err)

	var back Commitment
	assert.NoError(back.UnmarshalBinary(data))
	assert.True(back.IsZero())
}

func TestUnmarshalRejectsBadLength(t *testing.T) {
	assert := require.New(t)
	var c Commitment
	assert.Error(c.UnmarshalBinary([]byte{1, 2, 3}))
}

func TestFoldCommitments(t *testing.T) {
	assert := require.New(t)
	a := []fr.Element{scalar.FromUint64(3), scalar.FromUint64(4)}
	b := []fr.Element{scalar.FromUint64(5), scalar.FromUint64(6)}
	ca := commitScalars(t, a)
	cb := commitScalars(t, b)
	gamma := scalar.FromUint64(7)

	// fold the scalars the same way and commit
	folded := make([]fr.Element, 2)
	for i := range folded {
		var tmp fr.Element
		tmp.Mul(&gamma, &b[i])
		folded[i].Add(&a[i], &tmp)
	}
	want := commitScalars(t, folded)
	got := FoldCommitments([]Commitment{ca, cb}, &gamma)
	assert.True(got.Equal(want))
}

func TestSetupGeneratorsBounds(t *testing.T) {
	assert := require.New(t)
	_, err := testSetup.Generators(0, 64)
	assert.NoError(err)
	_, err = testSetup.Generators(60, 8)
	assert.Error(err)
	_, err = testSetup.Generators(-1, 2)
	assert.Error(err)
}

func TestSetupIsDeterministic(t *testing.T) {
	assert := require.New(t)
	other, err := NewPublicSetup(8)
	assert.NoError(err)
	a, _ := testSetup.Generators(0, 8)
	b, _ := other.Generators(0, 8)
	assert.Equal(a, b)
}

func TestCommitmentMatchesDirectMSM(t *testing.T) {
	assert := require.New(t)
	vals := []fr.Element{scalar.FromUint64(2), scalar.FromUint64(3), scalar.FromUint64(5)}
	gens, err := testSetup.Generators(0, 3)
	assert.NoError(err)
	var expected bn254.G1Affine
	_, err = expected.MultiExp(gens, vals, ecc.MultiExpConfig{})
	assert.NoError(err)
	assert.True(commitScalars(t, vals).Equal(FromAffine(expected)))
}
