package transcript

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

func TestDeterministicChallenges(t *testing.T) {
	assert := require.New(t)

	run := func() fr.Element {
		tr := New("test")
		tr.AppendBytes("data", []byte{1, 2, 3})
		tr.AppendUint64("count", 42)
		var e fr.Element
		e.SetUint64(9)
		tr.AppendScalar("scalar", &e)
		return tr.ChallengeScalar("challenge")
	}

	a := run()
	b := run()
	assert.True(a.Equal(&b))
}

func TestChallengeDependsOnEveryAppend(t *testing.T) {
	assert := require.New(t)

	base := New("test")
	base.AppendBytes("data", []byte{1, 2, 3})
	want := base.ChallengeScalar("challenge")

	// skipping an append must change the challenge
	skipped := New("test")
	got := skipped.ChallengeScalar("challenge")
	assert.False(want.Equal(&got))

	// different payload must change the challenge
	altered := New("test")
	altered.AppendBytes("data", []byte{1, 2, 4})
	got = altered.ChallengeScalar("challenge")
	assert.False(want.Equal(&got))

	// different label must change the challenge
	relabeled := New("test")
	relabeled.AppendBytes("other", []byte{1, 2, 3})
	got = relabeled.ChallengeScalar("challenge")
	assert.False(want.Equal(&got))
}

func TestChallengeAdvancesState(t *testing.T) {
	assert := require.New(t)
	tr := New("test")
	a := tr.ChallengeScalar("challenge")
	b := tr.ChallengeScalar("challenge")
	assert.False(a.Equal(&b))
}

func TestChallengeScalars(t *testing.T) {
	assert := require.New(t)
	tr := New("test")
	out := tr.ChallengeScalars("c", 3)
	assert.Len(out, 3)
	assert.False(out[0].Equal(&out[1]))

	assert.Empty(tr.ChallengeScalars("c", 0))
}

func TestExtractBytesLength(t *testing.T) {
	assert := require.New(t)
	tr := New("test")
	b := tr.ExtractBytes("hash", 32)
	assert.Len(b, 32)
}

func TestAppendScalarsOrderMatters(t *testing.T) {
	assert := require.New(t)
	var x, y fr.Element
	x.SetUint64(1)
	y.SetUint64(2)

	t1 := New("test")
	t1.AppendScalars("s", []fr.Element{x, y})
	a := t1.ChallengeScalar("c")

	t2 := New("test")
	t2.AppendScalars("s", []fr.Element{y, x})
	b := t2.ChallengeScalar("c")

	assert.False(a.Equal(&b))
}
