package commitment

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/verisql/verisql/base/database"
	"github.com/verisql/verisql/base/scalar"
)

func TestBackendsAgree(t *testing.T) {
	assert := require.New(t)

	columns := []CommittableColumn{
		MakeCommittable(database.NewIntegerColumn(database.BigIntType(), []int64{1, -2, 3, 0, 5})),
		MakeCommittable(database.NewBooleanColumn([]bool{true, false, true})),
		MakeCommittable(database.NewVarCharColumn([]string{"x", "y"})),
		MakeCommittableScalars([]fr.Element{scalar.FromUint64(7), {}, scalar.FromInt64(-9)}),
		MakeCommittableScalars(nil),
	}

	for _, offset := range []int{0, 3} {
		naive, err := NaiveBackend{}.ComputeCommitments(columns, offset, testSetup)
		assert.NoError(err)
		msm, err := MultiExpBackend{}.ComputeCommitments(columns, offset, testSetup)
		assert.NoError(err)
		assert.Len(msm, len(naive))
		for i := range naive {
			assert.True(naive[i].Equal(msm[i]), "backend mismatch at column %d offset %d", i, offset)
		}
	}
}

func TestOffsetShiftsGenerators(t *testing.T) {
	assert := require.New(t)
	col := []CommittableColumn{MakeCommittableScalars([]fr.Element{scalar.FromUint64(4)})}
	at0, err := CommitColumns(col, 0, testSetup)
	assert.NoError(err)
	at1, err := CommitColumns(col, 1, testSetup)
	assert.NoError(err)
	assert.False(at0[0].Equal(at1[0]))
}

func TestSetupTooSmall(t *testing.T) {
	assert := require.New(t)
	small, err := NewPublicSetup(2)
	assert.NoError(err)
	col := []CommittableColumn{MakeCommittableScalars(make([]fr.Element, 5))}
	_, err = CommitColumns(col, 0, small)
	assert.Error(err)
}

func TestMakeCommittableCopies(t *testing.T) {
	assert := require.New(t)
	backing := []int64{1, 2}
	cc := MakeCommittable(database.NewIntegerColumn(database.BigIntType(), backing))
	backing[0] = 50
	assert.Equal(scalar.FromUint64(1), cc.Values[0])
	assert.Equal(database.BigIntType(), cc.Type)
}
