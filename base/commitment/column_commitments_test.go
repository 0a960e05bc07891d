package commitment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verisql/verisql/base/database"
)

func intColumn(id database.Ident, vals ...int64) IdentColumn {
	return IdentColumn{Ident: id, Column: database.NewIntegerColumn(database.BigIntType(), vals)}
}

func TestTryFromColumnsRejectsDuplicates(t *testing.T) {
	assert := require.New(t)
	_, err := TryFromColumnsWithOffset(
		[]IdentColumn{intColumn("a", 1), intColumn("a", 2)},
		0, testSetup, NaiveBackend{},
	)
	var dup *DuplicateIdentError
	assert.ErrorAs(err, &dup)
	assert.Equal(database.Ident("a"), dup.Ident)
}

func TestAppendRowsMatchesWholeColumn(t *testing.T) {
	assert := require.New(t)

	// commit the first three rows, append two more homomorphically
	cc, err := TryFromColumnsWithOffset([]IdentColumn{intColumn("a", 1, 2, 3)}, 0, testSetup, MultiExpBackend{})
	assert.NoError(err)
	assert.NoError(cc.TryAppendRowsWithOffset([]IdentColumn{intColumn("a", 4, 5)}, 3, testSetup, MultiExpBackend{}))

	whole, err := TryFromColumnsWithOffset([]IdentColumn{intColumn("a", 1, 2, 3, 4, 5)}, 0, testSetup, MultiExpBackend{})
	assert.NoError(err)

	got, _ := cc.Commitment("a")
	want, _ := whole.Commitment("a")
	assert.True(got.Equal(want))

	meta, ok := cc.Metadata("a")
	assert.True(ok)
	assert.Equal(int64(1), meta.Bounds.Min)
	assert.Equal(int64(5), meta.Bounds.Max)
}

func TestAppendRowsRejectsSchemaDrift(t *testing.T) {
	assert := require.New(t)
	cc, err := TryFromColumnsWithOffset([]IdentColumn{intColumn("a", 1)}, 0, testSetup, NaiveBackend{})
	assert.NoError(err)

	// different identifier
	err = cc.TryAppendRowsWithOffset([]IdentColumn{intColumn("b", 2)}, 1, testSetup, NaiveBackend{})
	var mismatch *MismatchError
	assert.ErrorAs(err, &mismatch)

	// different type under the same identifier
	boolCol := IdentColumn{Ident: "a", Column: database.NewBooleanColumn([]bool{true})}
	err = cc.TryAppendRowsWithOffset([]IdentColumn{boolCol}, 1, testSetup, NaiveBackend{})
	assert.ErrorAs(err, &mismatch)
}

func TestExtendColumns(t *testing.T) {
	assert := require.New(t)
	cc, err := TryFromColumnsWithOffset([]IdentColumn{intColumn("a", 1)}, 0, testSetup, NaiveBackend{})
	assert.NoError(err)

	assert.NoError(cc.TryExtendColumnsWithOffset([]IdentColumn{intColumn("b", 2)}, 0, testSetup, NaiveBackend{}))
	assert.Equal(2, cc.Len())
	assert.Equal([]database.Ident{"a", "b"}, cc.Idents())

	err = cc.TryExtendColumnsWithOffset([]IdentColumn{intColumn("a", 3)}, 0, testSetup, NaiveBackend{})
	var dup *DuplicateIdentError
	assert.ErrorAs(err, &dup)
}

func TestAddSubRoundTrip(t *testing.T) {
	assert := require.New(t)
	a, err := TryFromColumnsWithOffset([]IdentColumn{intColumn("x", 1, 2)}, 0, testSetup, MultiExpBackend{})
	assert.NoError(err)
	b, err := TryFromColumnsWithOffset([]IdentColumn{intColumn("x", 10, 20)}, 0, testSetup, MultiExpBackend{})
	assert.NoError(err)

	sum, err := a.TryAdd(b)
	assert.NoError(err)
	back, err := sum.TrySub(b)
	assert.NoError(err)

	ca, _ := a.Commitment("x")
	cb, _ := back.Commitment("x")
	assert.True(ca.Equal(cb))

	// subtraction invalidates bounds
	meta, _ := back.Metadata("x")
	assert.Nil(meta.Bounds)
}

func TestTestAccessor(t *testing.T) {
	assert := require.New(t)
	acc := NewTestAccessor(testSetup)
	ref := database.TableRef("t")
	assert.NoError(acc.AddTable(ref, 2, []IdentColumn{intColumn("a", 7, 8)}))

	n, err := acc.TableLength(ref)
	assert.NoError(err)
	assert.Equal(2, n)

	colRef := database.ColumnRef{Table: ref, Column: "a", Type: database.BigIntType()}
	col, err := acc.Column(colRef)
	assert.NoError(err)
	assert.Equal([]int64{7, 8}, col.Ints())

	_, err = acc.Commitment(colRef)
	assert.NoError(err)

	_, err = acc.TableLength("missing")
	assert.ErrorIs(err, database.ErrUnresolvedRef)
	_, err = acc.Column(database.ColumnRef{Table: ref, Column: "a", Type: database.IntType()})
	assert.ErrorIs(err, database.ErrUnresolvedRef)
}
