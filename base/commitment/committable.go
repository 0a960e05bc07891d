package commitment

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verisql/verisql/base/arena"
	"github.com/verisql/verisql/base/database"
)

// CommittableColumn is a type-erased view of a column carrying exactly the
// scalar encoding needed to commit to it. Strings are represented by their
// scalar hashes, never their raw bytes.
type CommittableColumn struct {
	Type   database.ColumnType
	Values []fr.Element
}

// MakeCommittable encodes a round column into its committable form. The
// returned values are heap-owned; commitments outlive the round that
// produced the column.
func MakeCommittable(col database.Column) CommittableColumn {
	a := arena.New()
	encoded := col.ToScalars(a)
	values := make([]fr.Element, len(encoded))
	copy(values, encoded)
	return CommittableColumn{Type: col.Type(), Values: values}
}

// MakeCommittableScalars wraps a raw scalar slice, as used for intermediate
// witness columns that have no semantic column type.
func MakeCommittableScalars(values []fr.Element) CommittableColumn {
	return CommittableColumn{Type: database.ScalarType(), Values: values}
}

// Len returns the number of rows.
func (c CommittableColumn) Len() int { return len(c.Values) }
