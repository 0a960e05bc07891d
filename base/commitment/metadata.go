package commitment

import (
	"fmt"

	"github.com/verisql/verisql/base/database"
)

// MismatchError reports an attempt to combine commitments whose column
// metadata disagrees. Combining such commitments would silently merge
// incompatible tables, so it always fails loudly.
type MismatchError struct {
	Ident  database.Ident
	Reason string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("commitment: column %q metadata mismatch: %s", e.Ident, e.Reason)
}

// ColumnBounds is an inclusive min/max summary of an integer column's values,
// tracked independently of the commitment to detect result overflow.
type ColumnBounds struct {
	Min int64 `cbor:"1,keyasint"`
	Max int64 `cbor:"2,keyasint"`
}

// ColumnCommitmentMetadata is the column type plus an optional bounds
// summary for integer columns.
type ColumnCommitmentMetadata struct {
	Type   database.ColumnType `cbor:"1,keyasint"`
	Bounds *ColumnBounds       `cbor:"2,keyasint,omitempty"`
}

// MetadataFromColumn summarizes a committable column.
func MetadataFromColumn(col database.Column) ColumnCommitmentMetadata {
	meta := ColumnCommitmentMetadata{Type: col.Type()}
	if col.Type().IsInteger() && col.Len() > 0 {
		ints := col.Ints()
		b := ColumnBounds{Min: ints[0], Max: ints[0]}
		for _, v := range ints[1:] {
			b.Min = min(b.Min, v)
			b.Max = max(b.Max, v)
		}
		meta.Bounds = &b
	}
	return meta
}

// TryUnion merges metadata for commitments being added or appended. Types
// must match exactly; bounds widen to cover both inputs.
func (m ColumnCommitmentMetadata) TryUnion(ident database.Ident, other ColumnCommitmentMetadata) (ColumnCommitmentMetadata, error) {
	if m.Type != other.Type {
		return ColumnCommitmentMetadata{}, &MismatchError{
			Ident:  ident,
			Reason: fmt.Sprintf("type %s vs %s", m.Type, other.Type),
		}
	}
	out := ColumnCommitmentMetadata{Type: m.Type}
	if m.Bounds != nil && other.Bounds != nil {
		out.Bounds = &ColumnBounds{
			Min: min(m.Bounds.Min, other.Bounds.Min),
			Max: max(m.Bounds.Max, other.Bounds.Max),
		}
	}
	return out, nil
}

// TryDifference produces metadata for commitments being subtracted. Types
// must match; the value bounds of a difference are unknowable from the two
// summaries, so they are dropped.
func (m ColumnCommitmentMetadata) TryDifference(ident database.Ident, other ColumnCommitmentMetadata) (ColumnCommitmentMetadata, error) {
	if m.Type != other.Type {
		return ColumnCommitmentMetadata{}, &MismatchError{
			Ident:  ident,
			Reason: fmt.Sprintf("type %s vs %s", m.Type, other.Type),
		}
	}
	return ColumnCommitmentMetadata{Type: m.Type}, nil
}
