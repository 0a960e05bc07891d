package commitment

import (
	"fmt"

	"github.com/verisql/verisql/base/database"
)

// DuplicateIdentError reports an attempt to create commitments with a
// repeated column identifier.
type DuplicateIdentError struct {
	Ident database.Ident
}

func (e *DuplicateIdentError) Error() string {
	return fmt.Sprintf("commitment: duplicate column identifier %q", e.Ident)
}

// IdentColumn pairs a column with its identifier, preserving caller order.
type IdentColumn struct {
	Ident  database.Ident
	Column database.Column
}

// ColumnCommitments maps column identifiers to (metadata, commitment) pairs,
// in insertion order. Identifiers are unique within one instance; algebraic
// combination requires identical identifier sets and identical per-column
// metadata types.
type ColumnCommitments struct {
	idents      []database.Ident
	metadata    []ColumnCommitmentMetadata
	commitments []Commitment
}

// TryFromColumnsWithOffset commits to the given columns with the given
// generator offset, rejecting duplicate identifiers.
func TryFromColumnsWithOffset(columns []IdentColumn, offset int, setup *PublicSetup, backend Backend) (ColumnCommitments, error) {
	seen := make(map[database.Ident]struct{}, len(columns))
	committable := make([]CommittableColumn, len(columns))
	cc := ColumnCommitments{
		idents:   make([]database.Ident, len(columns)),
		metadata: make([]ColumnCommitmentMetadata, len(columns)),
	}
	for i, col := range columns {
		if _, dup := seen[col.Ident]; dup {
			return ColumnCommitments{}, &DuplicateIdentError{Ident: col.Ident}
		}
		seen[col.Ident] = struct{}{}
		cc.idents[i] = col.Ident
		cc.metadata[i] = MetadataFromColumn(col.Column)
		committable[i] = MakeCommittable(col.Column)
	}
	comms, err := backend.ComputeCommitments(committable, offset, setup)
	if err != nil {
		return ColumnCommitments{}, err
	}
	cc.commitments = comms
	return cc, nil
}

// Len returns the number of columns.
func (cc ColumnCommitments) Len() int { return len(cc.idents) }

// Idents returns the column identifiers in insertion order.
func (cc ColumnCommitments) Idents() []database.Ident { return cc.idents }

// Commitment returns the commitment stored under ident.
func (cc ColumnCommitments) Commitment(ident database.Ident) (Commitment, bool) {
	for i, id := range cc.idents {
		if id == ident {
			return cc.commitments[i], true
		}
	}
	return Commitment{}, false
}

// Metadata returns the metadata stored under ident.
func (cc ColumnCommitments) Metadata(ident database.Ident) (ColumnCommitmentMetadata, bool) {
	for i, id := range cc.idents {
		if id == ident {
			return cc.metadata[i], true
		}
	}
	return ColumnCommitmentMetadata{}, false
}

// TryAppendRowsWithOffset homomorphically appends rows to the existing
// commitments. The offset should be the 0-indexed row number of the first
// new row. Identifier sets and metadata types must line up.
func (cc *ColumnCommitments) TryAppendRowsWithOffset(columns []IdentColumn, offset int, setup *PublicSetup, backend Backend) error {
	other, err := TryFromColumnsWithOffset(columns, offset, setup, backend)
	if err != nil {
		return err
	}
	merged, err := cc.tryCombine(other, ColumnCommitmentMetadata.TryUnion, Commitment.Add)
	if err != nil {
		return err
	}
	*cc = merged
	return nil
}

// TryExtendColumnsWithOffset adds commitments to new columns, rejecting
// identifiers that already exist.
func (cc *ColumnCommitments) TryExtendColumnsWithOffset(columns []IdentColumn, offset int, setup *PublicSetup, backend Backend) error {
	for _, col := range columns {
		if _, exists := cc.Commitment(col.Ident); exists {
			return &DuplicateIdentError{Ident: col.Ident}
		}
	}
	other, err := TryFromColumnsWithOffset(columns, offset, setup, backend)
	if err != nil {
		return err
	}
	cc.idents = append(cc.idents, other.idents...)
	cc.metadata = append(cc.metadata, other.metadata...)
	cc.commitments = append(cc.commitments, other.commitments...)
	return nil
}

// TryAdd adds two commitment sets column by column.
func (cc ColumnCommitments) TryAdd(other ColumnCommitments) (ColumnCommitments, error) {
	return cc.tryCombine(other, ColumnCommitmentMetadata.TryUnion, Commitment.Add)
}

// TrySub subtracts two commitment sets column by column.
func (cc ColumnCommitments) TrySub(other ColumnCommitments) (ColumnCommitments, error) {
	return cc.tryCombine(other, ColumnCommitmentMetadata.TryDifference, Commitment.Sub)
}

func (cc ColumnCommitments) tryCombine(
	other ColumnCommitments,
	combineMeta func(ColumnCommitmentMetadata, database.Ident, ColumnCommitmentMetadata) (ColumnCommitmentMetadata, error),
	combineComm func(Commitment, Commitment) Commitment,
) (ColumnCommitments, error) {
	if len(cc.idents) != len(other.idents) {
		return ColumnCommitments{}, &MismatchError{Reason: fmt.Sprintf("column count %d vs %d", len(cc.idents), len(other.idents))}
	}
	out := ColumnCommitments{
		idents:      append([]database.Ident(nil), cc.idents...),
		metadata:    make([]ColumnCommitmentMetadata, len(cc.idents)),
		commitments: make([]Commitment, len(cc.idents)),
	}
	for i, ident := range cc.idents {
		if other.idents[i] != ident {
			return ColumnCommitments{}, &MismatchError{Ident: ident, Reason: fmt.Sprintf("identifier set differs (%q vs %q)", ident, other.idents[i])}
		}
		meta, err := combineMeta(cc.metadata[i], ident, other.metadata[i])
		if err != nil {
			return ColumnCommitments{}, err
		}
		out.metadata[i] = meta
		out.commitments[i] = combineComm(cc.commitments[i], other.commitments[i])
	}
	return out, nil
}
