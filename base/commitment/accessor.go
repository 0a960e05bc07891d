package commitment

import (
	"github.com/verisql/verisql/base/database"
)

// CommitmentAccessor resolves committed base-table state for the verifier:
// per-column commitments plus the table lengths the commitments cover.
type CommitmentAccessor interface {
	TableLength(ref database.TableRef) (int, error)
	Commitment(ref database.ColumnRef) (Commitment, error)
}

type testTable struct {
	ref     database.TableRef
	length  int
	columns []IdentColumn
	comms   ColumnCommitments
}

// TestAccessor backs both the prover and verifier sides with in-memory
// tables, committing to each table as it is added. Intended for tests and
// small deployments where one party holds the plaintext data.
type TestAccessor struct {
	setup  *PublicSetup
	tables []testTable
}

// NewTestAccessor returns an empty accessor committing against setup.
func NewTestAccessor(setup *PublicSetup) *TestAccessor {
	return &TestAccessor{setup: setup}
}

// AddTable commits to the given columns and registers them under ref.
func (a *TestAccessor) AddTable(ref database.TableRef, numRows int, columns []IdentColumn) error {
	comms, err := TryFromColumnsWithOffset(columns, 0, a.setup, MultiExpBackend{})
	if err != nil {
		return err
	}
	a.tables = append(a.tables, testTable{ref: ref, length: numRows, columns: columns, comms: comms})
	return nil
}

func (a *TestAccessor) table(ref database.TableRef) (*testTable, error) {
	for i := range a.tables {
		if a.tables[i].ref == ref {
			return &a.tables[i], nil
		}
	}
	return nil, database.UnresolvedTable(ref)
}

// TableLength implements database.DataAccessor and CommitmentAccessor.
func (a *TestAccessor) TableLength(ref database.TableRef) (int, error) {
	t, err := a.table(ref)
	if err != nil {
		return 0, err
	}
	return t.length, nil
}

// Column implements database.DataAccessor.
func (a *TestAccessor) Column(ref database.ColumnRef) (database.Column, error) {
	t, err := a.table(ref.Table)
	if err != nil {
		return database.Column{}, err
	}
	for _, col := range t.columns {
		if col.Ident == ref.Column && col.Column.Type() == ref.Type {
			return col.Column, nil
		}
	}
	return database.Column{}, database.UnresolvedColumn(ref)
}

// Commitment implements CommitmentAccessor.
func (a *TestAccessor) Commitment(ref database.ColumnRef) (Commitment, error) {
	t, err := a.table(ref.Table)
	if err != nil {
		return Commitment{}, err
	}
	if meta, ok := t.comms.Metadata(ref.Column); !ok || meta.Type != ref.Type {
		return Commitment{}, database.UnresolvedColumn(ref)
	}
	c, _ := t.comms.Commitment(ref.Column)
	return c, nil
}

var _ database.DataAccessor = (*TestAccessor)(nil)
var _ CommitmentAccessor = (*TestAccessor)(nil)
