package database

import (
	"errors"
	"fmt"
)

// ErrUnresolvedRef is returned when an accessor cannot resolve a table or
// column reference. This is a structural error detected before proving.
var ErrUnresolvedRef = errors.New("database: unresolved reference")

// DataAccessor resolves committed base-table data for the prover.
type DataAccessor interface {
	// TableLength returns the row count of the referenced table.
	TableLength(ref TableRef) (int, error)
	// Column returns the referenced column's data. The returned column must
	// match the reference's declared type.
	Column(ref ColumnRef) (Column, error)
}

// UnresolvedTable wraps ErrUnresolvedRef for a missing table.
func UnresolvedTable(ref TableRef) error {
	return fmt.Errorf("%w: table %q", ErrUnresolvedRef, ref)
}

// UnresolvedColumn wraps ErrUnresolvedRef for a missing column.
func UnresolvedColumn(ref ColumnRef) error {
	return fmt.Errorf("%w: column %s", ErrUnresolvedRef, ref)
}
