package database

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

var (
	// ErrDuplicateIdent is returned when two columns share one identifier.
	ErrDuplicateIdent = errors.New("database: duplicate column identifier")
	// ErrLengthMismatch is returned when table columns have unequal lengths.
	ErrLengthMismatch = errors.New("database: column length mismatch")
	// ErrValueOutOfRange is returned when a decoded value does not fit the
	// declared integer domain. It does not imply an invalid proof.
	ErrValueOutOfRange = errors.New("database: value out of range for column type")
	// ErrInvalidUTF8 is returned when a decoded string is not valid UTF-8.
	// It does not imply an invalid proof.
	ErrInvalidUTF8 = errors.New("database: invalid utf-8 in varchar column")
)

// Table is an ordered collection of equal-length columns for one round.
// Column data is arena-scoped; a Table must not outlive its round.
type Table struct {
	idents  []Ident
	columns []Column
	numRows int
}

// NewTable builds a table from parallel ident/column slices. All columns must
// have the same length and identifiers must be unique. numRows disambiguates
// the zero-column case.
func NewTable(idents []Ident, columns []Column, numRows int) (Table, error) {
	if len(idents) != len(columns) {
		return Table{}, fmt.Errorf("%w: %d idents, %d columns", ErrLengthMismatch, len(idents), len(columns))
	}
	seen := make(map[Ident]struct{}, len(idents))
	for i, id := range idents {
		if _, dup := seen[id]; dup {
			return Table{}, fmt.Errorf("%w: %q", ErrDuplicateIdent, id)
		}
		seen[id] = struct{}{}
		if columns[i].Len() != numRows {
			return Table{}, fmt.Errorf("%w: column %q has %d rows, want %d", ErrLengthMismatch, id, columns[i].Len(), numRows)
		}
	}
	return Table{idents: idents, columns: columns, numRows: numRows}, nil
}

// NumRows returns the table length.
func (t Table) NumRows() int { return t.numRows }

// NumColumns returns the column count.
func (t Table) NumColumns() int { return len(t.columns) }

// Column returns the column named id.
func (t Table) Column(id Ident) (Column, bool) {
	for i, ident := range t.idents {
		if ident == id {
			return t.columns[i], true
		}
	}
	return Column{}, false
}

// ColumnAt returns the i-th column.
func (t Table) ColumnAt(i int) Column { return t.columns[i] }

// Idents returns the column identifiers in order.
func (t Table) Idents() []Ident { return t.idents }

// OwnedColumn is a heap-owned typed column, used for query results that
// outlive the proving round.
type OwnedColumn struct {
	Type    ColumnType
	Bools   []bool
	Ints    []int64
	Scalars []fr.Element
	Strings []string
}

// Len returns the number of rows.
func (c OwnedColumn) Len() int {
	switch c.Type.Kind {
	case KindBoolean:
		return len(c.Bools)
	case KindScalar, KindDecimal:
		return len(c.Scalars)
	case KindVarChar:
		return len(c.Strings)
	default:
		return len(c.Ints)
	}
}

// View borrows the owned column as a round Column.
func (c OwnedColumn) View() Column {
	switch c.Type.Kind {
	case KindBoolean:
		return NewBooleanColumn(c.Bools)
	case KindScalar:
		return NewScalarColumn(c.Scalars)
	case KindDecimal:
		return NewDecimalColumn(c.Type, c.Scalars)
	case KindVarChar:
		return NewVarCharColumn(c.Strings)
	default:
		return NewIntegerColumn(c.Type, c.Ints)
	}
}

// Validate checks that every value is representable in the declared type.
// A failure here is a decoding error, not a proof failure.
func (c OwnedColumn) Validate() error {
	if c.Type.IsInteger() {
		lo, hi := c.Type.IntegerBounds()
		for _, v := range c.Ints {
			if v < lo || v > hi {
				return fmt.Errorf("%w: %d not in [%d, %d]", ErrValueOutOfRange, v, lo, hi)
			}
		}
	}
	if c.Type.Kind == KindVarChar {
		for _, s := range c.Strings {
			if !utf8.ValidString(s) {
				return ErrInvalidUTF8
			}
		}
	}
	return nil
}

// OwnedTable is a heap-owned result table.
type OwnedTable struct {
	idents  []Ident
	columns []OwnedColumn
}

// NewOwnedTable builds an owned table, checking identifier uniqueness and
// uniform column lengths.
func NewOwnedTable(idents []Ident, columns []OwnedColumn) (OwnedTable, error) {
	if len(idents) != len(columns) {
		return OwnedTable{}, fmt.Errorf("%w: %d idents, %d columns", ErrLengthMismatch, len(idents), len(columns))
	}
	seen := make(map[Ident]struct{}, len(idents))
	for i, id := range idents {
		if _, dup := seen[id]; dup {
			return OwnedTable{}, fmt.Errorf("%w: %q", ErrDuplicateIdent, id)
		}
		seen[id] = struct{}{}
		if i > 0 && columns[i].Len() != columns[0].Len() {
			return OwnedTable{}, fmt.Errorf("%w: column %q", ErrLengthMismatch, id)
		}
	}
	return OwnedTable{idents: idents, columns: columns}, nil
}

// NumRows returns the table length.
func (t OwnedTable) NumRows() int {
	if len(t.columns) == 0 {
		return 0
	}
	return t.columns[0].Len()
}

// NumColumns returns the column count.
func (t OwnedTable) NumColumns() int { return len(t.columns) }

// Idents returns the column identifiers in order.
func (t OwnedTable) Idents() []Ident { return t.idents }

// ColumnAt returns the i-th column.
func (t OwnedTable) ColumnAt(i int) OwnedColumn { return t.columns[i] }

// Validate checks every column for representability.
func (t OwnedTable) Validate() error {
	for i, c := range t.columns {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("column %q: %w", t.idents[i], err)
		}
	}
	return nil
}
