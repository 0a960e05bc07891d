package database

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verisql/verisql/base/arena"
)

// SelectionBitSet packs a boolean predicate column into a bitset.
func SelectionBitSet(sel []bool) *bitset.BitSet {
	s := bitset.New(uint(len(sel)))
	for i, v := range sel {
		if v {
			s.Set(uint(i))
		}
	}
	return s
}

// FilterColumns copies the rows selected by sel out of each column,
// preserving order and multiplicity. It returns the filtered columns and the
// output row count.
func FilterColumns(a *arena.Arena, columns []Column, sel *bitset.BitSet) ([]Column, int) {
	m := int(sel.Count())
	out := make([]Column, len(columns))
	for k, col := range columns {
		out[k] = filterColumn(a, col, sel, m)
	}
	return out, m
}

func filterColumn(a *arena.Arena, col Column, sel *bitset.BitSet, m int) Column {
	switch col.Type().Kind {
	case KindBoolean:
		vals := a.Bools(m)
		j := 0
		for i, ok := sel.NextSet(0); ok; i, ok = sel.NextSet(i + 1) {
			vals[j] = col.bools[i]
			j++
		}
		return NewBooleanColumn(vals)
	case KindScalar, KindDecimal:
		vals := a.Scalars(m)
		j := 0
		for i, ok := sel.NextSet(0); ok; i, ok = sel.NextSet(i + 1) {
			vals[j] = col.scalars[i]
			j++
		}
		return Column{typ: col.typ, scalars: vals}
	case KindVarChar:
		vals := make([]string, m)
		j := 0
		for i, ok := sel.NextSet(0); ok; i, ok = sel.NextSet(i + 1) {
			vals[j] = col.strs[i]
			j++
		}
		return NewVarCharColumn(vals)
	default:
		vals := make([]int64, m)
		j := 0
		for i, ok := sel.NextSet(0); ok; i, ok = sel.NextSet(i + 1) {
			vals[j] = col.ints[i]
			j++
		}
		return Column{typ: col.typ, ints: vals}
	}
}

// ToOwned deep-copies a round column into a heap-owned column.
func ToOwned(col Column) OwnedColumn {
	out := OwnedColumn{Type: col.Type()}
	switch col.Type().Kind {
	case KindBoolean:
		out.Bools = append([]bool(nil), col.bools...)
	case KindScalar, KindDecimal:
		out.Scalars = append([]fr.Element(nil), col.scalars...)
	case KindVarChar:
		out.Strings = append([]string(nil), col.strs...)
	default:
		out.Ints = append([]int64(nil), col.ints...)
	}
	return out
}
