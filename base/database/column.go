// Package database defines the typed column and table model the proof
// protocol operates on.
//
// Columns produced during a proof round borrow their backing slices from a
// round-scoped arena; they are views, never long-lived owners. The only
// heap-owned table form is OwnedTable, used for query results that outlive
// the round.
package database

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verisql/verisql/base/arena"
	"github.com/verisql/verisql/base/scalar"
)

// Ident names a column within a table.
type Ident string

// TableRef names a table.
type TableRef string

// ColumnRef identifies a typed column of a table.
type ColumnRef struct {
	Table  TableRef
	Column Ident
	Type   ColumnType
}

func (r ColumnRef) String() string {
	return fmt.Sprintf("%s.%s", r.Table, r.Column)
}

// ColumnKind enumerates the semantic column types.
type ColumnKind uint8

const (
	KindBoolean ColumnKind = iota
	KindTinyInt
	KindSmallInt
	KindInt
	KindBigInt
	KindDecimal
	KindScalar
	KindVarChar
	KindTimestamp
)

func (k ColumnKind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindTinyInt:
		return "tinyint"
	case KindSmallInt:
		return "smallint"
	case KindInt:
		return "int"
	case KindBigInt:
		return "bigint"
	case KindDecimal:
		return "decimal"
	case KindScalar:
		return "scalar"
	case KindVarChar:
		return "varchar"
	case KindTimestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// TimeUnit is the resolution of a timestamp column.
type TimeUnit uint8

const (
	UnitSecond TimeUnit = iota
	UnitMillisecond
	UnitMicrosecond
	UnitNanosecond
)

// ColumnType is a column kind plus its kind-specific parameters.
type ColumnType struct {
	Kind      ColumnKind `cbor:"1,keyasint"`
	Precision uint8      `cbor:"2,keyasint,omitempty"` // decimal only
	Scale     int8       `cbor:"3,keyasint,omitempty"` // decimal only
	Unit      TimeUnit   `cbor:"4,keyasint,omitempty"` // timestamp only
}

// BooleanType is the type of boolean columns.
func BooleanType() ColumnType { return ColumnType{Kind: KindBoolean} }

// BigIntType is the type of 64-bit integer columns.
func BigIntType() ColumnType { return ColumnType{Kind: KindBigInt} }

// IntType is the type of 32-bit integer columns.
func IntType() ColumnType { return ColumnType{Kind: KindInt} }

// SmallIntType is the type of 16-bit integer columns.
func SmallIntType() ColumnType { return ColumnType{Kind: KindSmallInt} }

// TinyIntType is the type of 8-bit integer columns.
func TinyIntType() ColumnType { return ColumnType{Kind: KindTinyInt} }

// ScalarType is the type of opaque field-element columns.
func ScalarType() ColumnType { return ColumnType{Kind: KindScalar} }

// VarCharType is the type of variable-length text columns.
func VarCharType() ColumnType { return ColumnType{Kind: KindVarChar} }

// DecimalType is the type of fixed-point decimal columns.
func DecimalType(precision uint8, fracScale int8) ColumnType {
	return ColumnType{Kind: KindDecimal, Precision: precision, Scale: fracScale}
}

// TimestampType is the type of timestamp columns with the given resolution.
func TimestampType(unit TimeUnit) ColumnType {
	return ColumnType{Kind: KindTimestamp, Unit: unit}
}

func (t ColumnType) String() string {
	switch t.Kind {
	case KindDecimal:
		return fmt.Sprintf("decimal(%d,%d)", t.Precision, t.Scale)
	case KindTimestamp:
		return fmt.Sprintf("timestamp(%d)", t.Unit)
	default:
		return t.Kind.String()
	}
}

// IsInteger reports whether values of this type are machine integers.
func (t ColumnType) IsInteger() bool {
	switch t.Kind {
	case KindTinyInt, KindSmallInt, KindInt, KindBigInt:
		return true
	}
	return false
}

// IntegerBounds returns the inclusive value range of an integer kind.
func (t ColumnType) IntegerBounds() (minVal, maxVal int64) {
	switch t.Kind {
	case KindTinyInt:
		return -1 << 7, 1<<7 - 1
	case KindSmallInt:
		return -1 << 15, 1<<15 - 1
	case KindInt:
		return -1 << 31, 1<<31 - 1
	default:
		return -1 << 63, 1<<63 - 1
	}
}

// Column is a typed, length-tagged view of one column's values for one round.
// Exactly one backing slice is populated, according to the type's family.
type Column struct {
	typ     ColumnType
	bools   []bool
	ints    []int64
	scalars []fr.Element
	strs    []string
}

// NewBooleanColumn wraps vals as a boolean column.
func NewBooleanColumn(vals []bool) Column {
	return Column{typ: BooleanType(), bools: vals}
}

// NewIntegerColumn wraps vals as an integer column of the given type.
// The type must be an integer kind or a timestamp.
func NewIntegerColumn(typ ColumnType, vals []int64) Column {
	if !typ.IsInteger() && typ.Kind != KindTimestamp {
		panic("database: integer column requires an integer or timestamp type")
	}
	return Column{typ: typ, ints: vals}
}

// NewScalarColumn wraps vals as an opaque scalar column.
func NewScalarColumn(vals []fr.Element) Column {
	return Column{typ: ScalarType(), scalars: vals}
}

// NewDecimalColumn wraps scaled integer values, already embedded in the
// field, as a decimal column.
func NewDecimalColumn(typ ColumnType, vals []fr.Element) Column {
	if typ.Kind != KindDecimal {
		panic("database: decimal column requires a decimal type")
	}
	return Column{typ: typ, scalars: vals}
}

// NewVarCharColumn wraps vals as a text column.
func NewVarCharColumn(vals []string) Column {
	return Column{typ: VarCharType(), strs: vals}
}

// Type returns the column's type.
func (c Column) Type() ColumnType { return c.typ }

// Len returns the number of rows.
func (c Column) Len() int {
	switch {
	case c.bools != nil:
		return len(c.bools)
	case c.ints != nil:
		return len(c.ints)
	case c.scalars != nil:
		return len(c.scalars)
	default:
		return len(c.strs)
	}
}

// AsBoolean returns the backing boolean slice, if this is a boolean column.
func (c Column) AsBoolean() ([]bool, bool) {
	if c.typ.Kind != KindBoolean {
		return nil, false
	}
	return c.bools, true
}

// Ints returns the backing integer slice for integer and timestamp columns.
func (c Column) Ints() []int64 { return c.ints }

// Scalars returns the backing scalar slice for scalar and decimal columns.
func (c Column) Scalars() []fr.Element { return c.scalars }

// Strings returns the backing string slice for varchar columns.
func (c Column) Strings() []string { return c.strs }

// ToScalars encodes the column values into field elements, allocating from a.
// Booleans map to 0/1, integers and timestamps embed with sign, strings embed
// through their Keccak hash.
func (c Column) ToScalars(a *arena.Arena) []fr.Element {
	switch c.typ.Kind {
	case KindScalar, KindDecimal:
		return c.scalars
	case KindBoolean:
		out := a.Scalars(len(c.bools))
		for i, v := range c.bools {
			out[i] = scalar.FromBool(v)
		}
		return out
	case KindVarChar:
		out := a.Scalars(len(c.strs))
		for i, v := range c.strs {
			out[i] = scalar.HashBytes([]byte(v))
		}
		return out
	default:
		out := a.Scalars(len(c.ints))
		for i, v := range c.ints {
			out[i] = scalar.FromInt64(v)
		}
		return out
	}
}
