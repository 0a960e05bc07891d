package database

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verisql/verisql/base/scalar"
)

// LiteralValue is a typed constant appearing in a query, either inline or as
// a bound placeholder parameter. Exactly one value field is meaningful, per
// the type's family.
type LiteralValue struct {
	Type   ColumnType
	Bool   bool
	Int    int64
	Scalar fr.Element
	String string
}

// BooleanLiteral builds a boolean constant.
func BooleanLiteral(v bool) LiteralValue {
	return LiteralValue{Type: BooleanType(), Bool: v}
}

// IntegerLiteral builds an integer or timestamp constant of the given type.
func IntegerLiteral(typ ColumnType, v int64) LiteralValue {
	if !typ.IsInteger() && typ.Kind != KindTimestamp {
		panic("database: integer literal requires an integer or timestamp type")
	}
	return LiteralValue{Type: typ, Int: v}
}

// BigIntLiteral builds a 64-bit integer constant.
func BigIntLiteral(v int64) LiteralValue {
	return LiteralValue{Type: BigIntType(), Int: v}
}

// ScalarLiteral builds an opaque field-element constant.
func ScalarLiteral(v fr.Element) LiteralValue {
	return LiteralValue{Type: ScalarType(), Scalar: v}
}

// DecimalLiteral builds a fixed-point constant from its scaled integer
// representation already embedded in the field.
func DecimalLiteral(typ ColumnType, v fr.Element) LiteralValue {
	if typ.Kind != KindDecimal {
		panic("database: decimal literal requires a decimal type")
	}
	return LiteralValue{Type: typ, Scalar: v}
}

// VarCharLiteral builds a text constant.
func VarCharLiteral(v string) LiteralValue {
	return LiteralValue{Type: VarCharType(), String: v}
}

// ToScalar embeds the literal into the field, using the same encoding as the
// column it will be compared against.
func (l LiteralValue) ToScalar() fr.Element {
	switch l.Type.Kind {
	case KindBoolean:
		return scalar.FromBool(l.Bool)
	case KindScalar, KindDecimal:
		return l.Scalar
	case KindVarChar:
		return scalar.HashBytes([]byte(l.String))
	default:
		return scalar.FromInt64(l.Int)
	}
}
