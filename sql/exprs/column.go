package exprs

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verisql/verisql/base/arena"
	"github.com/verisql/verisql/base/database"
	"github.com/verisql/verisql/sql/proof"
)

// ColumnExpr reads one base-table column.
type ColumnExpr struct {
	Ref database.ColumnRef
}

// NewColumnExpr builds a column reference expression.
func NewColumnExpr(ref database.ColumnRef) *ColumnExpr {
	return &ColumnExpr{Ref: ref}
}

func (e *ColumnExpr) DataType() database.ColumnType { return e.Ref.Type }

func (e *ColumnExpr) CollectColumnRefs(set *RefSet) { set.Add(e.Ref) }

func (e *ColumnExpr) FirstRoundEvaluate(_ *arena.Arena, table EvalTable, _ []database.LiteralValue) (database.Column, error) {
	col, ok := table.Columns[e.Ref]
	if !ok {
		return database.Column{}, proof.AnalysisErrorf("%v", database.UnresolvedColumn(e.Ref))
	}
	return col, nil
}

func (e *ColumnExpr) FinalRoundEvaluate(_ *proof.FinalRoundBuilder, alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error) {
	return e.FirstRoundEvaluate(alloc, table, params)
}

func (e *ColumnExpr) VerifierEvaluate(_ *proof.VerificationBuilder, evals ColumnEvals, _ fr.Element, _ []database.LiteralValue) (fr.Element, error) {
	eval, ok := evals[e.Ref]
	if !ok {
		return fr.Element{}, proof.AnalysisErrorf("%v", database.UnresolvedColumn(e.Ref))
	}
	return eval, nil
}

// LiteralExpr is a typed constant, one value repeated over every row.
type LiteralExpr struct {
	Value database.LiteralValue
}

// NewLiteralExpr builds a constant expression.
func NewLiteralExpr(v database.LiteralValue) *LiteralExpr {
	return &LiteralExpr{Value: v}
}

func (e *LiteralExpr) DataType() database.ColumnType { return e.Value.Type }

func (e *LiteralExpr) CollectColumnRefs(*RefSet) {}

func (e *LiteralExpr) FirstRoundEvaluate(alloc *arena.Arena, table EvalTable, _ []database.LiteralValue) (database.Column, error) {
	return literalColumn(alloc, e.Value, table.NumRows), nil
}

func (e *LiteralExpr) FinalRoundEvaluate(_ *proof.FinalRoundBuilder, alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error) {
	return e.FirstRoundEvaluate(alloc, table, params)
}

func (e *LiteralExpr) VerifierEvaluate(_ *proof.VerificationBuilder, _ ColumnEvals, chiEval fr.Element, _ []database.LiteralValue) (fr.Element, error) {
	// the constant column is the literal inside the table and zero beyond it
	v := e.Value.ToScalar()
	var eval fr.Element
	eval.Mul(&v, &chiEval)
	return eval, nil
}

// PlaceholderExpr is a bound parameter: a constant whose value arrives with
// the query. Index is zero-based into the params slice; the bound value's
// type must match the declared type exactly.
type PlaceholderExpr struct {
	Index int
	Type  database.ColumnType
}

// NewPlaceholderExpr builds a parameter expression.
func NewPlaceholderExpr(index int, typ database.ColumnType) *PlaceholderExpr {
	return &PlaceholderExpr{Index: index, Type: typ}
}

func (e *PlaceholderExpr) DataType() database.ColumnType { return e.Type }

func (e *PlaceholderExpr) CollectColumnRefs(*RefSet) {}

func (e *PlaceholderExpr) resolve(params []database.LiteralValue) (database.LiteralValue, error) {
	if e.Index < 0 || e.Index >= len(params) {
		return database.LiteralValue{}, proof.AnalysisErrorf("placeholder %d out of range for %d params", e.Index, len(params))
	}
	v := params[e.Index]
	if v.Type != e.Type {
		return database.LiteralValue{}, proof.AnalysisErrorf("placeholder %d bound to %s, declared %s", e.Index, v.Type, e.Type)
	}
	return v, nil
}

func (e *PlaceholderExpr) FirstRoundEvaluate(alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error) {
	v, err := e.resolve(params)
	if err != nil {
		return database.Column{}, err
	}
	return literalColumn(alloc, v, table.NumRows), nil
}

func (e *PlaceholderExpr) FinalRoundEvaluate(_ *proof.FinalRoundBuilder, alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error) {
	return e.FirstRoundEvaluate(alloc, table, params)
}

func (e *PlaceholderExpr) VerifierEvaluate(_ *proof.VerificationBuilder, _ ColumnEvals, chiEval fr.Element, params []database.LiteralValue) (fr.Element, error) {
	v, err := e.resolve(params)
	if err != nil {
		return fr.Element{}, err
	}
	s := v.ToScalar()
	var eval fr.Element
	eval.Mul(&s, &chiEval)
	return eval, nil
}

func literalColumn(alloc *arena.Arena, v database.LiteralValue, n int) database.Column {
	switch v.Type.Kind {
	case database.KindBoolean:
		vals := alloc.Bools(n)
		for i := range vals {
			vals[i] = v.Bool
		}
		return database.NewBooleanColumn(vals)
	case database.KindScalar, database.KindDecimal:
		vals := alloc.Scalars(n)
		for i := range vals {
			vals[i] = v.Scalar
		}
		if v.Type.Kind == database.KindDecimal {
			return database.NewDecimalColumn(v.Type, vals)
		}
		return database.NewScalarColumn(vals)
	case database.KindVarChar:
		vals := make([]string, n)
		for i := range vals {
			vals[i] = v.String
		}
		return database.NewVarCharColumn(vals)
	default:
		vals := make([]int64, n)
		for i := range vals {
			vals[i] = v.Int
		}
		return database.NewIntegerColumn(v.Type, vals)
	}
}
