package exprs

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verisql/verisql/base/arena"
	"github.com/verisql/verisql/base/database"
	"github.com/verisql/verisql/sql/proof"
)

// NotExpr negates a boolean expression. Negation is linear over the scalar
// embedding (not = chi - x), so it needs no witness of its own.
type NotExpr struct {
	Inner Expr
}

// TryNewNot builds a negation, requiring a boolean operand.
func TryNewNot(inner Expr) (*NotExpr, error) {
	if inner.DataType().Kind != database.KindBoolean {
		return nil, proof.AnalysisErrorf("NOT requires a boolean operand, got %s", inner.DataType())
	}
	return &NotExpr{Inner: inner}, nil
}

func (e *NotExpr) DataType() database.ColumnType { return database.BooleanType() }

func (e *NotExpr) CollectColumnRefs(set *RefSet) { e.Inner.CollectColumnRefs(set) }

func (e *NotExpr) FirstRoundEvaluate(alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error) {
	col, err := e.Inner.FirstRoundEvaluate(alloc, table, params)
	if err != nil {
		return database.Column{}, err
	}
	return negateBools(alloc, col)
}

func (e *NotExpr) FinalRoundEvaluate(b *proof.FinalRoundBuilder, alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error) {
	col, err := e.Inner.FinalRoundEvaluate(b, alloc, table, params)
	if err != nil {
		return database.Column{}, err
	}
	return negateBools(alloc, col)
}

func (e *NotExpr) VerifierEvaluate(b *proof.VerificationBuilder, evals ColumnEvals, chiEval fr.Element, params []database.LiteralValue) (fr.Element, error) {
	inner, err := e.Inner.VerifierEvaluate(b, evals, chiEval, params)
	if err != nil {
		return fr.Element{}, err
	}
	var eval fr.Element
	eval.Sub(&chiEval, &inner)
	return eval, nil
}

func negateBools(alloc *arena.Arena, col database.Column) (database.Column, error) {
	vals, ok := col.AsBoolean()
	if !ok {
		return database.Column{}, proof.AnalysisErrorf("NOT requires a boolean operand, got %s", col.Type())
	}
	out := alloc.Bools(len(vals))
	for i, v := range vals {
		out[i] = !v
	}
	return database.NewBooleanColumn(out), nil
}

// AndExpr is a boolean conjunction. The entrywise product is nonlinear, so
// the prover commits it and pins it with a product identity.
type AndExpr struct {
	Lhs, Rhs Expr
}

// TryNewAnd builds a conjunction, requiring boolean operands.
func TryNewAnd(lhs, rhs Expr) (*AndExpr, error) {
	if lhs.DataType().Kind != database.KindBoolean || rhs.DataType().Kind != database.KindBoolean {
		return nil, proof.AnalysisErrorf("AND requires boolean operands, got %s and %s", lhs.DataType(), rhs.DataType())
	}
	return &AndExpr{Lhs: lhs, Rhs: rhs}, nil
}

func (e *AndExpr) DataType() database.ColumnType { return database.BooleanType() }

func (e *AndExpr) CollectColumnRefs(set *RefSet) {
	e.Lhs.CollectColumnRefs(set)
	e.Rhs.CollectColumnRefs(set)
}

func (e *AndExpr) FirstRoundEvaluate(alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error) {
	lhs, rhs, err := evalBoolPair(alloc, table, params, e.Lhs, e.Rhs, nil)
	if err != nil {
		return database.Column{}, err
	}
	out := alloc.Bools(len(lhs))
	for i := range out {
		out[i] = lhs[i] && rhs[i]
	}
	return database.NewBooleanColumn(out), nil
}

func (e *AndExpr) FinalRoundEvaluate(b *proof.FinalRoundBuilder, alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error) {
	lhs, rhs, err := evalBoolPair(alloc, table, params, e.Lhs, e.Rhs, b)
	if err != nil {
		return database.Column{}, err
	}
	emitProductGadget(b, alloc, boolsToScalars(alloc, lhs), boolsToScalars(alloc, rhs))
	out := alloc.Bools(len(lhs))
	for i := range out {
		out[i] = lhs[i] && rhs[i]
	}
	return database.NewBooleanColumn(out), nil
}

func (e *AndExpr) VerifierEvaluate(b *proof.VerificationBuilder, evals ColumnEvals, chiEval fr.Element, params []database.LiteralValue) (fr.Element, error) {
	lhs, err := e.Lhs.VerifierEvaluate(b, evals, chiEval, params)
	if err != nil {
		return fr.Element{}, err
	}
	rhs, err := e.Rhs.VerifierEvaluate(b, evals, chiEval, params)
	if err != nil {
		return fr.Element{}, err
	}
	return consumeProductGadget(b, lhs, rhs)
}

// OrExpr is a boolean disjunction: lhs + rhs - lhs*rhs, with the product
// pinned by the same gadget conjunction uses.
type OrExpr struct {
	Lhs, Rhs Expr
}

// TryNewOr builds a disjunction, requiring boolean operands.
func TryNewOr(lhs, rhs Expr) (*OrExpr, error) {
	if lhs.DataType().Kind != database.KindBoolean || rhs.DataType().Kind != database.KindBoolean {
		return nil, proof.AnalysisErrorf("OR requires boolean operands, got %s and %s", lhs.DataType(), rhs.DataType())
	}
	return &OrExpr{Lhs: lhs, Rhs: rhs}, nil
}

func (e *OrExpr) DataType() database.ColumnType { return database.BooleanType() }

func (e *OrExpr) CollectColumnRefs(set *RefSet) {
	e.Lhs.CollectColumnRefs(set)
	e.Rhs.CollectColumnRefs(set)
}

func (e *OrExpr) FirstRoundEvaluate(alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error) {
	lhs, rhs, err := evalBoolPair(alloc, table, params, e.Lhs, e.Rhs, nil)
	if err != nil {
		return database.Column{}, err
	}
	out := alloc.Bools(len(lhs))
	for i := range out {
		out[i] = lhs[i] || rhs[i]
	}
	return database.NewBooleanColumn(out), nil
}

func (e *OrExpr) FinalRoundEvaluate(b *proof.FinalRoundBuilder, alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error) {
	lhs, rhs, err := evalBoolPair(alloc, table, params, e.Lhs, e.Rhs, b)
	if err != nil {
		return database.Column{}, err
	}
	emitProductGadget(b, alloc, boolsToScalars(alloc, lhs), boolsToScalars(alloc, rhs))
	out := alloc.Bools(len(lhs))
	for i := range out {
		out[i] = lhs[i] || rhs[i]
	}
	return database.NewBooleanColumn(out), nil
}

func (e *OrExpr) VerifierEvaluate(b *proof.VerificationBuilder, evals ColumnEvals, chiEval fr.Element, params []database.LiteralValue) (fr.Element, error) {
	lhs, err := e.Lhs.VerifierEvaluate(b, evals, chiEval, params)
	if err != nil {
		return fr.Element{}, err
	}
	rhs, err := e.Rhs.VerifierEvaluate(b, evals, chiEval, params)
	if err != nil {
		return fr.Element{}, err
	}
	prod, err := consumeProductGadget(b, lhs, rhs)
	if err != nil {
		return fr.Element{}, err
	}
	var eval fr.Element
	eval.Add(&lhs, &rhs)
	eval.Sub(&eval, &prod)
	return eval, nil
}

// evalBoolPair evaluates two boolean operands in the round indicated by b
// (final round when b is non-nil).
func evalBoolPair(alloc *arena.Arena, table EvalTable, params []database.LiteralValue, lhs, rhs Expr, b *proof.FinalRoundBuilder) ([]bool, []bool, error) {
	eval := func(e Expr) (database.Column, error) {
		if b != nil {
			return e.FinalRoundEvaluate(b, alloc, table, params)
		}
		return e.FirstRoundEvaluate(alloc, table, params)
	}
	lcol, err := eval(lhs)
	if err != nil {
		return nil, nil, err
	}
	rcol, err := eval(rhs)
	if err != nil {
		return nil, nil, err
	}
	lb, ok := lcol.AsBoolean()
	if !ok {
		return nil, nil, proof.AnalysisErrorf("boolean operand evaluated to %s", lcol.Type())
	}
	rb, ok := rcol.AsBoolean()
	if !ok {
		return nil, nil, proof.AnalysisErrorf("boolean operand evaluated to %s", rcol.Type())
	}
	return lb, rb, nil
}

func boolsToScalars(alloc *arena.Arena, vals []bool) []fr.Element {
	out := alloc.Scalars(len(vals))
	one := fr.One()
	for i, v := range vals {
		if v {
			out[i] = one
		}
	}
	return out
}
