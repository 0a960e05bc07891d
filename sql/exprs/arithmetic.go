package exprs

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verisql/verisql/base/arena"
	"github.com/verisql/verisql/base/database"
	"github.com/verisql/verisql/sql/proof"
)

// arithmeticOperable reports whether the type participates in arithmetic
// under the scalar embedding. Decimals are excluded: mixing scales silently
// changes magnitudes, so they must be cast explicitly first.
func arithmeticOperable(t database.ColumnType) bool {
	return scalarComparable(t.Kind)
}

// AddExpr is entrywise addition. Addition is linear, so no witness is needed.
type AddExpr struct {
	Lhs, Rhs Expr
}

// TryNewAdd builds an addition over integer or scalar operands.
func TryNewAdd(lhs, rhs Expr) (*AddExpr, error) {
	if !arithmeticOperable(lhs.DataType()) || !arithmeticOperable(rhs.DataType()) {
		return nil, proof.AnalysisErrorf("addition requires numeric operands, got %s and %s", lhs.DataType(), rhs.DataType())
	}
	return &AddExpr{Lhs: lhs, Rhs: rhs}, nil
}

func (e *AddExpr) DataType() database.ColumnType { return database.ScalarType() }

func (e *AddExpr) CollectColumnRefs(set *RefSet) {
	e.Lhs.CollectColumnRefs(set)
	e.Rhs.CollectColumnRefs(set)
}

func (e *AddExpr) FirstRoundEvaluate(alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error) {
	lhs, rhs, err := evalScalarPair(alloc, table, params, e.Lhs, e.Rhs, nil)
	if err != nil {
		return database.Column{}, err
	}
	return database.NewScalarColumn(addInto(alloc, lhs, rhs)), nil
}

func (e *AddExpr) FinalRoundEvaluate(b *proof.FinalRoundBuilder, alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error) {
	lhs, rhs, err := evalScalarPair(alloc, table, params, e.Lhs, e.Rhs, b)
	if err != nil {
		return database.Column{}, err
	}
	return database.NewScalarColumn(addInto(alloc, lhs, rhs)), nil
}

func (e *AddExpr) VerifierEvaluate(b *proof.VerificationBuilder, evals ColumnEvals, chiEval fr.Element, params []database.LiteralValue) (fr.Element, error) {
	lhs, err := e.Lhs.VerifierEvaluate(b, evals, chiEval, params)
	if err != nil {
		return fr.Element{}, err
	}
	rhs, err := e.Rhs.VerifierEvaluate(b, evals, chiEval, params)
	if err != nil {
		return fr.Element{}, err
	}
	var eval fr.Element
	eval.Add(&lhs, &rhs)
	return eval, nil
}

// SubtractExpr is entrywise subtraction.
type SubtractExpr struct {
	Lhs, Rhs Expr
}

// TryNewSubtract builds a subtraction over integer or scalar operands.
func TryNewSubtract(lhs, rhs Expr) (*SubtractExpr, error) {
	if !arithmeticOperable(lhs.DataType()) || !arithmeticOperable(rhs.DataType()) {
		return nil, proof.AnalysisErrorf("subtraction requires numeric operands, got %s and %s", lhs.DataType(), rhs.DataType())
	}
	return &SubtractExpr{Lhs: lhs, Rhs: rhs}, nil
}

func (e *SubtractExpr) DataType() database.ColumnType { return database.ScalarType() }

func (e *SubtractExpr) CollectColumnRefs(set *RefSet) {
	e.Lhs.CollectColumnRefs(set)
	e.Rhs.CollectColumnRefs(set)
}

func (e *SubtractExpr) FirstRoundEvaluate(alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error) {
	lhs, rhs, err := evalScalarPair(alloc, table, params, e.Lhs, e.Rhs, nil)
	if err != nil {
		return database.Column{}, err
	}
	return database.NewScalarColumn(subInto(alloc, lhs, rhs)), nil
}

func (e *SubtractExpr) FinalRoundEvaluate(b *proof.FinalRoundBuilder, alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error) {
	lhs, rhs, err := evalScalarPair(alloc, table, params, e.Lhs, e.Rhs, b)
	if err != nil {
		return database.Column{}, err
	}
	return database.NewScalarColumn(subInto(alloc, lhs, rhs)), nil
}

func (e *SubtractExpr) VerifierEvaluate(b *proof.VerificationBuilder, evals ColumnEvals, chiEval fr.Element, params []database.LiteralValue) (fr.Element, error) {
	lhs, err := e.Lhs.VerifierEvaluate(b, evals, chiEval, params)
	if err != nil {
		return fr.Element{}, err
	}
	rhs, err := e.Rhs.VerifierEvaluate(b, evals, chiEval, params)
	if err != nil {
		return fr.Element{}, err
	}
	var eval fr.Element
	eval.Sub(&lhs, &rhs)
	return eval, nil
}

// MultiplyExpr is entrywise multiplication, committed through the product
// gadget so the verifier can compose the result.
type MultiplyExpr struct {
	Lhs, Rhs Expr
}

// TryNewMultiply builds a multiplication over integer or scalar operands.
func TryNewMultiply(lhs, rhs Expr) (*MultiplyExpr, error) {
	if !arithmeticOperable(lhs.DataType()) || !arithmeticOperable(rhs.DataType()) {
		return nil, proof.AnalysisErrorf("multiplication requires numeric operands, got %s and %s", lhs.DataType(), rhs.DataType())
	}
	return &MultiplyExpr{Lhs: lhs, Rhs: rhs}, nil
}

func (e *MultiplyExpr) DataType() database.ColumnType { return database.ScalarType() }

func (e *MultiplyExpr) CollectColumnRefs(set *RefSet) {
	e.Lhs.CollectColumnRefs(set)
	e.Rhs.CollectColumnRefs(set)
}

func (e *MultiplyExpr) FirstRoundEvaluate(alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error) {
	lhs, rhs, err := evalScalarPair(alloc, table, params, e.Lhs, e.Rhs, nil)
	if err != nil {
		return database.Column{}, err
	}
	return database.NewScalarColumn(mulInto(alloc, lhs, rhs)), nil
}

func (e *MultiplyExpr) FinalRoundEvaluate(b *proof.FinalRoundBuilder, alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error) {
	lhs, rhs, err := evalScalarPair(alloc, table, params, e.Lhs, e.Rhs, b)
	if err != nil {
		return database.Column{}, err
	}
	return database.NewScalarColumn(emitProductGadget(b, alloc, lhs, rhs)), nil
}

func (e *MultiplyExpr) VerifierEvaluate(b *proof.VerificationBuilder, evals ColumnEvals, chiEval fr.Element, params []database.LiteralValue) (fr.Element, error) {
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

// evalScalarPair evaluates two operands to their scalar encodings in the
// round indicated by b (final round when b is non-nil).
func evalScalarPair(alloc *arena.Arena, table EvalTable, params []database.LiteralValue, lhs, rhs Expr, b *proof.FinalRoundBuilder) ([]fr.Element, []fr.Element, error) {
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
	return lcol.ToScalars(alloc), rcol.ToScalars(alloc), nil
}
