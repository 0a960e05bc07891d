package exprs

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verisql/verisql/base/arena"
	"github.com/verisql/verisql/base/database"
	"github.com/verisql/verisql/base/scalar"
	"github.com/verisql/verisql/sql/proof"
)

// EqualsExpr is an entrywise equality test. The prover reduces it to a
// zero test on the difference column: it commits the pseudo-inverse of the
// difference and the selection column, then pins them with two identities,
//
//	selection * diff        = 0   (selected rows have zero difference)
//	(chi - selection) - diff * inv = 0   (unselected rows have nonzero difference)
//
// which together force selection to be exactly the indicator of diff == 0.
type EqualsExpr struct {
	Lhs, Rhs Expr
}

// TryNewEquals builds an equality test over comparable operands.
func TryNewEquals(lhs, rhs Expr) (*EqualsExpr, error) {
	if !comparableTypes(lhs.DataType(), rhs.DataType()) {
		return nil, proof.AnalysisErrorf("cannot compare %s with %s", lhs.DataType(), rhs.DataType())
	}
	return &EqualsExpr{Lhs: lhs, Rhs: rhs}, nil
}

func (e *EqualsExpr) DataType() database.ColumnType { return database.BooleanType() }

func (e *EqualsExpr) CollectColumnRefs(set *RefSet) {
	e.Lhs.CollectColumnRefs(set)
	e.Rhs.CollectColumnRefs(set)
}

func (e *EqualsExpr) FirstRoundEvaluate(alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error) {
	lhs, rhs, err := evalScalarPair(alloc, table, params, e.Lhs, e.Rhs, nil)
	if err != nil {
		return database.Column{}, err
	}
	sel := alloc.Bools(len(lhs))
	var diff fr.Element
	for i := range sel {
		diff.Sub(&lhs[i], &rhs[i])
		sel[i] = diff.IsZero()
	}
	return database.NewBooleanColumn(sel), nil
}

func (e *EqualsExpr) FinalRoundEvaluate(b *proof.FinalRoundBuilder, alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error) {
	lhs, rhs, err := evalScalarPair(alloc, table, params, e.Lhs, e.Rhs, b)
	if err != nil {
		return database.Column{}, err
	}
	n := len(lhs)
	diff := subInto(alloc, lhs, rhs)
	inv := alloc.ScalarsCopy(diff)
	scalar.BatchPseudoInvert(inv)

	sel := alloc.Bools(n)
	selScalars := alloc.Scalars(n)
	selNot := alloc.Scalars(n)
	one := fr.One()
	for i := range diff {
		if diff[i].IsZero() {
			sel[i] = true
			selScalars[i] = one
		} else {
			selNot[i] = one
		}
	}

	b.ProduceIntermediateMLE(inv)
	b.ProduceIntermediateMLE(selScalars)
	b.ProduceSumcheckSubpolynomial(proof.Identity, []proof.SumcheckSubpolynomialTerm{
		proof.Term(selScalars, diff),
	})
	b.ProduceSumcheckSubpolynomial(proof.Identity, []proof.SumcheckSubpolynomialTerm{
		proof.Term(selNot),
		proof.NegTerm(diff, inv),
	})
	return database.NewBooleanColumn(sel), nil
}

func (e *EqualsExpr) VerifierEvaluate(b *proof.VerificationBuilder, evals ColumnEvals, chiEval fr.Element, params []database.LiteralValue) (fr.Element, error) {
	lhs, err := e.Lhs.VerifierEvaluate(b, evals, chiEval, params)
	if err != nil {
		return fr.Element{}, err
	}
	rhs, err := e.Rhs.VerifierEvaluate(b, evals, chiEval, params)
	if err != nil {
		return fr.Element{}, err
	}
	invEval, err := b.TryConsumeFinalRoundMLEEvaluation()
	if err != nil {
		return fr.Element{}, err
	}
	selEval, err := b.TryConsumeFinalRoundMLEEvaluation()
	if err != nil {
		return fr.Element{}, err
	}

	var diffEval fr.Element
	diffEval.Sub(&lhs, &rhs)

	var eval fr.Element
	eval.Mul(&selEval, &diffEval)
	if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.Identity, eval, 3); err != nil {
		return fr.Element{}, err
	}

	var selNotEval, prod fr.Element
	selNotEval.Sub(&chiEval, &selEval)
	prod.Mul(&diffEval, &invEval)
	eval.Sub(&selNotEval, &prod)
	if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.Identity, eval, 3); err != nil {
		return fr.Element{}, err
	}
	return selEval, nil
}
