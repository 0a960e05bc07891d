package plans

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verisql/verisql/base/arena"
	"github.com/verisql/verisql/base/database"
	"github.com/verisql/verisql/base/scalar"
	"github.com/verisql/verisql/debug"
	"github.com/verisql/verisql/sql/exprs"
	"github.com/verisql/verisql/sql/proof"
)

// FilterPlan proves SELECT <results> FROM <table> WHERE <predicate>.
//
// The filter argument folds the selected input rows and the claimed output
// rows with two post-result challenges alpha and beta, takes entrywise
// inverses of the shifted folds (the star columns), and pins them with four
// constraints. The zero-sum constraint matches the multiset of selected input
// rows against the output rows; the remaining identities pin the star columns
// and force the output to vanish beyond its claimed length. Order and
// multiplicity of the output follow from the fold being order-sensitive
// through beta's powers.
type FilterPlan struct {
	Table   database.TableRef
	Results []AliasedExpr
	Where   exprs.Expr
}

// TryNewFilter builds a filter plan, checking the predicate type, alias
// uniqueness, and that every reference stays inside the one base table.
func TryNewFilter(table database.TableRef, results []AliasedExpr, where exprs.Expr) (*FilterPlan, error) {
	if where.DataType().Kind != database.KindBoolean {
		return nil, proof.AnalysisErrorf("WHERE clause must be boolean, got %s", where.DataType())
	}
	if err := checkAliases(results); err != nil {
		return nil, err
	}
	p := &FilterPlan{Table: table, Results: results, Where: where}
	if err := checkSingleTable(table, p.ColumnReferences()); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *FilterPlan) TableReferences() []database.TableRef {
	return []database.TableRef{p.Table}
}

func (p *FilterPlan) ColumnReferences() []database.ColumnRef {
	var set exprs.RefSet
	for _, r := range p.Results {
		r.Expr.CollectColumnRefs(&set)
	}
	p.Where.CollectColumnRefs(&set)
	return set.Refs()
}

func (p *FilterPlan) ResultFields() []proof.ColumnField {
	fields := make([]proof.ColumnField, len(p.Results))
	for i, r := range p.Results {
		fields[i] = proof.ColumnField{Ident: r.Alias, Type: r.Expr.DataType()}
	}
	return fields
}

func (p *FilterPlan) FirstRoundEvaluate(b *proof.FirstRoundBuilder, alloc *arena.Arena, accessor database.DataAccessor, params []database.LiteralValue) (database.Table, error) {
	table, err := buildEvalTable(accessor, p.Table, p.ColumnReferences())
	if err != nil {
		return database.Table{}, err
	}
	selCol, err := p.Where.FirstRoundEvaluate(alloc, table, params)
	if err != nil {
		return database.Table{}, err
	}
	sel, ok := selCol.AsBoolean()
	if !ok {
		return database.Table{}, proof.AnalysisErrorf("WHERE clause evaluated to %s", selCol.Type())
	}
	resultCols := make([]database.Column, len(p.Results))
	for i, r := range p.Results {
		if resultCols[i], err = r.Expr.FirstRoundEvaluate(alloc, table, params); err != nil {
			return database.Table{}, err
		}
	}
	filtered, m := database.FilterColumns(alloc, resultCols, database.SelectionBitSet(sel))

	b.RequestPostResultChallenges(2)
	b.ProduceChiEvaluationLength(m)

	idents := make([]database.Ident, len(p.Results))
	for i, r := range p.Results {
		idents[i] = r.Alias
	}
	return database.NewTable(idents, filtered, m)
}

func (p *FilterPlan) FinalRoundEvaluate(b *proof.FinalRoundBuilder, alloc *arena.Arena, accessor database.DataAccessor, params []database.LiteralValue) error {
	table, err := buildEvalTable(accessor, p.Table, p.ColumnReferences())
	if err != nil {
		return err
	}
	selCol, err := p.Where.FinalRoundEvaluate(b, alloc, table, params)
	if err != nil {
		return err
	}
	sel, ok := selCol.AsBoolean()
	if !ok {
		return proof.AnalysisErrorf("WHERE clause evaluated to %s", selCol.Type())
	}
	resultCols := make([]database.Column, len(p.Results))
	for i, r := range p.Results {
		if resultCols[i], err = r.Expr.FinalRoundEvaluate(b, alloc, table, params); err != nil {
			return err
		}
	}
	filtered, m := database.FilterColumns(alloc, resultCols, database.SelectionBitSet(sel))
	n := table.NumRows

	alpha := b.ConsumePostResultChallenge()
	beta := b.ConsumePostResultChallenge()

	cColumns := make([][]fr.Element, len(resultCols))
	for i, col := range resultCols {
		cColumns[i] = col.ToScalars(alloc)
	}
	dColumns := make([][]fr.Element, len(filtered))
	for i, col := range filtered {
		dColumns[i] = col.ToScalars(alloc)
		b.ProduceIntermediateMLE(dColumns[i])
	}

	cFold := foldColumns(alloc, alpha, beta, cColumns, n)
	dFold := foldColumns(alloc, alpha, beta, dColumns, m)

	one := fr.One()
	cStar := alloc.ScalarsCopy(cFold)
	scalar.AddConst(cStar, one)
	scalar.BatchPseudoInvert(cStar)
	dStar := alloc.ScalarsCopy(dFold)
	scalar.AddConst(dStar, one)
	scalar.BatchPseudoInvert(dStar)
	b.ProduceIntermediateMLE(cStar)
	b.ProduceIntermediateMLE(dStar)

	selScalars := alloc.Scalars(n)
	for i, v := range sel {
		if v {
			selScalars[i] = one
		}
	}
	chiN := onesColumn(alloc, n)
	chiM := onesColumn(alloc, m)

	b.ProduceSumcheckSubpolynomial(proof.ZeroSum, []proof.SumcheckSubpolynomialTerm{
		proof.Term(cStar, selScalars),
		proof.NegTerm(dStar),
	})
	b.ProduceSumcheckSubpolynomial(proof.Identity, []proof.SumcheckSubpolynomialTerm{
		proof.Term(cStar),
		proof.Term(cFold, cStar),
		proof.NegTerm(chiN),
	})
	b.ProduceSumcheckSubpolynomial(proof.Identity, []proof.SumcheckSubpolynomialTerm{
		proof.Term(dStar),
		proof.Term(dFold, dStar),
		proof.NegTerm(chiM),
	})
	b.ProduceSumcheckSubpolynomial(proof.Identity, []proof.SumcheckSubpolynomialTerm{
		proof.Term(dFold, chiM),
		proof.NegTerm(dFold),
	})
	return nil
}

func (p *FilterPlan) VerifierEvaluate(b *proof.VerificationBuilder, columnEvals map[database.ColumnRef]fr.Element, chiEvals map[database.TableRef]fr.Element, params []database.LiteralValue) (proof.TableEvaluation, error) {
	chiN, ok := chiEvals[p.Table]
	if !ok {
		return proof.TableEvaluation{}, proof.AnalysisErrorf("%v", database.UnresolvedTable(p.Table))
	}
	selEval, err := p.Where.VerifierEvaluate(b, columnEvals, chiN, params)
	if err != nil {
		return proof.TableEvaluation{}, err
	}
	cEvals := make([]fr.Element, len(p.Results))
	for i, r := range p.Results {
		if cEvals[i], err = r.Expr.VerifierEvaluate(b, columnEvals, chiN, params); err != nil {
			return proof.TableEvaluation{}, err
		}
	}
	dEvals, err := b.TryConsumeFinalRoundMLEEvaluations(len(p.Results))
	if err != nil {
		return proof.TableEvaluation{}, err
	}
	alpha, err := b.TryConsumePostResultChallenge()
	if err != nil {
		return proof.TableEvaluation{}, err
	}
	beta, err := b.TryConsumePostResultChallenge()
	if err != nil {
		return proof.TableEvaluation{}, err
	}
	chiM, err := b.TryConsumeChiEvaluation()
	if err != nil {
		return proof.TableEvaluation{}, err
	}
	cStarEval, err := b.TryConsumeFinalRoundMLEEvaluation()
	if err != nil {
		return proof.TableEvaluation{}, err
	}
	dStarEval, err := b.TryConsumeFinalRoundMLEEvaluation()
	if err != nil {
		return proof.TableEvaluation{}, err
	}

	cFoldEval := foldVals(alpha, beta, cEvals)
	dFoldEval := foldVals(alpha, beta, dEvals)

	var eval, tmp fr.Element

	eval.Mul(&cStarEval, &selEval)
	eval.Sub(&eval, &dStarEval)
	if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.ZeroSum, eval, 2); err != nil {
		return proof.TableEvaluation{}, err
	}

	tmp.Mul(&cFoldEval, &cStarEval)
	eval.Add(&cStarEval, &tmp)
	eval.Sub(&eval, &chiN)
	if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.Identity, eval, 3); err != nil {
		return proof.TableEvaluation{}, err
	}

	tmp.Mul(&dFoldEval, &dStarEval)
	eval.Add(&dStarEval, &tmp)
	eval.Sub(&eval, &chiM)
	if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.Identity, eval, 3); err != nil {
		return proof.TableEvaluation{}, err
	}

	eval.Mul(&dFoldEval, &chiM)
	eval.Sub(&eval, &dFoldEval)
	if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.Identity, eval, 3); err != nil {
		return proof.TableEvaluation{}, err
	}

	return proof.TableEvaluation{
		ColumnEvals: append([]fr.Element(nil), dEvals...),
		ChiEval:     chiM,
	}, nil
}

// foldColumns returns the column alpha * sum_k beta^k * cols[k], entrywise
// over length rows.
func foldColumns(alloc *arena.Arena, alpha, beta fr.Element, cols [][]fr.Element, length int) []fr.Element {
	out := alloc.Scalars(length)
	pow := alpha
	for _, col := range cols {
		debug.Assert(len(col) == length, "fold column has %d rows, want %d", len(col), length)
		scalar.MulAddAssign(out, pow, col)
		pow.Mul(&pow, &beta)
	}
	return out
}

func onesColumn(alloc *arena.Arena, n int) []fr.Element {
	out := alloc.Scalars(n)
	one := fr.One()
	for i := range out {
		out[i] = one
	}
	return out
}

var _ proof.ProofPlan = (*FilterPlan)(nil)
