package plans

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verisql/verisql/base/arena"
	"github.com/verisql/verisql/base/database"
	"github.com/verisql/verisql/sql/exprs"
	"github.com/verisql/verisql/sql/proof"
)

// ProjectionPlan proves SELECT <results> FROM <table>: every input row maps
// to one output row, so the result needs no filter argument. Its columns are
// the expression columns and its length is the input length.
type ProjectionPlan struct {
	Table   database.TableRef
	Results []AliasedExpr
}

// TryNewProjection builds a projection plan.
func TryNewProjection(table database.TableRef, results []AliasedExpr) (*ProjectionPlan, error) {
	if err := checkAliases(results); err != nil {
		return nil, err
	}
	p := &ProjectionPlan{Table: table, Results: results}
	if err := checkSingleTable(table, p.ColumnReferences()); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *ProjectionPlan) TableReferences() []database.TableRef {
	return []database.TableRef{p.Table}
}

func (p *ProjectionPlan) ColumnReferences() []database.ColumnRef {
	var set exprs.RefSet
	for _, r := range p.Results {
		r.Expr.CollectColumnRefs(&set)
	}
	return set.Refs()
}

func (p *ProjectionPlan) ResultFields() []proof.ColumnField {
	fields := make([]proof.ColumnField, len(p.Results))
	for i, r := range p.Results {
		fields[i] = proof.ColumnField{Ident: r.Alias, Type: r.Expr.DataType()}
	}
	return fields
}

func (p *ProjectionPlan) FirstRoundEvaluate(_ *proof.FirstRoundBuilder, alloc *arena.Arena, accessor database.DataAccessor, params []database.LiteralValue) (database.Table, error) {
	table, err := buildEvalTable(accessor, p.Table, p.ColumnReferences())
	if err != nil {
		return database.Table{}, err
	}
	idents := make([]database.Ident, len(p.Results))
	columns := make([]database.Column, len(p.Results))
	for i, r := range p.Results {
		idents[i] = r.Alias
		if columns[i], err = r.Expr.FirstRoundEvaluate(alloc, table, params); err != nil {
			return database.Table{}, err
		}
	}
	return database.NewTable(idents, columns, table.NumRows)
}

func (p *ProjectionPlan) FinalRoundEvaluate(b *proof.FinalRoundBuilder, alloc *arena.Arena, accessor database.DataAccessor, params []database.LiteralValue) error {
	table, err := buildEvalTable(accessor, p.Table, p.ColumnReferences())
	if err != nil {
		return err
	}
	for _, r := range p.Results {
		if _, err := r.Expr.FinalRoundEvaluate(b, alloc, table, params); err != nil {
			return err
		}
	}
	return nil
}

func (p *ProjectionPlan) VerifierEvaluate(b *proof.VerificationBuilder, columnEvals map[database.ColumnRef]fr.Element, chiEvals map[database.TableRef]fr.Element, params []database.LiteralValue) (proof.TableEvaluation, error) {
	chiN, ok := chiEvals[p.Table]
	if !ok {
		return proof.TableEvaluation{}, proof.AnalysisErrorf("%v", database.UnresolvedTable(p.Table))
	}
	evals := make([]fr.Element, len(p.Results))
	var err error
	for i, r := range p.Results {
		if evals[i], err = r.Expr.VerifierEvaluate(b, columnEvals, chiN, params); err != nil {
			return proof.TableEvaluation{}, err
		}
	}
	return proof.TableEvaluation{ColumnEvals: evals, ChiEval: chiN}, nil
}

var _ proof.ProofPlan = (*ProjectionPlan)(nil)
