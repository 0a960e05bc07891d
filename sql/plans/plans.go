// Package plans implements provable query execution plans.
//
// A plan glues expressions to the proof protocol: it computes the result
// table over plaintext rows, emits the witness columns and constraints that
// make the computation checkable, and replays the same emission order on the
// verifier side. Plans here read exactly one base table.
package plans

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verisql/verisql/base/database"
	"github.com/verisql/verisql/sql/exprs"
	"github.com/verisql/verisql/sql/proof"
)

// AliasedExpr is one SELECT item: an expression and its output column name.
type AliasedExpr struct {
	Expr  exprs.Expr
	Alias database.Ident
}

// checkAliases rejects duplicate output names and empty selections.
func checkAliases(results []AliasedExpr) error {
	if len(results) == 0 {
		return proof.AnalysisErrorf("plan selects no columns")
	}
	seen := make(map[database.Ident]struct{}, len(results))
	for _, r := range results {
		if _, dup := seen[r.Alias]; dup {
			return proof.AnalysisErrorf("duplicate output column %q", r.Alias)
		}
		seen[r.Alias] = struct{}{}
	}
	return nil
}

// checkSingleTable rejects references outside the plan's one base table.
func checkSingleTable(table database.TableRef, refs []database.ColumnRef) error {
	for _, ref := range refs {
		if ref.Table != table {
			return proof.AnalysisErrorf("column %s is not in table %q", ref, table)
		}
	}
	return nil
}

// buildEvalTable resolves the referenced columns into the prover-side
// evaluation context.
func buildEvalTable(accessor database.DataAccessor, table database.TableRef, refs []database.ColumnRef) (exprs.EvalTable, error) {
	n, err := accessor.TableLength(table)
	if err != nil {
		return exprs.EvalTable{}, proof.AnalysisErrorf("%v", err)
	}
	columns := make(map[database.ColumnRef]database.Column, len(refs))
	for _, ref := range refs {
		col, err := accessor.Column(ref)
		if err != nil {
			return exprs.EvalTable{}, proof.AnalysisErrorf("%v", err)
		}
		columns[ref] = col
	}
	return exprs.EvalTable{NumRows: n, Columns: columns}, nil
}

// foldVals returns alpha * sum_k beta^k * vals[k].
func foldVals(alpha, beta fr.Element, vals []fr.Element) fr.Element {
	var acc, tmp fr.Element
	pow := fr.One()
	for i := range vals {
		tmp.Mul(&pow, &vals[i])
		acc.Add(&acc, &tmp)
		pow.Mul(&pow, &beta)
	}
	acc.Mul(&acc, &alpha)
	return acc
}
