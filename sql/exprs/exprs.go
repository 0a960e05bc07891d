// Package exprs implements provable SQL expressions.
//
// An expression is evaluated three times per query with one shared emission
// order: twice by the prover over plaintext rows (a plain first pass, then a
// final pass that also emits witness columns and constraints) and once by the
// verifier over claimed evaluations at the sumcheck point. Soundness rests on
// the three passes walking the tree identically; every constructor
// type-checks its operands up front so the walks cannot diverge.
package exprs

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verisql/verisql/base/arena"
	"github.com/verisql/verisql/base/database"
	"github.com/verisql/verisql/sql/proof"
)

// EvalTable is the prover-side evaluation context: the input table's columns
// keyed by reference, plus its row count.
type EvalTable struct {
	NumRows int
	Columns map[database.ColumnRef]database.Column
}

// ColumnEvals maps base-column references to their claimed MLE evaluations.
type ColumnEvals map[database.ColumnRef]fr.Element

// Expr is a provable expression over one table's rows.
type Expr interface {
	// DataType returns the type of the column this expression evaluates to.
	DataType() database.ColumnType

	// CollectColumnRefs adds every base column the expression reads.
	CollectColumnRefs(set *RefSet)

	// FirstRoundEvaluate computes the expression over the table's rows.
	FirstRoundEvaluate(alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error)

	// FinalRoundEvaluate recomputes the expression, emitting the witness
	// columns and constraints that make it checkable.
	FinalRoundEvaluate(b *proof.FinalRoundBuilder, alloc *arena.Arena, table EvalTable, params []database.LiteralValue) (database.Column, error)

	// VerifierEvaluate replays the final-round walk over claimed evaluations
	// and returns the expression's evaluation at the sumcheck point. chiEval
	// is the chi evaluation of the input table's length.
	VerifierEvaluate(b *proof.VerificationBuilder, evals ColumnEvals, chiEval fr.Element, params []database.LiteralValue) (fr.Element, error)
}

// RefSet is an insertion-ordered set of column references. Prover and
// verifier derive the committed-column order from the same walk, so the order
// is part of the protocol.
type RefSet struct {
	refs []database.ColumnRef
	seen map[database.ColumnRef]struct{}
}

// Add inserts ref if it is not already present.
func (s *RefSet) Add(ref database.ColumnRef) {
	if s.seen == nil {
		s.seen = make(map[database.ColumnRef]struct{})
	}
	if _, ok := s.seen[ref]; ok {
		return
	}
	s.seen[ref] = struct{}{}
	s.refs = append(s.refs, ref)
}

// Refs returns the references in insertion order.
func (s *RefSet) Refs() []database.ColumnRef {
	return s.refs
}

// scalarComparable reports whether values of this kind embed into the field
// in a way that is directly comparable across kinds.
func scalarComparable(k database.ColumnKind) bool {
	switch k {
	case database.KindTinyInt, database.KindSmallInt, database.KindInt, database.KindBigInt, database.KindScalar:
		return true
	}
	return false
}

// comparableTypes reports whether equality between the two types is
// well-defined under the scalar embedding.
func comparableTypes(a, b database.ColumnType) bool {
	if scalarComparable(a.Kind) && scalarComparable(b.Kind) {
		return true
	}
	return a == b
}

// subInto returns a - b entrywise, arena-allocated.
func subInto(alloc *arena.Arena, a, b []fr.Element) []fr.Element {
	out := alloc.Scalars(len(a))
	for i := range out {
		out[i].Sub(&a[i], &b[i])
	}
	return out
}

// addInto returns a + b entrywise, arena-allocated.
func addInto(alloc *arena.Arena, a, b []fr.Element) []fr.Element {
	out := alloc.Scalars(len(a))
	for i := range out {
		out[i].Add(&a[i], &b[i])
	}
	return out
}

// mulInto returns a * b entrywise, arena-allocated.
func mulInto(alloc *arena.Arena, a, b []fr.Element) []fr.Element {
	out := alloc.Scalars(len(a))
	for i := range out {
		out[i].Mul(&a[i], &b[i])
	}
	return out
}

// emitProductGadget commits the entrywise product of two columns and emits
// the identity pinning it: prod - a*b = 0 row-wise. Returns the product.
func emitProductGadget(b *proof.FinalRoundBuilder, alloc *arena.Arena, a, bb []fr.Element) []fr.Element {
	prod := mulInto(alloc, a, bb)
	b.ProduceIntermediateMLE(prod)
	b.ProduceSumcheckSubpolynomial(proof.Identity, []proof.SumcheckSubpolynomialTerm{
		proof.Term(prod),
		proof.NegTerm(a, bb),
	})
	return prod
}

// consumeProductGadget is the verifier mirror of emitProductGadget.
func consumeProductGadget(b *proof.VerificationBuilder, aEval, bEval fr.Element) (fr.Element, error) {
	prodEval, err := b.TryConsumeFinalRoundMLEEvaluation()
	if err != nil {
		return fr.Element{}, err
	}
	var rhs, eval fr.Element
	rhs.Mul(&aEval, &bEval)
	eval.Sub(&prodEval, &rhs)
	if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.Identity, eval, 3); err != nil {
		return fr.Element{}, err
	}
	return prodEval, nil
}
