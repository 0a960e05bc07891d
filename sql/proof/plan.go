package proof

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verisql/verisql/base/arena"
	"github.com/verisql/verisql/base/commitment"
	"github.com/verisql/verisql/base/database"
)

// ColumnField describes one result column: its output name and type.
type ColumnField struct {
	Ident database.Ident
	Type  database.ColumnType
}

// TableEvaluation is the verifier-side image of a result table at the
// evaluation point: one claimed MLE evaluation per result column plus the
// chi evaluation pinning the result's row count.
type TableEvaluation struct {
	ColumnEvals []fr.Element
	ChiEval     fr.Element
}

// ProverAccessor is the state a prover needs: plaintext columns plus the
// commitments the verifier holds, so both sides bind the same statement.
type ProverAccessor interface {
	database.DataAccessor
	commitment.CommitmentAccessor
}

// ProofPlan is a provable query plan. A plan is evaluated three times with
// identical emission order: once per prover round against plaintext data, and
// once by the verifier against claimed evaluations. Every Produce* call a
// prover round makes must have its consuming mirror in VerifierEvaluate.
type ProofPlan interface {
	// TableReferences lists the base tables the plan reads, deduplicated.
	TableReferences() []database.TableRef

	// ColumnReferences lists the base columns the plan reads, deduplicated,
	// in a deterministic order shared by prover and verifier.
	ColumnReferences() []database.ColumnRef

	// ResultFields describes the output schema.
	ResultFields() []ColumnField

	// FirstRoundEvaluate computes the result table and declares output
	// lengths and challenge needs before any challenge is drawn.
	FirstRoundEvaluate(b *FirstRoundBuilder, alloc *arena.Arena, accessor database.DataAccessor, params []database.LiteralValue) (database.Table, error)

	// FinalRoundEvaluate re-derives the result and emits the witness columns
	// and sumcheck constraints, consuming post-result challenges as needed.
	FinalRoundEvaluate(b *FinalRoundBuilder, alloc *arena.Arena, accessor database.DataAccessor, params []database.LiteralValue) error

	// VerifierEvaluate replays the emission order against claimed
	// evaluations. columnEvals maps each base-column reference to its claimed
	// MLE evaluation; chiEvals maps each referenced table to the chi
	// evaluation of its length at the sumcheck point.
	VerifierEvaluate(b *VerificationBuilder, columnEvals map[database.ColumnRef]fr.Element, chiEvals map[database.TableRef]fr.Element, params []database.LiteralValue) (TableEvaluation, error)
}
