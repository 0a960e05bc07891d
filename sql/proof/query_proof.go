package proof

import (
	"errors"
	"fmt"
	"math/bits"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verisql/verisql/base/arena"
	"github.com/verisql/verisql/base/commitment"
	"github.com/verisql/verisql/base/database"
	"github.com/verisql/verisql/base/scalar"
	"github.com/verisql/verisql/base/transcript"
	"github.com/verisql/verisql/debug"
	"github.com/verisql/verisql/logger"
	"github.com/verisql/verisql/sumcheck"
)

// transcriptLabel domain-separates this protocol version. Any change to the
// transcript schedule must bump it.
const transcriptLabel = "verisql.query.v1"

// QueryProof is everything the prover sends besides the result table: shape
// metadata fixing the transcript schedule, the witness commitments, the
// sumcheck transcript, the claimed openings, and the batched opening proof.
type QueryProof struct {
	RangeLength              int                     `cbor:"1,keyasint"`
	ChiLengths               []int                   `cbor:"2,keyasint"`
	PostResultChallengeCount int                     `cbor:"3,keyasint"`
	SubpolynomialCount       int                     `cbor:"4,keyasint"`
	Degree                   int                     `cbor:"5,keyasint"`
	WitnessCommitments       []commitment.Commitment `cbor:"6,keyasint"`
	SumcheckProof            sumcheck.Proof          `cbor:"7,keyasint"`
	MLEEvaluations           []fr.Element            `cbor:"8,keyasint"`
	OpeningProof             commitment.IPAProof     `cbor:"9,keyasint"`
}

// numVarsFor returns ceil(log2(rangeLength)), the hypercube dimension of the
// smallest power-of-two domain covering rangeLength rows.
func numVarsFor(rangeLength int) int {
	if rangeLength <= 1 {
		return 0
	}
	return bits.Len(uint(rangeLength - 1))
}

// Prove evaluates the plan against plaintext data and produces a proof that
// the returned result table is correct with respect to the accessor's
// commitments.
func Prove(plan ProofPlan, accessor ProverAccessor, setup *commitment.PublicSetup, params []database.LiteralValue, opts ...Option) (*QueryProof, database.OwnedTable, error) {
	proof, result, _, err := prove(plan, accessor, setup, params, opts...)
	return proof, result, err
}

// prove additionally returns the canonical result encoding bound to the
// transcript, so callers bundling the result do not encode it a second time.
func prove(plan ProofPlan, accessor ProverAccessor, setup *commitment.PublicSetup, params []database.LiteralValue, opts ...Option) (*QueryProof, database.OwnedTable, []byte, error) {
	log := logger.With("prover")
	start := time.Now()
	cfg := newProverConfig(opts...)
	alloc := arena.New()

	initialRange := 0
	for _, ref := range plan.TableReferences() {
		n, err := accessor.TableLength(ref)
		if err != nil {
			return nil, database.OwnedTable{}, nil, analysisErrorf("%v", err)
		}
		initialRange = max(initialRange, n)
	}

	firstB := NewFirstRoundBuilder(initialRange)
	resultView, err := plan.FirstRoundEvaluate(firstB, alloc, accessor, params)
	if err != nil {
		return nil, database.OwnedTable{}, nil, err
	}
	result, err := ownResult(resultView)
	if err != nil {
		return nil, database.OwnedTable{}, nil, err
	}
	resultBytes, err := EncodeTable(result)
	if err != nil {
		return nil, database.OwnedTable{}, nil, err
	}

	rangeLength := firstB.RangeLength()
	numVars := numVarsFor(rangeLength)
	paddedLen := 1 << numVars

	refs := plan.ColumnReferences()
	inputComms := make([]commitment.Commitment, len(refs))
	for i, ref := range refs {
		if inputComms[i], err = accessor.Commitment(ref); err != nil {
			return nil, database.OwnedTable{}, nil, analysisErrorf("%v", err)
		}
	}

	t := transcript.New(transcriptLabel)
	bindFirstRound(t, rangeLength, resultBytes, firstB.ChiEvaluationLengths(), firstB.PostResultChallengeCount())
	for i := range inputComms {
		t.AppendBytes("input_commitment", inputComms[i].TranscriptBytes())
	}
	postChallenges := t.ChallengeScalars("post_result_challenge", firstB.PostResultChallengeCount())

	finalB := NewFinalRoundBuilder(postChallenges)
	if err := plan.FinalRoundEvaluate(finalB, alloc, accessor, params); err != nil {
		return nil, database.OwnedTable{}, nil, err
	}

	witnessMLEs := finalB.IntermediateMLEs()
	committables := make([]commitment.CommittableColumn, len(witnessMLEs))
	for i, mle := range witnessMLEs {
		committables[i] = commitment.MakeCommittableScalars(mle)
	}
	witnessComms, err := cfg.backend.ComputeCommitments(committables, 0, setup)
	if err != nil {
		return nil, database.OwnedTable{}, nil, err
	}
	for i := range witnessComms {
		t.AppendBytes("witness_commitment", witnessComms[i].TranscriptBytes())
	}

	subpolys := finalB.Subpolynomials()
	multipliers := t.ChallengeScalars("subpolynomial_multiplier", len(subpolys))
	z := t.ChallengeScalars("entrywise_point", numVars)
	eqTable := sumcheck.TensorBasis(z)

	poly := batchSubpolynomials(subpolys, multipliers, eqTable, numVars)
	scProof, point := sumcheck.Prove(t, poly)

	// claimed openings: base columns in reference order, then witness columns
	// in emission order
	basis := sumcheck.TensorBasis(point)
	vectors := make([][]fr.Element, 0, len(refs)+len(witnessMLEs))
	for _, ref := range refs {
		col, err := accessor.Column(ref)
		if err != nil {
			return nil, database.OwnedTable{}, nil, analysisErrorf("%v", err)
		}
		vectors = append(vectors, col.ToScalars(alloc))
	}
	vectors = append(vectors, witnessMLEs...)
	evals := make([]fr.Element, len(vectors))
	for i, v := range vectors {
		evals[i] = sumcheck.EvaluateMLE(v, basis)
	}
	t.AppendScalars("mle_evaluation", evals)

	// batched opening: fold every committed vector and its claimed evaluation
	// with powers of gamma, then open the single combined claim
	gamma := t.ChallengeScalar("batch_fold")
	aBatch := make([]fr.Element, paddedLen)
	var vBatch fr.Element
	pow := fr.One()
	var tmp fr.Element
	for i, v := range vectors {
		scalar.MulAddAssign(aBatch, pow, v)
		tmp.Mul(&pow, &evals[i])
		vBatch.Add(&vBatch, &tmp)
		pow.Mul(&pow, &gamma)
	}
	opening, err := commitment.IPAProve(t, setup, aBatch, basis)
	if err != nil {
		return nil, database.OwnedTable{}, nil, err
	}

	log.Debug().
		Dur("took", time.Since(start)).
		Int("range_length", rangeLength).
		Int("witness_columns", len(witnessMLEs)).
		Int("subpolynomials", len(subpolys)).
		Msg("produced query proof")

	return &QueryProof{
		RangeLength:              rangeLength,
		ChiLengths:               firstB.ChiEvaluationLengths(),
		PostResultChallengeCount: firstB.PostResultChallengeCount(),
		SubpolynomialCount:       len(subpolys),
		Degree:                   poly.Degree(),
		WitnessCommitments:       witnessComms,
		SumcheckProof:            *scProof,
		MLEEvaluations:           evals,
		OpeningProof:             *opening,
	}, result, resultBytes, nil
}

// Verify checks a proof against the plan, the verifier's commitments, and the
// claimed result table. On success it returns the 32-byte verification hash
// fixing the entire interaction.
func Verify(plan ProofPlan, accessor commitment.CommitmentAccessor, proof *QueryProof, result database.OwnedTable, setup *commitment.PublicSetup, params []database.LiteralValue) ([32]byte, error) {
	var hash [32]byte
	log := logger.With("verifier")
	start := time.Now()

	refs := plan.ColumnReferences()
	if err := checkProofShape(proof, len(refs)); err != nil {
		return hash, err
	}
	if err := checkResultSchema(plan.ResultFields(), result); err != nil {
		return hash, err
	}

	// an honest range length is the largest referenced table; bounding the
	// header against that keeps a forged proof from dictating the domain size
	tableLengths := make(map[database.TableRef]int)
	maxTableLength := 0
	for _, ref := range plan.TableReferences() {
		n, err := accessor.TableLength(ref)
		if err != nil {
			return hash, analysisErrorf("%v", err)
		}
		if n > proof.RangeLength {
			return hash, protocolErrorf("table %q has %d rows, proof covers %d", ref, n, proof.RangeLength)
		}
		tableLengths[ref] = n
		maxTableLength = max(maxTableLength, n)
	}
	if proof.RangeLength > maxTableLength {
		return hash, protocolErrorf("proof covers %d rows, largest referenced table has %d", proof.RangeLength, maxTableLength)
	}

	numVars := numVarsFor(proof.RangeLength)
	paddedLen := 1 << numVars
	if result.NumRows() > paddedLen {
		return hash, protocolErrorf("result has %d rows, domain holds %d", result.NumRows(), paddedLen)
	}

	resultBytes, err := EncodeTable(result)
	if err != nil {
		return hash, err
	}

	inputComms := make([]commitment.Commitment, len(refs))
	for i, ref := range refs {
		if inputComms[i], err = accessor.Commitment(ref); err != nil {
			return hash, analysisErrorf("%v", err)
		}
	}

	t := transcript.New(transcriptLabel)
	bindFirstRound(t, proof.RangeLength, resultBytes, proof.ChiLengths, proof.PostResultChallengeCount)
	for i := range inputComms {
		t.AppendBytes("input_commitment", inputComms[i].TranscriptBytes())
	}
	postChallenges := t.ChallengeScalars("post_result_challenge", proof.PostResultChallengeCount)

	for i := range proof.WitnessCommitments {
		t.AppendBytes("witness_commitment", proof.WitnessCommitments[i].TranscriptBytes())
	}
	multipliers := t.ChallengeScalars("subpolynomial_multiplier", proof.SubpolynomialCount)
	z := t.ChallengeScalars("entrywise_point", numVars)

	var zero fr.Element
	point, expected, err := sumcheck.Verify(t, &proof.SumcheckProof, numVars, proof.Degree, zero)
	if err != nil {
		if errors.Is(err, sumcheck.ErrMalformedProof) {
			return hash, protocolErrorf("%v", err)
		}
		return hash, verificationErrorf("%v", err)
	}

	basis := sumcheck.TensorBasis(point)
	eqEval := sumcheck.EqEvaluation(z, point)

	chiEvals := make([]fr.Element, len(proof.ChiLengths))
	for i, length := range proof.ChiLengths {
		chiEvals[i] = sumcheck.ChiEvaluation(basis, length)
	}
	tableChiEvals := make(map[database.TableRef]fr.Element, len(tableLengths))
	for ref, n := range tableLengths {
		tableChiEvals[ref] = sumcheck.ChiEvaluation(basis, n)
	}

	columnEvals := make(map[database.ColumnRef]fr.Element, len(refs))
	for i, ref := range refs {
		columnEvals[ref] = proof.MLEEvaluations[i]
	}
	witnessEvals := proof.MLEEvaluations[len(refs):]

	builder := NewVerificationBuilder(witnessEvals, proof.WitnessCommitments, postChallenges, chiEvals, multipliers, eqEval, proof.Degree)
	tableEval, err := plan.VerifierEvaluate(builder, columnEvals, tableChiEvals, params)
	if err != nil {
		return hash, err
	}
	if err := builder.ConsumedAll(); err != nil {
		return hash, err
	}

	aggregate := builder.Aggregate()
	if !aggregate.Equal(&expected) {
		return hash, verificationErrorf("constraint aggregate does not match sumcheck evaluation")
	}
	if err := checkResultEvaluation(result, tableEval, basis); err != nil {
		return hash, err
	}

	t.AppendScalars("mle_evaluation", proof.MLEEvaluations)
	gamma := t.ChallengeScalar("batch_fold")

	comms := make([]commitment.Commitment, 0, len(proof.MLEEvaluations))
	comms = append(comms, inputComms...)
	comms = append(comms, proof.WitnessCommitments...)
	folded := commitment.FoldCommitments(comms, &gamma)

	var vBatch, tmp fr.Element
	pow := fr.One()
	for i := range proof.MLEEvaluations {
		tmp.Mul(&pow, &proof.MLEEvaluations[i])
		vBatch.Add(&vBatch, &tmp)
		pow.Mul(&pow, &gamma)
	}
	if err := commitment.IPAVerify(t, setup, folded, basis, vBatch, &proof.OpeningProof); err != nil {
		return hash, verificationErrorf("%v", err)
	}

	copy(hash[:], t.ExtractBytes("verification_hash", 32))
	log.Debug().Dur("took", time.Since(start)).Msg("verified query proof")
	return hash, nil
}

// bindFirstRound appends the prover's first message: the domain size, the
// serialized result, and the declared shape of what follows.
func bindFirstRound(t *transcript.Transcript, rangeLength int, resultBytes []byte, chiLengths []int, challengeCount int) {
	t.AppendUint64("range_length", uint64(rangeLength))
	t.AppendBytes("result_table", resultBytes)
	t.AppendUint64("chi_length_count", uint64(len(chiLengths)))
	for _, length := range chiLengths {
		t.AppendUint64("chi_length", uint64(length))
	}
	t.AppendUint64("post_result_challenge_count", uint64(challengeCount))
}

// batchSubpolynomials flattens the constraints into one sumcheck polynomial:
// each constraint's terms scaled by its multiplier, Identity constraints
// multiplied by the entrywise selector row eq(z, .). The batched claim sums
// to zero by construction when every constraint holds.
func batchSubpolynomials(subpolys []SumcheckSubpolynomial, multipliers []fr.Element, eqTable []fr.Element, numVars int) sumcheck.Polynomial {
	debug.Assert(len(multipliers) == len(subpolys), "%d multipliers for %d subpolynomials", len(multipliers), len(subpolys))
	var terms []sumcheck.Term
	for i, sp := range subpolys {
		for _, st := range sp.Terms {
			var coeff fr.Element
			coeff.Mul(&multipliers[i], &st.Coeff)
			mults := st.Multiplicands
			if sp.Type == Identity {
				mults = append(append([][]fr.Element(nil), mults...), eqTable)
			}
			terms = append(terms, sumcheck.Term{Coeff: coeff, Multiplicands: mults})
		}
	}
	return sumcheck.Polynomial{NumVars: numVars, Terms: terms}
}

// maxHeaderCount caps the challenge and constraint counts a proof header may
// declare; both size verifier-side allocations.
const maxHeaderCount = 1 << 20

func checkProofShape(proof *QueryProof, numColumnRefs int) error {
	switch {
	case proof.RangeLength < 0:
		return protocolErrorf("negative range length")
	case proof.Degree < 1:
		return protocolErrorf("degree bound must be at least 1")
	case proof.PostResultChallengeCount < 0 || proof.SubpolynomialCount < 0:
		return protocolErrorf("negative count in proof header")
	case proof.PostResultChallengeCount > maxHeaderCount || proof.SubpolynomialCount > maxHeaderCount:
		return protocolErrorf("proof header count exceeds limit of %d", maxHeaderCount)
	case len(proof.MLEEvaluations) != numColumnRefs+len(proof.WitnessCommitments):
		return protocolErrorf("proof claims %d openings for %d committed columns",
			len(proof.MLEEvaluations), numColumnRefs+len(proof.WitnessCommitments))
	}
	for _, length := range proof.ChiLengths {
		if length < 0 || length > proof.RangeLength {
			return protocolErrorf("chi length %d outside domain of %d rows", length, proof.RangeLength)
		}
	}
	return nil
}

func checkResultSchema(fields []ColumnField, result database.OwnedTable) error {
	if result.NumColumns() != len(fields) {
		return protocolErrorf("result has %d columns, plan produces %d", result.NumColumns(), len(fields))
	}
	for i, f := range fields {
		if result.Idents()[i] != f.Ident {
			return protocolErrorf("result column %d is %q, plan produces %q", i, result.Idents()[i], f.Ident)
		}
		if result.ColumnAt(i).Type != f.Type {
			return protocolErrorf("result column %q has type %s, plan produces %s", f.Ident, result.ColumnAt(i).Type, f.Type)
		}
	}
	return nil
}

// checkResultEvaluation reconciles the claimed result table against the
// verifier-side image of the plan's output: every column's MLE evaluation and
// the chi evaluation of the row count must match what the constraint replay
// produced.
func checkResultEvaluation(result database.OwnedTable, tableEval TableEvaluation, basis []fr.Element) error {
	if len(tableEval.ColumnEvals) != result.NumColumns() {
		return protocolErrorf("plan evaluated %d result columns, table has %d", len(tableEval.ColumnEvals), result.NumColumns())
	}
	alloc := arena.New()
	for i := 0; i < result.NumColumns(); i++ {
		scalars := result.ColumnAt(i).View().ToScalars(alloc)
		eval := sumcheck.EvaluateMLE(scalars, basis)
		if !eval.Equal(&tableEval.ColumnEvals[i]) {
			return verificationErrorf("result column %q does not match proven output", result.Idents()[i])
		}
	}
	chi := sumcheck.ChiEvaluation(basis, result.NumRows())
	if !chi.Equal(&tableEval.ChiEval) {
		return verificationErrorf("result row count does not match proven output")
	}
	return nil
}

// ownResult deep-copies a round-scoped result table into heap-owned form.
func ownResult(t database.Table) (database.OwnedTable, error) {
	idents := append([]database.Ident(nil), t.Idents()...)
	columns := make([]database.OwnedColumn, t.NumColumns())
	for i := range columns {
		columns[i] = database.ToOwned(t.ColumnAt(i))
	}
	owned, err := database.NewOwnedTable(idents, columns)
	if err != nil {
		return database.OwnedTable{}, fmt.Errorf("own result table: %w", err)
	}
	return owned, nil
}
