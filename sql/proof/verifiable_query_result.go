package proof

import (
	"github.com/verisql/verisql/base/commitment"
	"github.com/verisql/verisql/base/database"
)

// VerifiableQueryResult is the complete wire object a prover returns for a
// query: the serialized result table plus the proof that it is correct.
type VerifiableQueryResult struct {
	ResultBytes []byte      `cbor:"1,keyasint"`
	Proof       *QueryProof `cbor:"2,keyasint"`
}

// QueryData is what a successful verification yields: the decoded result
// table and a hash binding the query, the commitments, and the proof. Two
// verifiers agreeing on the hash agree on the entire interaction.
type QueryData struct {
	Table            database.OwnedTable
	VerificationHash [32]byte
}

// NewVerifiableQueryResult proves the plan against plaintext data and bundles
// the result with its proof. The bundled bytes are the exact encoding the
// prover bound to the transcript.
func NewVerifiableQueryResult(plan ProofPlan, accessor ProverAccessor, setup *commitment.PublicSetup, params []database.LiteralValue, opts ...Option) (*VerifiableQueryResult, error) {
	proof, _, resultBytes, err := prove(plan, accessor, setup, params, opts...)
	if err != nil {
		return nil, err
	}
	return &VerifiableQueryResult{ResultBytes: resultBytes, Proof: proof}, nil
}

// Verify checks the bundled proof and returns the decoded result table.
// Decoding failures wrap ErrDecoding and say nothing about proof validity;
// rejected proofs wrap ErrVerificationFailed.
func (r *VerifiableQueryResult) Verify(plan ProofPlan, accessor commitment.CommitmentAccessor, setup *commitment.PublicSetup, params []database.LiteralValue) (*QueryData, error) {
	if r.Proof == nil {
		return nil, protocolErrorf("result carries no proof")
	}
	table, err := DecodeTable(r.ResultBytes)
	if err != nil {
		return nil, err
	}
	hash, err := Verify(plan, accessor, r.Proof, table, setup, params)
	if err != nil {
		return nil, err
	}
	return &QueryData{Table: table, VerificationHash: hash}, nil
}

// vqrWire strips the BinaryMarshaler methods so the cbor encoder walks the
// struct instead of calling back into MarshalBinary.
type vqrWire VerifiableQueryResult

// MarshalBinary encodes the bundle deterministically.
func (r *VerifiableQueryResult) MarshalBinary() ([]byte, error) {
	return resultEncMode.Marshal((*vqrWire)(r))
}

// UnmarshalBinary decodes a bundle produced by MarshalBinary.
func (r *VerifiableQueryResult) UnmarshalBinary(data []byte) error {
	return resultDecMode.Unmarshal(data, (*vqrWire)(r))
}
