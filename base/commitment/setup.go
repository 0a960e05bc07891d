package commitment

import (
	"encoding/binary"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"
)

const generatorDST = "verisql/commitment/v1/generator"
const blindingDST = "verisql/commitment/v1/q"

// PublicSetup holds the generator vector shared by prover and verifier.
// Generators are derived deterministically by hashing to the curve, so two
// parties agreeing on a size always agree on the setup.
type PublicSetup struct {
	generators []bn254.G1Affine
	q          bn254.G1Affine
}

// NewPublicSetup derives a setup with n generators.
func NewPublicSetup(n int) (*PublicSetup, error) {
	gens := make([]bn254.G1Affine, n)
	var msg [8]byte
	for i := range gens {
		binary.LittleEndian.PutUint64(msg[:], uint64(i))
		g, err := bn254.HashToG1(msg[:], []byte(generatorDST))
		if err != nil {
			return nil, fmt.Errorf("commitment: generator derivation: %w", err)
		}
		gens[i] = g
	}
	q, err := bn254.HashToG1(nil, []byte(blindingDST))
	if err != nil {
		return nil, fmt.Errorf("commitment: generator derivation: %w", err)
	}
	return &PublicSetup{generators: gens, q: q}, nil
}

// Size returns the number of generators.
func (s *PublicSetup) Size() int { return len(s.generators) }

// Generators returns the n generators starting at offset.
func (s *PublicSetup) Generators(offset, n int) ([]bn254.G1Affine, error) {
	if offset < 0 || n < 0 || offset+n > len(s.generators) {
		return nil, fmt.Errorf("commitment: setup too small: need generators [%d, %d), have %d",
			offset, offset+n, len(s.generators))
	}
	return s.generators[offset : offset+n], nil
}
