// Package commitment implements the homomorphic commitment scheme layer.
//
// Commitments are Pedersen vector commitments over bn254 G1: a column
// f = (f_0, ..., f_{n-1}) with generator offset k commits to
// sum_i f_i * G_{k+i}. Commitments form a module over the scalar field, which
// is what lets the verifier recombine them algebraically without ever seeing
// the committed columns. Two interchangeable backends compute the same
// commitments (a naive reference and a multi-exponentiation backend); they
// must agree bit for bit.
package commitment

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Commitment is a homomorphic accumulator over one committed column.
// The zero value is the commitment to the zero column.
type Commitment struct {
	point bn254.G1Affine
}

// FromAffine wraps a curve point as a commitment.
func FromAffine(p bn254.G1Affine) Commitment {
	return Commitment{point: p}
}

// Add returns c + other.
func (c Commitment) Add(other Commitment) Commitment {
	var j, o bn254.G1Jac
	j.FromAffine(&c.point)
	o.FromAffine(&other.point)
	j.AddAssign(&o)
	var res bn254.G1Affine
	res.FromJacobian(&j)
	return Commitment{point: res}
}

// Sub returns c - other.
func (c Commitment) Sub(other Commitment) Commitment {
	return c.Add(other.Neg())
}

// Neg returns the additive inverse of c.
func (c Commitment) Neg() Commitment {
	var res bn254.G1Affine
	res.Neg(&c.point)
	return Commitment{point: res}
}

// ScalarMul returns s * c.
func (c Commitment) ScalarMul(s *fr.Element) Commitment {
	var bi big.Int
	s.BigInt(&bi)
	var j bn254.G1Jac
	j.FromAffine(&c.point)
	j.ScalarMultiplication(&j, &bi)
	var res bn254.G1Affine
	res.FromJacobian(&j)
	return Commitment{point: res}
}

// Equal reports exact equality.
func (c Commitment) Equal(other Commitment) bool {
	return c.point.Equal(&other.point)
}

// IsZero reports whether c commits to the zero column.
func (c Commitment) IsZero() bool {
	return c.point.IsInfinity()
}

// TranscriptBytes returns the canonical uncompressed encoding fed into the
// Fiat-Shamir transcript.
func (c Commitment) TranscriptBytes() []byte {
	b := c.point.RawBytes()
	return b[:]
}

// MarshalBinary encodes the commitment in compressed form.
// The identity element round-trips.
func (c Commitment) MarshalBinary() ([]byte, error) {
	b := c.point.Bytes()
	return b[:], nil
}

// UnmarshalBinary decodes a compressed commitment, rejecting points outside
// the curve or its prime-order subgroup.
func (c *Commitment) UnmarshalBinary(data []byte) error {
	if len(data) != bn254.SizeOfG1AffineCompressed {
		return errors.New("commitment: invalid encoding length")
	}
	_, err := c.point.SetBytes(data)
	return err
}
