// Package scalar provides the field layer of the proof system.
//
// All protocol arithmetic happens over the bn254 scalar field, using
// gnark-crypto's fr.Element. This package adds the conversions the column
// model needs (machine integers, booleans, byte strings) and the batched
// field operations the gadgets rely on.
package scalar

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/crypto/sha3"
)

// Zero returns the additive identity.
func Zero() fr.Element {
	var z fr.Element
	return z
}

// One returns the multiplicative identity.
func One() fr.Element {
	return fr.One()
}

// FromUint64 converts an unsigned integer to a field element.
func FromUint64(v uint64) fr.Element {
	var e fr.Element
	e.SetUint64(v)
	return e
}

// FromInt64 converts a signed integer to a field element. Negative values map
// to the additive inverse of their magnitude.
func FromInt64(v int64) fr.Element {
	var e fr.Element
	e.SetInt64(v)
	return e
}

// FromBool maps true to one and false to zero.
func FromBool(v bool) fr.Element {
	if v {
		return One()
	}
	return Zero()
}

// FromBigInt reduces v modulo the field order.
func FromBigInt(v *big.Int) fr.Element {
	var e fr.Element
	e.SetBigInt(v)
	return e
}

// HashBytes maps an arbitrary byte string into the field by reducing its
// Keccak-256 digest. Variable-length values are committed through this hash,
// never through their raw bytes.
func HashBytes(b []byte) fr.Element {
	h := sha3.NewLegacyKeccak256()
	h.Write(b)
	var e fr.Element
	e.SetBytes(h.Sum(nil))
	return e
}
