package scalar

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

// BatchPseudoInvert replaces every element of a with its inverse, in place.
// Zero elements stay zero. This is the pseudo-inverse used by the
// equality-to-zero gadget and the filter star columns.
func BatchPseudoInvert(a []fr.Element) {
	if len(a) == 0 {
		return
	}
	inv := fr.BatchInvert(a)
	copy(a, inv)
}

// AddConst adds c to every element of a, in place.
func AddConst(a []fr.Element, c fr.Element) {
	for i := range a {
		a[i].Add(&a[i], &c)
	}
}

// InnerProduct returns sum(a[i] * b[i]) over the shorter of the two slices.
// The protocol treats columns of unequal length as zero-extended, so the
// excess terms of the longer slice contribute nothing.
func InnerProduct(a, b []fr.Element) fr.Element {
	n := min(len(a), len(b))
	var sum, t fr.Element
	for i := 0; i < n; i++ {
		t.Mul(&a[i], &b[i])
		sum.Add(&sum, &t)
	}
	return sum
}

// Sum returns the sum of all elements of a.
func Sum(a []fr.Element) fr.Element {
	var sum fr.Element
	for i := range a {
		sum.Add(&sum, &a[i])
	}
	return sum
}

// MulAddAssign computes dst[i] += m * src[i] for every element of src.
func MulAddAssign(dst []fr.Element, m fr.Element, src []fr.Element) {
	var t fr.Element
	for i := range src {
		t.Mul(&m, &src[i])
		dst[i].Add(&dst[i], &t)
	}
}
