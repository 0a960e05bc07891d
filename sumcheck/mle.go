package sumcheck

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

// TensorBasis expands an evaluation point into the vector of Lagrange basis
// values over the hypercube: basis[i] = prod_k (r_k if bit k of i is set,
// else 1 - r_k), bits counted from the most significant. The MLE of a table
// at the point is then the inner product of the table with this basis.
func TensorBasis(point []fr.Element) []fr.Element {
	out := make([]fr.Element, 1<<len(point))
	out[0] = fr.One()
	size := 1
	var oneMinus fr.Element
	one := fr.One()
	for _, r := range point {
		oneMinus.Sub(&one, &r)
		for i := size - 1; i >= 0; i-- {
			out[2*i+1].Mul(&out[i], &r)
			out[2*i].Mul(&out[i], &oneMinus)
		}
		size *= 2
	}
	return out
}

// EvaluateMLE evaluates the multilinear extension of table at the point,
// treating the table as zero-extended to the hypercube.
func EvaluateMLE(table []fr.Element, basis []fr.Element) fr.Element {
	var sum, t fr.Element
	n := min(len(table), len(basis))
	for i := 0; i < n; i++ {
		t.Mul(&table[i], &basis[i])
		sum.Add(&sum, &t)
	}
	return sum
}

// ChiEvaluation returns the MLE evaluation of the all-ones indicator of the
// first length rows: the partial sum of the basis vector. This is what pins
// a claimed table length inside an algebraic identity.
func ChiEvaluation(basis []fr.Element, length int) fr.Element {
	var sum fr.Element
	n := min(length, len(basis))
	for i := 0; i < n; i++ {
		sum.Add(&sum, &basis[i])
	}
	return sum
}

// EqEvaluation computes eq(z, r) = prod_k (z_k r_k + (1-z_k)(1-r_k)), the
// evaluation of the equality indicator MLE at two points.
func EqEvaluation(z, r []fr.Element) fr.Element {
	res := fr.One()
	one := fr.One()
	var zr, omz, omr, term fr.Element
	for k := range z {
		zr.Mul(&z[k], &r[k])
		omz.Sub(&one, &z[k])
		omr.Sub(&one, &r[k])
		term.Mul(&omz, &omr)
		term.Add(&term, &zr)
		res.Mul(&res, &term)
	}
	return res
}
