package proof

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

// SumcheckSubpolynomialType distinguishes the two constraint shapes the
// protocol emits.
type SumcheckSubpolynomialType uint8

const (
	// ZeroSum constrains the sum of the subpolynomial over all rows to zero.
	ZeroSum SumcheckSubpolynomialType = iota
	// Identity constrains the subpolynomial to vanish at every row.
	Identity
)

// SumcheckSubpolynomialTerm is one weighted product of referenced columns.
type SumcheckSubpolynomialTerm struct {
	Coeff         fr.Element
	Multiplicands [][]fr.Element
}

// Term builds a +1-weighted product term.
func Term(multiplicands ...[]fr.Element) SumcheckSubpolynomialTerm {
	return SumcheckSubpolynomialTerm{Coeff: fr.One(), Multiplicands: multiplicands}
}

// NegTerm builds a -1-weighted product term.
func NegTerm(multiplicands ...[]fr.Element) SumcheckSubpolynomialTerm {
	var c fr.Element
	one := fr.One()
	c.Neg(&one)
	return SumcheckSubpolynomialTerm{Coeff: c, Multiplicands: multiplicands}
}

// SumcheckSubpolynomial is one algebraic constraint emitted during the final
// round: a weighted sum of products of columns that must either sum to zero
// over the domain or vanish row-wise.
type SumcheckSubpolynomial struct {
	Type  SumcheckSubpolynomialType
	Terms []SumcheckSubpolynomialTerm
}

// Degree returns the largest number of multiplicands in any term, counting
// the implicit row-selector factor for Identity constraints.
func (s SumcheckSubpolynomial) Degree() int {
	d := 1
	for _, t := range s.Terms {
		d = max(d, len(t.Multiplicands))
	}
	if s.Type == Identity {
		d++
	}
	return d
}
