package commitment

import (
	"errors"
	"math/big"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verisql/verisql/base/scalar"
	"github.com/verisql/verisql/base/transcript"
)

// ErrOpeningRejected is returned when an inner-product opening proof fails.
var ErrOpeningRejected = errors.New("commitment: opening proof rejected")

// IPAProof is a Bulletproofs-style inner-product argument that a committed
// vector a with commitment C = <a, G> satisfies <a, b> = v for a public
// vector b. log2(n) L/R point pairs plus one final scalar.
type IPAProof struct {
	L []Commitment `cbor:"1,keyasint"`
	R []Commitment `cbor:"2,keyasint"`
	A fr.Element   `cbor:"3,keyasint"`
}

// ipaRounds returns log2(n) for power-of-two n.
func ipaRounds(n int) int {
	return bits.Len(uint(n)) - 1
}

// IPAProve produces an opening proof for <a, b> = v with C = <a, G>.
// len(a) must be a power of two and the transcript must already be bound to
// C, b's derivation, and v.
func IPAProve(t *transcript.Transcript, setup *PublicSetup, a, b []fr.Element) (*IPAProof, error) {
	n := len(a)
	if n == 0 || n&(n-1) != 0 || len(b) != n {
		return nil, errors.New("commitment: opening vectors must have equal power-of-two length")
	}
	gens, err := setup.Generators(0, n)
	if err != nil {
		return nil, err
	}

	// working copies; the fold below is destructive
	a = append([]fr.Element(nil), a...)
	b = append([]fr.Element(nil), b...)
	g := append([]bn254.G1Affine(nil), gens...)

	rounds := ipaRounds(n)
	proof := &IPAProof{
		L: make([]Commitment, 0, rounds),
		R: make([]Commitment, 0, rounds),
	}

	for n > 1 {
		half := n / 2
		aLo, aHi := a[:half], a[half:n]
		bLo, bHi := b[:half], b[half:n]
		gLo, gHi := g[:half], g[half:n]

		l, err := ipaCrossTerm(setup, aLo, gHi, bHi)
		if err != nil {
			return nil, err
		}
		r, err := ipaCrossTerm(setup, aHi, gLo, bLo)
		if err != nil {
			return nil, err
		}
		proof.L = append(proof.L, l)
		proof.R = append(proof.R, r)
		t.AppendBytes("ipa_l", l.TranscriptBytes())
		t.AppendBytes("ipa_r", r.TranscriptBytes())

		x := t.ChallengeScalar("ipa_x")
		var xInv fr.Element
		xInv.Inverse(&x)

		var tmp fr.Element
		var biInv big.Int
		xInv.BigInt(&biInv)
		for i := 0; i < half; i++ {
			// a' = a_lo + x * a_hi
			tmp.Mul(&x, &aHi[i])
			aLo[i].Add(&aLo[i], &tmp)
			// b' = b_lo + x^-1 * b_hi
			tmp.Mul(&xInv, &bHi[i])
			bLo[i].Add(&bLo[i], &tmp)
			// G' = G_lo + x^-1 * G_hi
			var scaled bn254.G1Jac
			scaled.FromAffine(&gHi[i])
			scaled.ScalarMultiplication(&scaled, &biInv)
			var lo bn254.G1Jac
			lo.FromAffine(&gLo[i])
			lo.AddAssign(&scaled)
			gLo[i].FromJacobian(&lo)
		}
		n = half
	}

	proof.A = a[0]
	t.AppendScalar("ipa_a", &proof.A)
	return proof, nil
}

// ipaCrossTerm computes <a, g> + <a, b> * Q.
func ipaCrossTerm(setup *PublicSetup, a []fr.Element, g []bn254.G1Affine, b []fr.Element) (Commitment, error) {
	var p bn254.G1Affine
	if _, err := p.MultiExp(g, a, ecc.MultiExpConfig{}); err != nil {
		return Commitment{}, err
	}
	ip := scalar.InnerProduct(a, b)
	var bi big.Int
	ip.BigInt(&bi)
	var q bn254.G1Jac
	q.FromAffine(&setup.q)
	q.ScalarMultiplication(&q, &bi)
	var acc bn254.G1Jac
	acc.FromAffine(&p)
	acc.AddAssign(&q)
	var res bn254.G1Affine
	res.FromJacobian(&acc)
	return Commitment{point: res}, nil
}

// IPAVerify checks an opening proof against commitment c, public vector b,
// and claimed inner product v. The transcript must be in the same state the
// prover's was when proving began.
func IPAVerify(t *transcript.Transcript, setup *PublicSetup, c Commitment, b []fr.Element, v fr.Element, proof *IPAProof) error {
	n := len(b)
	if n == 0 || n&(n-1) != 0 {
		return errors.New("commitment: opening vectors must have power-of-two length")
	}
	rounds := ipaRounds(n)
	if len(proof.L) != rounds || len(proof.R) != rounds {
		return ErrOpeningRejected
	}
	gens, err := setup.Generators(0, n)
	if err != nil {
		return err
	}

	// P = C + v*Q, then absorb the L/R cross terms round by round.
	var p bn254.G1Jac
	p.FromAffine(&c.point)
	var vBI big.Int
	v.BigInt(&vBI)
	var vq bn254.G1Jac
	vq.FromAffine(&setup.q)
	vq.ScalarMultiplication(&vq, &vBI)
	p.AddAssign(&vq)

	xs := make([]fr.Element, rounds)
	xInvs := make([]fr.Element, rounds)
	for j := 0; j < rounds; j++ {
		t.AppendBytes("ipa_l", proof.L[j].TranscriptBytes())
		t.AppendBytes("ipa_r", proof.R[j].TranscriptBytes())
		xs[j] = t.ChallengeScalar("ipa_x")
		if xs[j].IsZero() {
			return ErrOpeningRejected
		}
		xInvs[j].Inverse(&xs[j])

		var bi big.Int
		var term bn254.G1Jac
		xInvs[j].BigInt(&bi)
		term.FromAffine(&proof.L[j].point)
		term.ScalarMultiplication(&term, &bi)
		p.AddAssign(&term)
		xs[j].BigInt(&bi)
		term.FromAffine(&proof.R[j].point)
		term.ScalarMultiplication(&term, &bi)
		p.AddAssign(&term)
	}
	t.AppendScalar("ipa_a", &proof.A)

	// s_i = prod over set bits of i (MSB first) of x_j^-1; the same
	// coefficients fold both the generators and the public vector.
	s := make([]fr.Element, n)
	s[0] = fr.One()
	size := 1
	for j := 0; j < rounds; j++ {
		// spread so that round j's challenge lands on the j-th bit from the
		// top, matching the prover's hi/lo split
		for i := size - 1; i >= 0; i-- {
			s[2*i+1].Mul(&s[i], &xInvs[j])
			s[2*i] = s[i]
		}
		size *= 2
	}

	var g0 bn254.G1Affine
	if _, err := g0.MultiExp(gens, s, ecc.MultiExpConfig{}); err != nil {
		return err
	}
	b0 := scalar.InnerProduct(b, s)

	// a0*G0 + (a0*b0)*Q must equal the absorbed P.
	var lhs, term bn254.G1Jac
	var bi big.Int
	proof.A.BigInt(&bi)
	lhs.FromAffine(&g0)
	lhs.ScalarMultiplication(&lhs, &bi)
	var ab fr.Element
	ab.Mul(&proof.A, &b0)
	ab.BigInt(&bi)
	term.FromAffine(&setup.q)
	term.ScalarMultiplication(&term, &bi)
	lhs.AddAssign(&term)

	if !lhs.Equal(&p) {
		return ErrOpeningRejected
	}
	return nil
}
