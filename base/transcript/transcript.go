// Package transcript implements the Fiat-Shamir transcript binding every
// prover message to the challenges derived from it.
//
// The transcript is an explicit object threaded through the protocol; there
// is no ambient hash state. Prover and verifier must perform the exact same
// sequence of appends and extractions, which is what makes the proof
// non-interactive and replayable.
package transcript

import (
	"encoding/binary"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/gtank/merlin"
)

// Transcript wraps a merlin transcript with field-element helpers.
type Transcript struct {
	inner *merlin.Transcript
}

// New creates a transcript under the given domain-separation label.
func New(label string) *Transcript {
	return &Transcript{inner: merlin.NewTranscript(label)}
}

// AppendBytes binds raw bytes to the transcript.
func (t *Transcript) AppendBytes(label string, b []byte) {
	t.inner.AppendMessage([]byte(label), b)
}

// AppendUint64 binds an unsigned integer to the transcript.
func (t *Transcript) AppendUint64(label string, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	t.inner.AppendMessage([]byte(label), buf[:])
}

// AppendScalar binds one field element, in canonical big-endian form.
func (t *Transcript) AppendScalar(label string, e *fr.Element) {
	b := e.Bytes()
	t.inner.AppendMessage([]byte(label), b[:])
}

// AppendScalars binds a sequence of field elements.
func (t *Transcript) AppendScalars(label string, es []fr.Element) {
	for i := range es {
		t.AppendScalar(label, &es[i])
	}
}

// ChallengeScalar derives one field element from the transcript state.
// The 64-byte extraction keeps the modular reduction bias negligible.
func (t *Transcript) ChallengeScalar(label string) fr.Element {
	b := t.inner.ExtractBytes([]byte(label), 64)
	var e fr.Element
	e.SetBytes(b)
	return e
}

// ChallengeScalars derives n field elements from the transcript state.
func (t *Transcript) ChallengeScalars(label string, n int) []fr.Element {
	out := make([]fr.Element, n)
	for i := range out {
		out[i] = t.ChallengeScalar(label)
	}
	return out
}

// ExtractBytes derives n bytes from the transcript state.
func (t *Transcript) ExtractBytes(label string, n int) []byte {
	return t.inner.ExtractBytes([]byte(label), n)
}
