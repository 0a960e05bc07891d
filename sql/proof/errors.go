// Package proof implements the round builders, transcript discipline, and
// prove/verify orchestration of the query proof protocol.
package proof

import (
	"errors"
	"fmt"
)

// The error taxonomy separates four failure classes that callers must treat
// differently:
//
//   - analysis errors: the plan or expression tree is structurally invalid
//     (type mismatch, unresolved reference); detected before proving starts
//   - protocol errors: the proof transcript is malformed or consumed out of
//     order; always a verification failure, never retried
//   - decoding errors: the verified result is not representable in its
//     declared domain; explicitly NOT a statement about proof validity
//   - verification failures: the cryptography rejected the proof; the result
//     must be discarded
var (
	ErrAnalysis           = errors.New("proof: analysis error")
	ErrProtocol           = errors.New("proof: protocol violation")
	ErrDecoding           = errors.New("proof: result decoding error")
	ErrVerificationFailed = errors.New("proof: verification failed")
)

func analysisErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrAnalysis}, args...)...)
}

func protocolErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrProtocol}, args...)...)
}

func decodingErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrDecoding}, args...)...)
}

func verificationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrVerificationFailed}, args...)...)
}

// AnalysisErrorf wraps ErrAnalysis; exported for expression and plan
// constructors living outside this package.
func AnalysisErrorf(format string, args ...any) error {
	return analysisErrorf(format, args...)
}
