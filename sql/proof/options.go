package proof

import "github.com/verisql/verisql/base/commitment"

// Option configures the prover.
type Option func(*proverConfig)

type proverConfig struct {
	backend commitment.Backend
	nbTasks int
}

func newProverConfig(opts ...Option) proverConfig {
	cfg := proverConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.backend == nil {
		cfg.backend = commitment.MultiExpBackend{NbTasks: cfg.nbTasks}
	}
	return cfg
}

// WithParallelism bounds the number of tasks each witness-commitment
// multi-exponentiation may fan out to. Zero or negative means one task per
// available CPU.
func WithParallelism(n int) Option {
	return func(cfg *proverConfig) {
		cfg.nbTasks = n
	}
}

// WithCommitmentBackend selects the backend used to commit witness columns.
// It overrides WithParallelism.
func WithCommitmentBackend(b commitment.Backend) Option {
	return func(cfg *proverConfig) {
		cfg.backend = b
	}
}
