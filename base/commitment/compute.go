package commitment

import (
	"math/big"
	"runtime"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/sync/errgroup"

	"github.com/verisql/verisql/logger"
)

// Backend computes Pedersen commitments for committable columns. All
// conforming backends must produce identical commitments for identical
// inputs; the choice of backend is a performance decision only.
type Backend interface {
	// ComputeCommitments returns one commitment per column, each committed
	// against generators starting at the given offset.
	ComputeCommitments(columns []CommittableColumn, offset int, setup *PublicSetup) ([]Commitment, error)
	// Name identifies the backend in logs.
	Name() string
}

// MultiExpBackend computes commitments with gnark-crypto's multi-scalar
// multiplication, fanning out over columns. This is the default backend.
type MultiExpBackend struct {
	// NbTasks bounds the parallelism of each multi-exponentiation.
	// Zero means one task per available CPU.
	NbTasks int
}

func (b MultiExpBackend) Name() string { return "msm" }

// ComputeCommitments implements Backend.
func (b MultiExpBackend) ComputeCommitments(columns []CommittableColumn, offset int, setup *PublicSetup) ([]Commitment, error) {
	log := logger.With("commitment")
	start := time.Now()

	nbTasks := b.NbTasks
	if nbTasks <= 0 {
		nbTasks = runtime.NumCPU()
	}

	out := make([]Commitment, len(columns))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := range columns {
		g.Go(func() error {
			if columns[i].Len() == 0 {
				return nil
			}
			points, err := setup.Generators(offset, columns[i].Len())
			if err != nil {
				return err
			}
			var p bn254.G1Affine
			if _, err := p.MultiExp(points, columns[i].Values, ecc.MultiExpConfig{NbTasks: nbTasks}); err != nil {
				return err
			}
			out[i] = Commitment{point: p}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug().Dur("took", time.Since(start)).Int("columns", len(columns)).Msg("computed commitments")
	return out, nil
}

// NaiveBackend computes commitments term by term with scalar
// multiplications. It exists as the reference implementation the accelerated
// backend is checked against.
type NaiveBackend struct{}

func (NaiveBackend) Name() string { return "naive" }

// ComputeCommitments implements Backend.
func (NaiveBackend) ComputeCommitments(columns []CommittableColumn, offset int, setup *PublicSetup) ([]Commitment, error) {
	out := make([]Commitment, len(columns))
	for i, col := range columns {
		points, err := setup.Generators(offset, col.Len())
		if err != nil {
			return nil, err
		}
		var acc bn254.G1Jac
		var term bn254.G1Jac
		var bi big.Int
		for j := range col.Values {
			if col.Values[j].IsZero() {
				continue
			}
			term.FromAffine(&points[j])
			col.Values[j].BigInt(&bi)
			term.ScalarMultiplication(&term, &bi)
			acc.AddAssign(&term)
		}
		var p bn254.G1Affine
		p.FromJacobian(&acc)
		out[i] = Commitment{point: p}
	}
	return out, nil
}

// CommitColumns is a convenience wrapper using the default backend.
func CommitColumns(columns []CommittableColumn, offset int, setup *PublicSetup) ([]Commitment, error) {
	return MultiExpBackend{}.ComputeCommitments(columns, offset, setup)
}

var _ Backend = MultiExpBackend{}
var _ Backend = NaiveBackend{}

// FoldCommitments returns sum_k gamma^k * comms[k], matching the scalar-side
// fold of the batched opening argument.
func FoldCommitments(comms []Commitment, gamma *fr.Element) Commitment {
	var acc Commitment
	pow := fr.One()
	for k := range comms {
		acc = acc.Add(comms[k].ScalarMul(&pow))
		pow.Mul(&pow, gamma)
	}
	return acc
}
