// Package arena implements the round-scoped bump allocator backing all
// intermediate protocol columns.
//
// Every slice handed out lives exactly as long as one round of one query:
// expressions and plans allocate freely during a round and the whole arena is
// released in bulk with Reset. Slices must never be retained across rounds.
package arena

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

const minBlock = 1 << 12

// Arena hands out scalar and boolean sub-slices from growable blocks.
// It is not safe for concurrent use; each round builder owns exactly one.
type Arena struct {
	scalarBlocks [][]fr.Element
	scalarOff    int
	boolBlocks   [][]bool
	boolOff      int
}

// New returns an empty arena.
func New() *Arena {
	return &Arena{}
}

// Scalars returns a zeroed slice of n field elements owned by the arena.
func (a *Arena) Scalars(n int) []fr.Element {
	if n == 0 {
		return nil
	}
	if len(a.scalarBlocks) == 0 || a.scalarOff+n > len(a.scalarBlocks[len(a.scalarBlocks)-1]) {
		a.scalarBlocks = append(a.scalarBlocks, make([]fr.Element, max(n, minBlock)))
		a.scalarOff = 0
	}
	blk := a.scalarBlocks[len(a.scalarBlocks)-1]
	s := blk[a.scalarOff : a.scalarOff+n : a.scalarOff+n]
	a.scalarOff += n
	return s
}

// ScalarsCopy returns an arena-owned copy of src.
func (a *Arena) ScalarsCopy(src []fr.Element) []fr.Element {
	dst := a.Scalars(len(src))
	copy(dst, src)
	return dst
}

// Bools returns a zeroed slice of n booleans owned by the arena.
func (a *Arena) Bools(n int) []bool {
	if n == 0 {
		return nil
	}
	if len(a.boolBlocks) == 0 || a.boolOff+n > len(a.boolBlocks[len(a.boolBlocks)-1]) {
		a.boolBlocks = append(a.boolBlocks, make([]bool, max(n, minBlock)))
		a.boolOff = 0
	}
	blk := a.boolBlocks[len(a.boolBlocks)-1]
	s := blk[a.boolOff : a.boolOff+n : a.boolOff+n]
	a.boolOff += n
	return s
}

// Reset releases every slice handed out since the last Reset. Blocks are kept
// for reuse; contents are zeroed so stale round data cannot leak into the
// next round.
func (a *Arena) Reset() {
	for _, blk := range a.scalarBlocks {
		clear(blk)
	}
	for _, blk := range a.boolBlocks {
		clear(blk)
	}
	if n := len(a.scalarBlocks); n > 1 {
		a.scalarBlocks = a.scalarBlocks[:1]
	}
	if n := len(a.boolBlocks); n > 1 {
		a.boolBlocks = a.boolBlocks[:1]
	}
	a.scalarOff = 0
	a.boolOff = 0
}
