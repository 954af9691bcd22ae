// Copyright © 2018-2020 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package unitig enumerates the maximal non-branching paths of a de Bruijn
// graph (dbgraph.Graph) and assigns every original k-mer a (unitig id,
// strand, offset) index.
package unitig

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/bacpop/unitig-graph/dbgraph"
	"github.com/bacpop/unitig-graph/kmer"
	"github.com/bacpop/unitig-graph/pipeline"
)

// Strand is the orientation of a k-mer relative to its unitig's forward
// sequence.
type Strand byte

const (
	// Forward means the k-mer's canonical form appears literally at Offset.
	Forward Strand = 'F'
	// Reverse means the reverse complement of the k-mer's canonical form
	// appears at Offset.
	Reverse Strand = 'R'
)

// Entry is one k-mer's position within the unitig bank.
type Entry struct {
	UnitigID     uint32
	Strand       Strand
	Offset       uint32
	UnitigLength uint32
}

// Index maps a graph node's dense index to its Entry. It is built once by
// Build and is immutable thereafter.
type Index []Entry

// Bank holds unitig sequences in id order.
type Bank [][]byte

// Build enumerates every maximal non-branching path in g and returns the
// sequence bank together with the per-k-mer index. K is read from g.
func Build(g *dbgraph.Graph) (Bank, Index, error) {
	k := g.K()
	n := g.NodeCount()

	visited := bitset.New(uint(n))
	index := make(Index, n)
	var bank Bank

	nodes := g.Nodes()

	for i := 0; i < n; i++ {
		if visited.Test(uint(i)) {
			continue
		}

		seed := nodes[i]
		visited.Set(uint(i))

		rightExt, rightChain := walk(g, seed, visited)
		leftSeedOriented := kmer.RevComp(seed, k)
		leftExt, leftChain := walk(g, leftSeedOriented, visited)

		// revLeft = revcomp(decode(leftSeedOriented) + leftExt) ends with
		// decode(seed) exactly once, since leftSeedOriented = revcomp(seed).
		leftChainSeq := appendChainBytes(kmer.Decode(leftSeedOriented, k), leftExt)
		revLeft := reverseComplementBytes(leftChainSeq)
		sequence := make([]byte, 0, len(revLeft)+len(rightExt))
		sequence = append(sequence, revLeft...)
		sequence = append(sequence, rightExt...)

		unitigID := uint32(len(bank))
		unitigLength := uint32(len(sequence))
		bank = append(bank, sequence)

		// seed itself: oriented-in-final equals seed (canonical by
		// construction), offset = len(leftExt).
		if err := assign(index, g, seed, seed, uint32(len(leftExt)), unitigID, unitigLength); err != nil {
			return nil, nil, err
		}

		// right-walk k-mers: oriented-in-final equals the walked code
		// directly (no revcomp), offset = len(leftExt)+j for j=1..n.
		for j, oriented := range rightChain {
			offset := uint32(len(leftExt)) + uint32(j+1)
			if err := assign(index, g, oriented, oriented, offset, unitigID, unitigLength); err != nil {
				return nil, nil, err
			}
		}

		// left-walk k-mers: position j (1-indexed within leftChain) sits at
		// offset (m-j) in the final sequence, oriented via revcomp.
		m := len(leftChain)
		for j, oriented := range leftChain {
			offset := uint32(m - (j + 1))
			orientedInFinal := kmer.RevComp(oriented, k)
			if err := assign(index, g, oriented, orientedInFinal, offset, unitigID, unitigLength); err != nil {
				return nil, nil, err
			}
		}
	}

	return bank, index, nil
}

// assign records node's Entry in index, verifying P2 (strand round-trip) as
// it goes: orientedInFinal must equal either node's canonical form (strand
// F) or its reverse complement (strand R) -- one of the two always holds by
// construction, so failure here means an upstream invariant broke.
func assign(index Index, g *dbgraph.Graph, node, orientedInFinal uint64, offset uint32, unitigID uint32, unitigLength uint32) error {
	k := g.K()
	canonical := kmer.Canonical(node, k)
	idx, ok := g.Index(canonical)
	if !ok {
		return pipeline.NewError(pipeline.InvariantViolation, "k-mer %s not found in graph", kmer.Decode(canonical, k))
	}

	var strand Strand
	switch orientedInFinal {
	case canonical:
		strand = Forward
	case kmer.RevComp(canonical, k):
		strand = Reverse
	default:
		return pipeline.NewError(pipeline.InvariantViolation,
			"k-mer %s is not resolvable onto either orientation of its unitig sequence", kmer.Decode(canonical, k))
	}

	index[idx] = Entry{UnitigID: unitigID, Strand: strand, Offset: offset, UnitigLength: unitigLength}
	return nil
}

// walk extends from startOriented along the unique-successor chain through
// non-branching nodes (checking both the current node's out-degree and the
// candidate's in-degree), stopping at a branching node, a dead end, or an
// already-visited node. It returns the extension bytes (one base per step)
// and the oriented codes of every new k-mer traversed, marking each visited
// as it goes.
func walk(g *dbgraph.Graph, startOriented uint64, visited *bitset.BitSet) ([]byte, []uint64) {
	k := g.K()
	var extBytes []byte
	var chain []uint64

	current := startOriented
	for {
		succs := g.Neighbors(current, true)
		if len(succs) != 1 {
			return extBytes, chain
		}
		next := succs[0]

		canonNext := kmer.Canonical(next, k)
		idx, ok := g.Index(canonNext)
		if !ok {
			return extBytes, chain
		}
		if visited.Test(uint(idx)) {
			return extBytes, chain
		}

		preds := g.Neighbors(next, false)
		if len(preds) != 1 {
			return extBytes, chain
		}

		visited.Set(uint(idx))
		extBytes = append(extBytes, kmer.Decode(next, k)[k-1])
		chain = append(chain, next)
		current = next
	}
}

// appendChainBytes rebuilds the string spelled by a walk: the decoded
// starting k-mer followed by the one new base recorded at each step.
func appendChainBytes(start []byte, extBytes []byte) []byte {
	out := make([]byte, 0, len(start)+len(extBytes))
	out = append(out, start...)
	out = append(out, extBytes...)
	return out
}

var complementByte = [256]byte{}

func init() {
	for i := range complementByte {
		complementByte[i] = byte(i)
	}
	complementByte['A'], complementByte['T'] = 'T', 'A'
	complementByte['C'], complementByte['G'] = 'G', 'C'
}

func reverseComplementBytes(s []byte) []byte {
	out := make([]byte, len(s))
	for i, b := range s {
		out[len(s)-1-i] = complementByte[b]
	}
	return out
}
