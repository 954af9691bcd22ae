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

// Package dbgraph builds and queries the canonical-k-mer de Bruijn graph
// that every downstream stage (unitig, edge, strain) treats as the
// underlying graph library. It is a from-scratch substitute for a
// GATB-style graph: an in-memory set of canonical k-mer codes plus a dense
// index, not a minimum perfect hash. No third-party MPHF library exists in
// the retrieved example pack, so this stand-in uses a plain map from code
// to dense index, built once and never mutated after Build returns.
package dbgraph

import (
	"sort"

	"github.com/shenwei356/bio/seqio/fastx"

	"github.com/bacpop/unitig-graph/kmer"
	"github.com/bacpop/unitig-graph/pipeline"
)

// Graph is a canonical-k-mer de Bruijn graph: nodes are canonical k-mer
// codes observed across all input strains; an edge u->v exists iff v's
// (k-1)-prefix equals u's (k-1)-suffix for some base extension, after
// canonicalization.
type Graph struct {
	k     int
	nodes []uint64          // dense index -> canonical code, sorted ascending
	index map[uint64]uint64 // canonical code -> dense index
}

// K returns the k-mer size the graph was built with.
func (g *Graph) K() int { return g.k }

// NodeCount returns the number of distinct canonical k-mers in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Nodes returns every canonical k-mer code in the graph, in dense-index
// order.
func (g *Graph) Nodes() []uint64 { return g.nodes }

// Has reports whether code is a node of the graph.
func (g *Graph) Has(code uint64) bool {
	_, ok := g.index[code]
	return ok
}

// Index returns the dense node index for a canonical k-mer code, standing
// in for a minimum perfect hash index. The second return is false if code is not a
// node.
func (g *Graph) Index(code uint64) (uint64, bool) {
	idx, ok := g.index[code]
	return idx, ok
}

// Successors returns the canonical codes reachable by appending one base to
// the k-mer's forward orientation and re-canonicalizing, restricted to
// codes that are actually nodes of the graph.
func (g *Graph) Successors(code uint64) []uint64 {
	return g.extend(code, true)
}

// Predecessors returns the canonical codes reachable by prepending one base
// to the k-mer's forward orientation and re-canonicalizing, restricted to
// codes that are actually nodes of the graph.
func (g *Graph) Predecessors(code uint64) []uint64 {
	return g.extend(code, false)
}

// extend tries all four bases appended (forward=true) or prepended
// (forward=false) to code's forward orientation and returns the canonical
// forms that are present in the graph.
func (g *Graph) extend(code uint64, forward bool) []uint64 {
	var out []uint64
	for _, oriented := range g.Neighbors(code, forward) {
		out = append(out, kmer.Canonical(oriented, g.k))
	}
	return out
}

// Neighbors returns the oriented (not canonicalized) k-mer codes reachable
// by appending (forward=true) or prepending (forward=false) one base to
// code's literal bit pattern, restricted to extensions whose canonical form
// is a node of the graph. Unlike Successors/Predecessors, the returned
// codes retain the orientation of the walk, which the unitig builder needs
// to keep assembling the forward sequence of the unitig it is traversing.
func (g *Graph) Neighbors(code uint64, forward bool) []uint64 {
	k := g.k
	var out []uint64
	mask := uint64(1)<<(uint(k)*2) - 1
	if k == 32 {
		mask = ^uint64(0)
	}
	for base := uint64(0); base < 4; base++ {
		var next uint64
		if forward {
			next = ((code << 2) | base) & mask
		} else {
			next = (code >> 2) | (base << (uint(k-1) * 2))
		}
		if g.Has(kmer.Canonical(next, k)) {
			out = append(out, next)
		}
	}
	return out
}

// Build constructs a Graph from the union of all canonical k-mers observed
// across the given FASTA paths, mirroring the classic "build graph from a list of
// FASTA paths with parameters {k, min-abundance}" (min-abundance is fixed
// at 1 here; abundance filtering is left to the caller's manifest curation).
func Build(paths []string, k int) (*Graph, error) {
	if k < 1 || k > 32 {
		return nil, pipeline.NewError(pipeline.InputValidation, "k=%d out of range [1,32]", k)
	}

	seen := make(map[uint64]struct{})

	for _, path := range paths {
		reader, err := fastx.NewDefaultReader(path)
		if err != nil {
			return nil, pipeline.Wrap(pipeline.IO, err, "open %s", path)
		}

		for {
			record, err := reader.Read()
			if err != nil {
				break
			}

			iter, err := kmer.NewKmerIterator(record.Seq, k, true)
			if err != nil {
				// Sequence shorter than k, or k invalid for this record;
				// skip, mirroring the upstream graph's silent exclusion
				// of degenerate windows.
				continue
			}
			for {
				code, ok, err := iter.NextKmer()
				if err != nil {
					break
				}
				if !ok {
					break
				}
				seen[code] = struct{}{}
			}
		}
		reader.Close()
	}

	nodes := make([]uint64, 0, len(seen))
	for code := range seen {
		nodes = append(nodes, code)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	index := make(map[uint64]uint64, len(nodes))
	for i, code := range nodes {
		index[code] = uint64(i)
	}

	return &Graph{k: k, nodes: nodes, index: index}, nil
}
