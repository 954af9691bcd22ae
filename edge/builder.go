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

// Package edge reconstructs unitig-level adjacency from the terminal
// (k-1)-mers of each unitig.
package edge

import (
	"sort"

	"github.com/twotwotwo/sorts"

	"github.com/bacpop/unitig-graph/dbgraph"
	"github.com/bacpop/unitig-graph/kmer"
	"github.com/bacpop/unitig-graph/unitig"
)

// side identifies which terminal of a unitig's forward sequence an endpoint
// describes.
type side byte

const (
	left  side = 'L'
	right side = 'R'
)

// Edge is one unitig-level adjacency. Label is one of FF, FR, RF, RR.
type Edge struct {
	Source uint32
	Target uint32
	Label  string
}

// endpoint is one terminal (k-1)-mer of one unitig, keyed for the multimap
// by its canonical form.
type endpoint struct {
	canonical uint64 // canonical (k-1)-mer code, sort key
	unitigID  uint32
	side      side
	// forward is true if the terminal (k-1)-mer, read in the unitig's own
	// forward orientation, equals the canonical form (strand F); false if
	// it equals the canonical form's reverse complement (strand R).
	forward bool
}

type endpointSlice []endpoint

func (s endpointSlice) Len() int           { return len(s) }
func (s endpointSlice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s endpointSlice) Less(i, j int) bool { return s[i].canonical < s[j].canonical }

// Build derives the unordered multiset of unitig-level edges from bank,
// using g to verify each candidate adjacency actually exists in the
// underlying de Bruijn graph; this shears edges that a prior
// error-removal pass on the k-mer graph may have dropped.
func Build(g *dbgraph.Graph, bank unitig.Bank) []Edge {
	km1 := g.K() - 1

	endpoints := loadEndpoints(bank, km1)

	sorts.Quicksort(endpoints)

	var edges []Edge
	for u := range bank {
		if len(bank[u]) < g.K() {
			continue // single-kmer unitigs shorter than g.K() cannot happen; defensive only
		}
		uLeft := terminalEndpoint(bank, uint32(u), left, km1)
		uRight := terminalEndpoint(bank, uint32(u), right, km1)

		edges = append(edges, matchSide(g, endpoints, uRight, right)...)
		edges = append(edges, matchSide(g, endpoints, uLeft, left)...)
	}

	return edges
}

func loadEndpoints(bank unitig.Bank, km1 int) endpointSlice {
	endpoints := make(endpointSlice, 0, 2*len(bank))
	for u := range bank {
		endpoints = append(endpoints, terminalEndpoint(bank, uint32(u), left, km1))
		endpoints = append(endpoints, terminalEndpoint(bank, uint32(u), right, km1))
	}
	return endpoints
}

func terminalEndpoint(bank unitig.Bank, u uint32, s side, km1 int) endpoint {
	seq := bank[u]
	var raw []byte
	if s == left {
		raw = seq[:km1]
	} else {
		raw = seq[len(seq)-km1:]
	}
	code, _ := kmer.Encode(raw)
	canonical := kmer.Canonical(code, km1)
	return endpoint{canonical: canonical, unitigID: u, side: s, forward: code == canonical}
}

// matchSide finds every candidate endpoint sharing u's canonical (k-1)-mer
// and, for each, derives and verifies an edge from the pair's relative
// orientation.
func matchSide(g *dbgraph.Graph, endpoints endpointSlice, u endpoint, uSide side) []Edge {
	lo := sort.Search(len(endpoints), func(i int) bool { return endpoints[i].canonical >= u.canonical })
	hi := sort.Search(len(endpoints), func(i int) bool { return endpoints[i].canonical > u.canonical })

	var out []Edge
	for _, v := range endpoints[lo:hi] {
		if v.unitigID == u.unitigID {
			continue // no self-loops
		}

		label, ok := orient(uSide, v.side, u.forward == v.forward)
		if !ok {
			continue
		}

		if !verifyAdjacency(g, u, v, label) {
			continue
		}

		out = append(out, Edge{Source: u.unitigID, Target: v.unitigID, Label: label})
	}
	return out
}

// orient derives an edge label from the 4-way combination of which side of
// u and v are adjacent and whether the two endpoints agree in strand.
func orient(uSide, vSide side, strandEq bool) (label string, emit bool) {
	switch {
	case uSide == right && vSide == left:
		if strandEq {
			return "FF", true
		}
		return "", false
	case uSide == right && vSide == right:
		if !strandEq {
			return "FR", true
		}
		return "", false
	case uSide == left && vSide == left:
		if !strandEq {
			return "RF", true
		}
		return "", false
	case uSide == left && vSide == right:
		if strandEq {
			return "RR", true
		}
		return "", false
	}
	return "", false
}

// verifyAdjacency rebuilds the oriented k-mer endpoint node for u and v per
// label, then checks that extending u's endpoint by one base (via
// g.Neighbors, which only keeps extensions that are real graph nodes) yields
// a k-mer whose trailing (k-1)-mer is literally v's endpoint.
//
// g.Neighbors returns full k-length oriented codes, not (k-1)-length ones,
// so the trailing (k-1)-mer is the low 2*(k-1) bits of succ -- masked out
// directly, never passed through kmer.Canonical. uOriented and vOriented are
// already fixed-orientation values (via orientedEndpointCode); canonicalizing
// either here would fold two distinct strand orientations together and
// produce false adjacencies.
func verifyAdjacency(g *dbgraph.Graph, u, v endpoint, label string) bool {
	km1 := g.K() - 1
	suffixMask := uint64(1)<<(uint(km1)*2) - 1

	uOriented := orientedEndpointCode(g, u, label[0] == 'R')
	vOriented := orientedEndpointCode(g, v, label[1] == 'R')

	for _, succ := range g.Neighbors(uOriented, true) {
		if succ&suffixMask == vOriented {
			return true
		}
	}
	return false
}

// orientedEndpointCode returns the literal (k-1)-mer bytes of e's terminal
// in the orientation the edge label demands: e's own forward representation
// if flip is false, its reverse complement if flip is true.
func orientedEndpointCode(g *dbgraph.Graph, e endpoint, flip bool) uint64 {
	km1 := g.K() - 1
	code := e.canonical
	if !e.forward {
		code = kmer.RevComp(e.canonical, km1)
	}
	if flip {
		code = kmer.RevComp(code, km1)
	}
	return code
}
