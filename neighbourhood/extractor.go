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

// Package neighbourhood builds the undirected unitig adjacency graph and
// extracts bounded-radius neighbourhoods around a seed set, the stage of
// the pipeline.
package neighbourhood

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/bacpop/unitig-graph/edge"
)

// Graph is the undirected unitig adjacency graph, built once from edge.Edge
// triples and reused read-only by every neighbourhood extraction.
//
// gonum node ids are internal and opaque, so idToNode/nodeToID translate
// to and from unitig ids at every boundary.
type Graph struct {
	g        *simple.UndirectedGraph
	idToNode map[uint32]int64
	nodeToID map[int64]uint32
}

// BuildGraph collapses edge.Edge triples (which carry FF/FR/RF/RR
// orientation labels) into an unweighted undirected adjacency graph:
// orientation implies adjacency for traversal purposes but otherwise
// carries no weight here.
func BuildGraph(numUnitigs int, edges []edge.Edge) *Graph {
	g := simple.NewUndirectedGraph()
	idToNode := make(map[uint32]int64, numUnitigs)
	nodeToID := make(map[int64]uint32, numUnitigs)

	for u := uint32(0); u < uint32(numUnitigs); u++ {
		n := g.NewNode()
		g.AddNode(n)
		idToNode[u] = n.ID()
		nodeToID[n.ID()] = u
	}

	for _, e := range edges {
		un, ok1 := idToNode[e.Source]
		vn, ok2 := idToNode[e.Target]
		if !ok1 || !ok2 || un == vn {
			continue
		}
		if g.HasEdgeBetween(un, vn) {
			continue
		}
		g.SetEdge(simple.Edge{F: g.Node(un), T: g.Node(vn)})
	}

	return &Graph{g: g, idToNode: idToNode, nodeToID: nodeToID}
}

// Component is the vertex set of one connected component of an induced
// subgraph, in ascending unitig id order.
type Component []uint32

// Neighbourhood is the result of extracting the r-radius union of a seed
// set and partitioning its induced subgraph into connected components.
type Neighbourhood struct {
	Vertices   []uint32 // U, sorted ascending
	Components []Component
}

// Extract runs Dijkstra from each seed over the unit-weight graph and
// keeps every vertex whose distance is at most radius; accumulates the
// union U across seeds; then partitions the induced subgraph on U into
// connected components.
//
// gonum's path.DijkstraFrom computes the full shortest-path tree from u in
// one call rather than exposing a visitor to stop at a frontier, so the
// radius cutoff here is applied by scanning WeightTo(v) against radius
// after the call returns, which is equivalent for a seed set and radius
// small relative to the graph (the case this pipeline targets).
//
// A seed id absent from the graph is reported through warn (which may be
// nil) and skipped rather than treated as an error.
func Extract(gr *Graph, seeds []uint32, radius int, warn func(string)) (*Neighbourhood, error) {
	if warn == nil {
		warn = func(string) {}
	}
	if len(seeds) == 0 {
		return &Neighbourhood{}, nil
	}

	reached := make(map[uint32]bool)
	for _, seed := range seeds {
		seedNode, ok := gr.idToNode[seed]
		if !ok {
			warn(fmt.Sprintf("seed unitig %d not found in graph, skipping", seed))
			continue
		}

		shortest := path.DijkstraFrom(gr.g.Node(seedNode), gr.g)
		nodes := gr.g.Nodes()
		for nodes.Next() {
			n := nodes.Node()
			dist := shortest.WeightTo(n.ID())
			if dist <= float64(radius) && !math.IsInf(dist, 1) {
				reached[gr.nodeToID[n.ID()]] = true
			}
		}
	}

	vertices := make([]uint32, 0, len(reached))
	for v := range reached {
		vertices = append(vertices, v)
	}
	sort.Slice(vertices, func(i, j int) bool { return vertices[i] < vertices[j] })

	induced := simple.NewUndirectedGraph()
	for _, v := range vertices {
		induced.AddNode(simple.Node(gr.idToNode[v]))
	}
	for _, v := range vertices {
		un := gr.idToNode[v]
		to := gr.g.From(un)
		for to.Next() {
			wn := to.Node().ID()
			if induced.Node(wn) == nil {
				continue
			}
			if !induced.HasEdgeBetween(un, wn) {
				induced.SetEdge(simple.Edge{F: induced.Node(un), T: induced.Node(wn)})
			}
		}
	}

	ccs := topo.ConnectedComponents(induced)
	components := make([]Component, len(ccs))
	for i, cc := range ccs {
		comp := make(Component, len(cc))
		for j, n := range cc {
			comp[j] = gr.nodeToID[n.ID()]
		}
		sort.Slice(comp, func(a, b int) bool { return comp[a] < comp[b] })
		components[i] = comp
	}

	return &Neighbourhood{Vertices: vertices, Components: components}, nil
}
