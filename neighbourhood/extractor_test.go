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

package neighbourhood

import (
	"testing"

	"github.com/bacpop/unitig-graph/edge"
)

func linearChain(n int) []edge.Edge {
	edges := make([]edge.Edge, 0, n-1)
	for i := 0; i < n-1; i++ {
		edges = append(edges, edge.Edge{Source: uint32(i), Target: uint32(i + 1), Label: "FF"})
		edges = append(edges, edge.Edge{Source: uint32(i + 1), Target: uint32(i), Label: "FF"})
	}
	return edges
}

// TestLinearNeighbourhood checks radius-bounded extraction over a linear
// chain of unitigs.
func TestLinearNeighbourhood(t *testing.T) {
	g := BuildGraph(6, linearChain(6))

	nh, err := Extract(g, []uint32{2}, 1, nil)
	if err != nil {
		t.Fatalf("Extract: %s", err)
	}

	if !equalU32(nh.Vertices, []uint32{1, 2, 3}) {
		t.Fatalf("Vertices = %v, want [1 2 3]", nh.Vertices)
	}
	if len(nh.Components) != 1 || !equalU32(nh.Components[0], []uint32{1, 2, 3}) {
		t.Fatalf("Components = %v, want [[1 2 3]]", nh.Components)
	}
}

// TestNeighbourhoodClosure_P7 checks that every vertex in U is within
// radius of some seed and every vertex outside U is not, against a graph
// of one chain 0-1-2-3 plus two isolated vertices 4 and 5.
func TestNeighbourhoodClosure_P7(t *testing.T) {
	edges := linearChain(4) // 0-1-2-3
	g := BuildGraph(6, edges)

	nh, err := Extract(g, []uint32{0}, 2, nil)
	if err != nil {
		t.Fatalf("Extract: %s", err)
	}

	inU := make(map[uint32]bool)
	for _, v := range nh.Vertices {
		inU[v] = true
	}

	dist := map[uint32]int{0: 0, 1: 1, 2: 2, 3: 3, 4: -1, 5: -1}
	for v, d := range dist {
		within := d >= 0 && d <= 2
		if inU[v] != within {
			t.Errorf("vertex %d: in U = %v, want %v (dist=%d)", v, inU[v], within, d)
		}
	}
}

// TestComponentsPartition_P8 checks components are disjoint and their sizes
// sum to |U|, using two separate seed-radius neighbourhoods that do not
// touch.
func TestComponentsPartition_P8(t *testing.T) {
	edges := append(linearChain(3), edge.Edge{Source: 10, Target: 11, Label: "FF"}, edge.Edge{Source: 11, Target: 10, Label: "FF"})
	g := BuildGraph(12, edges)

	nh, err := Extract(g, []uint32{0, 10}, 5, nil)
	if err != nil {
		t.Fatalf("Extract: %s", err)
	}

	seen := make(map[uint32]bool)
	total := 0
	for _, comp := range nh.Components {
		for _, v := range comp {
			if seen[v] {
				t.Errorf("vertex %d appears in more than one component", v)
			}
			seen[v] = true
			total++
		}
	}
	if total != len(nh.Vertices) {
		t.Errorf("sum of component sizes = %d, want %d", total, len(nh.Vertices))
	}
	if len(nh.Components) != 2 {
		t.Errorf("expected 2 components, got %d", len(nh.Components))
	}
}

func TestSeedNotInGraphWarnsAndSkips(t *testing.T) {
	g := BuildGraph(3, linearChain(3))

	var warnings []string
	nh, err := Extract(g, []uint32{99}, 1, func(msg string) { warnings = append(warnings, msg) })
	if err != nil {
		t.Fatalf("Extract: %s", err)
	}
	if len(nh.Vertices) != 0 {
		t.Errorf("expected empty neighbourhood for out-of-range seed, got %v", nh.Vertices)
	}
	if len(warnings) != 1 {
		t.Errorf("expected 1 warning, got %d", len(warnings))
	}
}

func equalU32(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
