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

package edge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bacpop/unitig-graph/dbgraph"
	"github.com/bacpop/unitig-graph/unitig"
)

func writeFasta(t *testing.T, dir, name, seq string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(">"+name+"\n"+seq+"\n"), 0644); err != nil {
		t.Fatalf("write fasta: %s", err)
	}
	return path
}

// TestSelfLoopRejection checks that a homopolymer run, whose k-mer is its
// own successor in the underlying graph, never produces a (u, u, label)
// edge in the output.
func TestSelfLoopRejection(t *testing.T) {
	dir := t.TempDir()
	a := writeFasta(t, dir, "a.fasta", "AAAAAA")

	g, err := dbgraph.Build([]string{a}, 3)
	if err != nil {
		t.Fatalf("build graph: %s", err)
	}
	bank, _, err := unitig.Build(g)
	if err != nil {
		t.Fatalf("build unitigs: %s", err)
	}

	edges := Build(g, bank)
	for _, e := range edges {
		if e.Source == e.Target {
			t.Errorf("found self-loop edge %+v", e)
		}
	}
}

// TestEdgeSymmetry and TestNoSelfLoopsBranching exercise a small branching
// graph where two unitigs genuinely share a (k-1)-mer junction.
func buildBranchingGraph(t *testing.T) (*dbgraph.Graph, unitig.Bank) {
	t.Helper()
	dir := t.TempDir()
	// Two strains sharing a common prefix/suffix around divergent middles,
	// same shape as spec scenario 1, to guarantee at least one real
	// junction between unitigs.
	a := writeFasta(t, dir, "a.fasta", "AAAACCCCGGGG")
	b := writeFasta(t, dir, "b.fasta", "AAAATTTTGGGG")

	g, err := dbgraph.Build([]string{a, b}, 4)
	if err != nil {
		t.Fatalf("build graph: %s", err)
	}
	bank, _, err := unitig.Build(g)
	if err != nil {
		t.Fatalf("build unitigs: %s", err)
	}
	return g, bank
}

func mirror(label string) string {
	switch label {
	case "FF":
		return "FF"
	case "RR":
		return "RR"
	case "FR":
		return "FR"
	case "RF":
		return "RF"
	}
	return ""
}

func TestEdgeSymmetry(t *testing.T) {
	g, bank := buildBranchingGraph(t)
	edges := Build(g, bank)

	if len(edges) == 0 {
		t.Fatal("expected at least one edge in a branching graph")
	}

	has := func(u, v uint32, label string) bool {
		for _, e := range edges {
			if e.Source == u && e.Target == v && e.Label == label {
				return true
			}
		}
		return false
	}

	for _, e := range edges {
		if !has(e.Target, e.Source, mirror(e.Label)) {
			t.Errorf("edge %+v has no mirrored counterpart (%s)", e, mirror(e.Label))
		}
	}
}

func TestNoSelfLoopsBranching(t *testing.T) {
	g, bank := buildBranchingGraph(t)
	edges := Build(g, bank)
	for _, e := range edges {
		if e.Source == e.Target {
			t.Errorf("found self-loop edge %+v", e)
		}
	}
}
