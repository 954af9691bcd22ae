package dbgraph

import (
	"bytes"
	"testing"
)

func buildTestGraph() *Graph {
	nodes := []uint64{3, 9, 27}
	index := map[uint64]uint64{3: 0, 9: 1, 27: 2}
	return &Graph{k: 4, nodes: nodes, index: index}
}

func TestWriteReadGraphRoundTrip(t *testing.T) {
	g := buildTestGraph()

	var buf bytes.Buffer
	if err := WriteGraph(&buf, g); err != nil {
		t.Fatalf("WriteGraph: %s", err)
	}

	got, err := ReadGraph(&buf)
	if err != nil {
		t.Fatalf("ReadGraph: %s", err)
	}
	if got.K() != g.K() {
		t.Errorf("K = %d, want %d", got.K(), g.K())
	}
	if got.NodeCount() != g.NodeCount() {
		t.Fatalf("NodeCount = %d, want %d", got.NodeCount(), g.NodeCount())
	}
	for _, code := range g.nodes {
		if !got.Has(code) {
			t.Errorf("reloaded graph missing node %d", code)
		}
	}
}

func TestReadGraphInvalidMagic(t *testing.T) {
	if _, err := ReadGraph(bytes.NewBufferString("not a graph file")); err == nil {
		t.Fatal("expected error for invalid magic")
	}
}
