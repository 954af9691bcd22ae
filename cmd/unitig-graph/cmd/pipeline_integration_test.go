package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bacpop/unitig-graph/dbgraph"
	"github.com/bacpop/unitig-graph/edge"
	"github.com/bacpop/unitig-graph/pattern"
	"github.com/bacpop/unitig-graph/strain"
	"github.com/bacpop/unitig-graph/unitig"
)

// writeFastaFile is a small test fixture writer, independent of the
// production unitig.WriteFasta helper it indirectly exercises.
func writeFastaFile(t *testing.T, dir, name, seq string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(">seq\n"+seq+"\n"), 0o644); err != nil {
		t.Fatalf("write fixture %s: %s", path, err)
	}
	return path
}

// TestBuildDbgThenMapReadsArtifacts drives the build-dbg and map-reads
// helper functions directly (without going through cobra) over two
// identical strains sharing a k=4 graph, and checks the artifact
// files they leave behind are mutually consistent.
func TestBuildDbgThenMapReadsArtifacts(t *testing.T) {
	dir := t.TempDir()
	pathA := writeFastaFile(t, dir, "a.fasta", "AAAACCCCGGGG")
	pathB := writeFastaFile(t, dir, "b.fasta", "AAAACCCCGGGG")

	graph, err := dbgraph.Build([]string{pathA, pathB}, 4)
	if err != nil {
		t.Fatalf("dbgraph.Build: %s", err)
	}
	bank, index, err := unitig.Build(graph)
	if err != nil {
		t.Fatalf("unitig.Build: %s", err)
	}
	edges := edge.Build(graph, bank)

	outDir := filepath.Join(dir, "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatalf("mkdir: %s", err)
	}
	writeGraph(outDir, graph)
	writeUnitigs(outDir, graph.K(), bank, index)
	writeEdges(outDir, edges)

	reloadedGraph := readGraph(outDir)
	if reloadedGraph.NodeCount() != graph.NodeCount() {
		t.Errorf("reloaded graph has %d nodes, want %d", reloadedGraph.NodeCount(), graph.NodeCount())
	}

	reloadedK, reloadedBank, reloadedIndex := readUnitigs(outDir)
	if reloadedK != graph.K() {
		t.Errorf("reloaded k = %d, want %d", reloadedK, graph.K())
	}
	if len(reloadedBank) != len(bank) {
		t.Fatalf("reloaded bank has %d unitigs, want %d", len(reloadedBank), len(bank))
	}

	reloadedEdges := readGraphEdges(outDir)
	if len(reloadedEdges) != len(edges) {
		t.Errorf("reloaded %d edges, want %d", len(reloadedEdges), len(edges))
	}

	results, err := strain.MapStrains(reloadedGraph, reloadedIndex, len(reloadedBank), 2,
		[]strain.Strain{{ID: "a", Path: pathA}, {ID: "b", Path: pathB}}, nil)
	if err != nil {
		t.Fatalf("MapStrains: %s", err)
	}

	table, err := buildPatternTable(results, len(reloadedBank))
	if err != nil {
		t.Fatalf("buildPatternTable: %s", err)
	}
	if len(table.Patterns) != 1 {
		t.Fatalf("two identical strains should collapse to one pattern, got %d", len(table.Patterns))
	}

	writePatternArtifacts(outDir, reloadedBank, table)

	for _, name := range []string{
		"unitigs.txt",
		"unitigs.unique_rows_to_all_rows.txt",
		"unitigs.unique_rows.Rtab",
		"unitigs.pattern-cache",
		"unitigs.fasta",
	} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected artifact %s: %s", name, err)
		}
	}

	cacheFile, err := os.Open(filepath.Join(outDir, "unitigs.pattern-cache"))
	if err != nil {
		t.Fatalf("open pattern cache: %s", err)
	}
	defer cacheFile.Close()
	reloadedTable, err := pattern.ReadCache(cacheFile)
	if err != nil {
		t.Fatalf("pattern.ReadCache: %s", err)
	}
	if reloadedTable.NumStrains != table.NumStrains {
		t.Errorf("cache NumStrains = %d, want %d", reloadedTable.NumStrains, table.NumStrains)
	}
}
