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

package cmd

import (
	"os"
	"path/filepath"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/bacpop/unitig-graph/dbgraph"
	"github.com/bacpop/unitig-graph/edge"
	"github.com/bacpop/unitig-graph/strain"
	"github.com/bacpop/unitig-graph/unitig"
)

var buildDbgCmd = &cobra.Command{
	Use:   "build-dbg",
	Short: "Build the compacted de Bruijn graph from a strain manifest",
	Long: `Build the compacted de Bruijn graph from a strain manifest

Reads the assemblies listed in -strains, builds the canonical-k-mer de
Bruijn graph, compacts it into unitigs and derives unitig-level
adjacency. Writes graph.nodes, graph.unitigs and graph.edges.dbg into
-output, which map-reads and later stages read back.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		manifestPath := getFlagString(cmd, "strains")
		k := getFlagPositiveInt(cmd, "k")
		outDir := getFlagString(cmd, "output")
		if n := getFlagNonNegativeInt(cmd, "nb-cores"); n > 0 {
			opt.NumCPUs = n
		}
		if opt.Verbose {
			log.Infof("graph construction is single-threaded; -nb-cores=%d is accepted for symmetry with map-reads", opt.NumCPUs)
		}

		if opt.Verbose {
			log.Infof("loading strain manifest %s", manifestPath)
		}
		manifest, err := strain.LoadManifest(manifestPath, func(msg string) { log.Warning(msg) })
		checkError(err)
		if opt.Verbose {
			log.Infof("%d strain(s) in manifest", len(manifest.Strains))
		}

		paths := make([]string, len(manifest.Strains))
		for i, st := range manifest.Strains {
			paths[i] = st.Path
		}

		if opt.Verbose {
			log.Infof("building de Bruijn graph at k=%d", k)
		}
		graph, err := dbgraph.Build(paths, k)
		checkError(err)
		if opt.Verbose {
			log.Infof("graph has %s node(s)", humanize.Comma(int64(graph.NodeCount())))
		}

		if opt.Verbose {
			log.Info("compacting unitigs")
		}
		bank, index, err := unitig.Build(graph)
		checkError(err)
		if opt.Verbose {
			log.Infof("%s unitig(s)", humanize.Comma(int64(len(bank))))
		}

		if opt.Verbose {
			log.Info("deriving unitig adjacency")
		}
		edges := edge.Build(graph, bank)
		if opt.Verbose {
			log.Infof("%d edge(s)", len(edges))
		}

		checkError(os.MkdirAll(outDir, 0o755))

		writeGraph(outDir, graph)
		writeUnitigs(outDir, k, bank, index)
		writeEdges(outDir, edges)
	},
}

func writeGraph(outDir string, graph *dbgraph.Graph) {
	f, err := os.Create(filepath.Join(outDir, "graph.nodes"))
	checkError(err)
	defer f.Close()
	checkError(dbgraph.WriteGraph(f, graph))
}

func writeUnitigs(outDir string, k int, bank unitig.Bank, index unitig.Index) {
	f, err := os.Create(filepath.Join(outDir, "graph.unitigs"))
	checkError(err)
	defer f.Close()
	checkError(unitig.WriteIndex(f, k, bank, index))
}

func writeEdges(outDir string, edges []edge.Edge) {
	f, err := os.Create(filepath.Join(outDir, "graph.edges.dbg"))
	checkError(err)
	defer f.Close()
	checkError(edge.WriteEdges(f, edges))
}

func init() {
	RootCmd.AddCommand(buildDbgCmd)

	buildDbgCmd.Flags().StringP("strains", "s", "", "strain manifest (TSV: id, phenotype, path)")
	buildDbgCmd.Flags().IntP("k", "k", 31, "k-mer size (<= 32)")
	buildDbgCmd.Flags().StringP("output", "o", "", "output directory")
	buildDbgCmd.Flags().IntP("nb-cores", "", 0, "number of cores to use (default: -j/--threads)")

	buildDbgCmd.MarkFlagRequired("strains")
	buildDbgCmd.MarkFlagRequired("output")
}
