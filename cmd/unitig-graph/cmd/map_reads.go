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

	"github.com/bits-and-blooms/bitset"
	"github.com/spf13/cobra"

	"github.com/bacpop/unitig-graph/dbgraph"
	"github.com/bacpop/unitig-graph/pattern"
	"github.com/bacpop/unitig-graph/pipeline"
	"github.com/bacpop/unitig-graph/strain"
	"github.com/bacpop/unitig-graph/unitig"
)

var mapReadsCmd = &cobra.Command{
	Use:   "map-reads",
	Short: "Map each strain's reads onto a previously built graph",
	Long: `Map each strain's reads onto a previously built graph

Reloads graph.nodes and graph.unitigs from -output (written by build-dbg),
maps every strain in -strains onto the unitig space in parallel, then
deduplicates the resulting presence/absence patterns. Writes
unitigs.txt, unitigs.unique_rows_to_all_rows.txt, unitigs.unique_rows.Rtab
and a binary pattern cache into -output.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		manifestPath := getFlagString(cmd, "strains")
		outDir := getFlagString(cmd, "output")
		if n := getFlagNonNegativeInt(cmd, "nb-cores"); n > 0 {
			opt.NumCPUs = n
		}

		if opt.Verbose {
			log.Infof("loading strain manifest %s", manifestPath)
		}
		manifest, err := strain.LoadManifest(manifestPath, func(msg string) { log.Warning(msg) })
		checkError(err)

		if opt.Verbose {
			log.Info("reloading graph")
		}
		graph := readGraph(outDir)
		k, bank, index := readUnitigs(outDir)
		if graph.K() != k {
			checkError(pipeline.NewError(pipeline.InvariantViolation,
				"graph.nodes k=%d disagrees with graph.unitigs k=%d", graph.K(), k))
		}
		numUnitigs := len(bank)

		if opt.Verbose {
			log.Infof("mapping %d strain(s) onto %d unitig(s) with %d worker(s)",
				len(manifest.Strains), numUnitigs, opt.NumCPUs)
		}
		results, err := strain.MapStrains(graph, index, numUnitigs, opt.NumCPUs, manifest.Strains,
			func(done, total int) {
				if opt.Verbose && (done == total || done%32 == 0) {
					log.Infof("mapped %d/%d strains", done, total)
				}
			})
		checkError(err)

		table, err := buildPatternTable(results, numUnitigs)
		checkError(err)

		if opt.Verbose {
			log.Infof("%d unique pattern(s) over %d unitig(s)", len(table.Patterns), numUnitigs)
		}

		writePatternArtifacts(outDir, bank, table)
	},
}

func readGraph(outDir string) *dbgraph.Graph {
	f, err := os.Open(filepath.Join(outDir, "graph.nodes"))
	checkError(err)
	defer f.Close()
	g, err := dbgraph.ReadGraph(f)
	checkError(err)
	return g
}

func readUnitigs(outDir string) (int, unitig.Bank, unitig.Index) {
	f, err := os.Open(filepath.Join(outDir, "graph.unitigs"))
	checkError(err)
	defer f.Close()
	k, bank, index, err := unitig.ReadIndex(f)
	checkError(err)
	return k, bank, index
}

func buildPatternTable(results []strain.Result, numUnitigs int) (*pattern.Table, error) {
	strainIDs := make([]string, len(results))
	bitmaps := make([]*bitset.BitSet, len(results))
	for i, r := range results {
		strainIDs[i] = r.Strain.ID
		bitmaps[i] = r.Bitmap
	}
	return pattern.Build(strainIDs, bitmaps, numUnitigs)
}

func writePatternArtifacts(outDir string, bank unitig.Bank, table *pattern.Table) {
	unitigsFile, err := os.Create(filepath.Join(outDir, "unitigs.txt"))
	checkError(err)
	defer unitigsFile.Close()
	checkError(pattern.WriteUnitigs(unitigsFile, bank, table))

	rowsFile, err := os.Create(filepath.Join(outDir, "unitigs.unique_rows_to_all_rows.txt"))
	checkError(err)
	defer rowsFile.Close()
	checkError(pattern.WriteUniqueRowsToAllRows(rowsFile, table))

	rtabFile, err := os.Create(filepath.Join(outDir, "unitigs.unique_rows.Rtab"))
	checkError(err)
	defer rtabFile.Close()
	checkError(pattern.WriteRtab(rtabFile, table))

	cacheFile, err := os.Create(filepath.Join(outDir, "unitigs.pattern-cache"))
	checkError(err)
	defer cacheFile.Close()
	checkError(pattern.WriteCache(cacheFile, table))

	fastaFile, err := os.Create(filepath.Join(outDir, "unitigs.fasta"))
	checkError(err)
	defer fastaFile.Close()
	checkError(unitig.WriteFasta(fastaFile, bank))
}

func init() {
	RootCmd.AddCommand(mapReadsCmd)

	mapReadsCmd.Flags().StringP("strains", "s", "", "strain manifest (TSV: id, phenotype, path)")
	mapReadsCmd.Flags().StringP("output", "o", "", "output directory (must already contain a build-dbg graph)")
	mapReadsCmd.Flags().IntP("nb-cores", "", 0, "number of cores to use (default: -j/--threads)")

	mapReadsCmd.MarkFlagRequired("strains")
	mapReadsCmd.MarkFlagRequired("output")
}
