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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bacpop/unitig-graph/annotate"
	"github.com/bacpop/unitig-graph/edge"
	"github.com/bacpop/unitig-graph/extern"
	"github.com/bacpop/unitig-graph/neighbourhood"
	"github.com/bacpop/unitig-graph/pipeline"
)

var generateOutputCmd = &cobra.Command{
	Use:   "generate-output",
	Short: "Extract significant neighbourhoods and annotate them",
	Long: `Extract significant neighbourhoods and annotate them

Reloads graph.edges.dbg and significant_unitigs.txt from -output, extracts
the radius -nh neighbourhood around each significant unitig and partitions
it into connected components, BLASTs unitigs.fasta against
-annotation-db (package extern; this pipeline never interprets alignment
scoring itself) and aggregates the hits per component by their general tag.
Writes one neighbourhood_<n>.tsv per component and hands the set off
to the external renderer named by -render-script.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		outDir := getFlagString(cmd, "output")
		radius := getFlagNonNegativeInt(cmd, "nh")
		dbPath := getFlagString(cmd, "annotation-db")
		tagsPath := getFlagString(cmd, "gene-tags")
		program := getFlagString(cmd, "blast-program")
		evalue := getFlagFloat64(cmd, "evalue")
		renderScript := getFlagString(cmd, "render-script")

		seeds := readSeeds(outDir)
		edges := readGraphEdges(outDir)
		_, bank, _ := readUnitigs(outDir)
		numUnitigs := len(bank)

		if opt.Verbose {
			log.Infof("extracting radius-%d neighbourhood around %d seed(s)", radius, len(seeds))
		}
		gr := neighbourhood.BuildGraph(numUnitigs, edges)
		nh, err := neighbourhood.Extract(gr, seeds, radius, func(msg string) { log.Warning(msg) })
		checkError(err)
		if opt.Verbose {
			log.Infof("%d vertex(es) in %d component(s)", len(nh.Vertices), len(nh.Components))
		}

		fastaPath := filepath.Join(outDir, "unitigs.fasta")
		blastOut := filepath.Join(outDir, "unitigs.blast.tsv")

		if opt.Verbose {
			log.Infof("building BLAST database from %s", dbPath)
		}
		_, _, err = extern.BlastDB(dbPath, "nucl")
		checkError(err)

		if opt.Verbose {
			log.Infof("running %s: %s vs %s", program, fastaPath, dbPath)
		}
		_, _, err = extern.Blast(program, fastaPath, dbPath, blastOut, evalue)
		checkError(err)

		tags, err := readGeneTags(tagsPath)
		checkError(err)

		hits, err := readBlastHits(blastOut, tags)
		checkError(err)

		hitsByUnitig := make(map[uint32][]annotate.Hit, len(hits))
		for _, h := range hits {
			hitsByUnitig[h.UnitigID] = append(hitsByUnitig[h.UnitigID], h)
		}

		for i, component := range nh.Components {
			agg := annotate.NewAggregator()
			for _, u := range component {
				for _, h := range hitsByUnitig[u] {
					agg.Add(h)
				}
			}
			checkError(writeComponentSummary(outDir, i, agg))
		}

		if opt.Verbose {
			log.Infof("invoking renderer %s", renderScript)
		}
		_, _, err = extern.Rscript(renderScript, outDir, strconv.Itoa(len(nh.Components)))
		checkError(err)
	},
}

func readSeeds(outDir string) []uint32 {
	f, err := os.Open(filepath.Join(outDir, "significant_unitigs.txt"))
	checkError(err)
	defer f.Close()

	var seeds []uint32
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		id, err := strconv.ParseUint(fields[0], 10, 32)
		checkError(err)
		seeds = append(seeds, uint32(id))
	}
	checkError(sc.Err())
	return seeds
}

func readGraphEdges(outDir string) []edge.Edge {
	f, err := os.Open(filepath.Join(outDir, "graph.edges.dbg"))
	checkError(err)
	defer f.Close()
	edges, err := edge.ReadEdges(f)
	checkError(err)
	return edges
}

// readGeneTags parses a "subject_id\tgeneral\tspecific" TSV mapping BLAST
// subject ids to the (general, specific) tags hits are grouped by. A
// subject id missing from the file falls back to itself as the general tag.
func readGeneTags(path string) (map[string][2]string, error) {
	tags := make(map[string][2]string)
	if path == "" {
		return tags, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.IO, err, "open %s", path)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			continue
		}
		tags[fields[0]] = [2]string{fields[1], fields[2]}
	}
	if err := sc.Err(); err != nil {
		return nil, pipeline.Wrap(pipeline.IO, err, "read %s", path)
	}
	return tags, nil
}

// readBlastHits parses -outfmt 6 tabular BLAST output (qseqid, sseqid,
// pident, length, mismatch, gapopen, qstart, qend, sstart, send, evalue,
// bitscore), keeping only the query id, subject id and e-value.
func readBlastHits(path string, tags map[string][2]string) ([]annotate.Hit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.IO, err, "open %s", path)
	}
	defer f.Close()

	var hits []annotate.Hit
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Split(strings.TrimSpace(sc.Text()), "\t")
		if len(fields) < 11 {
			continue
		}
		unitigID, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, pipeline.Wrap(pipeline.IO, err, "parse qseqid %q", fields[0])
		}
		evalue, err := strconv.ParseFloat(fields[10], 64)
		if err != nil {
			return nil, pipeline.Wrap(pipeline.IO, err, "parse evalue %q", fields[10])
		}

		subject := fields[1]
		general, specific := subject, ""
		if pair, ok := tags[subject]; ok {
			general, specific = pair[0], pair[1]
		}

		hits = append(hits, annotate.Hit{
			UnitigID: uint32(unitigID),
			EValue:   evalue,
			Tags:     map[string]string{"general": general, "specific": specific},
		})
	}
	if err := sc.Err(); err != nil {
		return nil, pipeline.Wrap(pipeline.IO, err, "read %s", path)
	}
	return hits, nil
}

func writeComponentSummary(outDir string, componentIndex int, agg *annotate.Aggregator) error {
	name := filepath.Join(outDir, fmt.Sprintf("neighbourhood_%d.tsv", componentIndex))
	f, err := os.Create(name)
	if err != nil {
		return pipeline.Wrap(pipeline.IO, err, "create %s", name)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, "tag\tnum_unitigs\tmin_evalue\trepresentative_unitig"); err != nil {
		return pipeline.Wrap(pipeline.IO, err, "write %s", name)
	}

	tagIndex := agg.TagIndex()
	order := make([]int, len(tagIndex))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return agg.ByTag(order[i]).MinEValue < agg.ByTag(order[j]).MinEValue })

	for _, tagID := range order {
		stats := agg.ByTag(tagID)
		if _, err := fmt.Fprintf(f, "%s\t%d\t%g\t%d\n",
			stats.Tag, len(stats.UnitigIDs), stats.MinEValue, stats.RepresentativeHit.UnitigID); err != nil {
			return pipeline.Wrap(pipeline.IO, err, "write %s", name)
		}
	}
	return nil
}

func init() {
	RootCmd.AddCommand(generateOutputCmd)

	generateOutputCmd.Flags().StringP("output", "o", "", "output directory")
	generateOutputCmd.Flags().IntP("nh", "", 5, "neighbourhood radius around each significant unitig")
	generateOutputCmd.Flags().StringP("annotation-db", "", "", "reference FASTA to build a BLAST database from")
	generateOutputCmd.Flags().StringP("gene-tags", "", "", "optional TSV mapping BLAST subject ids to (general, specific) tags")
	generateOutputCmd.Flags().StringP("blast-program", "", "blastn", "blast+ program to run")
	generateOutputCmd.Flags().Float64P("evalue", "", 1e-10, "e-value cutoff passed to blast")
	generateOutputCmd.Flags().StringP("render-script", "", "scripts/render_neighbourhoods.R", "renderer script invoked once all components are summarized")

	generateOutputCmd.MarkFlagRequired("output")
	generateOutputCmd.MarkFlagRequired("annotation-db")
}
