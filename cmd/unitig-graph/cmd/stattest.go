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

	"github.com/bacpop/unitig-graph/extern"
	"github.com/bacpop/unitig-graph/pipeline"
	"github.com/bacpop/unitig-graph/sigfilter"
)

var statTestCmd = &cobra.Command{
	Use:   "stat-test",
	Short: "Run the association test between patterns and phenotype",
	Long: `Run the association test between patterns and phenotype

Hands unitigs.unique_rows.Rtab off to the external Rscript-driven
association engine (package extern; this pipeline never interprets a
statistical model itself), then reads back its per-unitig q-values and
applies -SFF (an integer keeps the top N, a float keeps q <= that
threshold) via package sigfilter. Writes significant_unitigs.txt.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		outDir := getFlagString(cmd, "output")
		sffFlag := getFlagString(cmd, "SFF")
		scriptPath := getFlagString(cmd, "assoc-script")

		filter, err := parseSFF(sffFlag)
		checkError(err)

		rtabPath := filepath.Join(outDir, "unitigs.unique_rows.Rtab")
		assocPath := filepath.Join(outDir, "association.tsv")

		if opt.Verbose {
			log.Infof("running %s against %s", scriptPath, rtabPath)
		}
		_, stderr, err := extern.Rscript(scriptPath, rtabPath, assocPath)
		if err != nil {
			checkError(err)
		}
		if opt.Verbose && len(stderr) > 0 {
			log.Infof("association engine stderr: %s", strings.TrimSpace(string(stderr)))
		}

		scored, err := readAssociationResults(assocPath)
		checkError(err)

		sort.Slice(scored, func(i, j int) bool { return scored[i].QValue < scored[j].QValue })
		significant := filter.Apply(scored)

		if opt.Verbose {
			log.Infof("%d/%d unitig(s) pass %s", len(significant), len(scored), sffFlag)
		}

		checkError(writeSignificant(outDir, significant))
	},
}

// parseSFF disambiguates -SFF's value: an integer selects sigfilter.TopN,
// a float selects sigfilter.QValue.
func parseSFF(value string) (sigfilter.Filter, error) {
	if n, err := strconv.Atoi(value); err == nil {
		return sigfilter.TopN(n), nil
	}
	q, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, pipeline.NewError(pipeline.InputValidation, "-SFF value %q is neither an integer nor a float", value)
	}
	return sigfilter.QValue(q), nil
}

// readAssociationResults parses the association engine's "unitig_id\tq_value"
// output. The engine's internal statistics are opaque to this pipeline;
// only this two-column contract is relied on.
func readAssociationResults(path string) ([]sigfilter.Scored, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.IO, err, "open %s", path)
	}
	defer f.Close()

	var scored []sigfilter.Scored
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			continue
		}
		id, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, pipeline.Wrap(pipeline.IO, err, "parse unitig id %q", fields[0])
		}
		q, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, pipeline.Wrap(pipeline.IO, err, "parse q-value %q", fields[1])
		}
		scored = append(scored, sigfilter.Scored{UnitigID: uint32(id), QValue: q})
	}
	if err := sc.Err(); err != nil {
		return nil, pipeline.Wrap(pipeline.IO, err, "read %s", path)
	}
	return scored, nil
}

func writeSignificant(outDir string, significant []sigfilter.Scored) error {
	f, err := os.Create(filepath.Join(outDir, "significant_unitigs.txt"))
	if err != nil {
		return pipeline.Wrap(pipeline.IO, err, "create significant_unitigs.txt")
	}
	defer f.Close()

	for _, s := range significant {
		if _, err := fmt.Fprintf(f, "%d\t%g\n", s.UnitigID, s.QValue); err != nil {
			return pipeline.Wrap(pipeline.IO, err, "write significant_unitigs.txt")
		}
	}
	return nil
}

func init() {
	RootCmd.AddCommand(statTestCmd)

	statTestCmd.Flags().StringP("output", "o", "", "output directory (must already contain unitigs.unique_rows.Rtab)")
	statTestCmd.Flags().StringP("SFF", "", "0.05", "significant features filter: an integer (top N) or a float (q-value threshold)")
	statTestCmd.Flags().StringP("assoc-script", "", "scripts/association_test.R", "association-test R script")

	statTestCmd.MarkFlagRequired("output")
}
