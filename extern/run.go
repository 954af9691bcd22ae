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

// Package extern wraps the pipeline's external-process boundary: BLAST, the
// Rscript-driven association engine, and the headless-browser renderer are
// all opaque child processes from this pipeline's point of view. Nothing in
// this package interprets a child's output; that is the caller's concern
// downstream.
package extern

import (
	"bytes"
	"os/exec"
	"strconv"
	"strings"

	"github.com/bacpop/unitig-graph/pipeline"
)

// maxStderrTail bounds how much of a failed child's stderr is folded into
// the error message.
const maxStderrTail = 4096

// Run spawns name with args, captures stdout and stderr separately, and
// maps a non-zero exit to a pipeline.Error of kind ExternalTool whose
// message carries the composed command line and the tail of stderr.
func Run(name string, args []string) (stdout, stderr []byte, err error) {
	cmd := exec.Command(name, args...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	stdout, stderr = outBuf.Bytes(), errBuf.Bytes()

	if runErr != nil {
		return stdout, stderr, pipeline.Wrap(pipeline.ExternalTool, runErr,
			"%s: %s", commandLine(name, args), tail(stderr, maxStderrTail))
	}
	return stdout, stderr, nil
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return strings.TrimSpace(string(b))
}

// BlastDB builds a BLAST database from fastaPath via makeblastdb.
func BlastDB(fastaPath, dbType string) (stdout, stderr []byte, err error) {
	return Run("makeblastdb", []string{"-in", fastaPath, "-dbtype", dbType})
}

// Blast runs blastn (or another blast+ binary named by program) of
// queryPath against a database built by BlastDB, writing tabular output to
// outPath.
func Blast(program, queryPath, dbPath, outPath string, evalue float64) (stdout, stderr []byte, err error) {
	return Run(program, []string{
		"-query", queryPath,
		"-db", dbPath,
		"-out", outPath,
		"-outfmt", "6",
		"-evalue", strconv.FormatFloat(evalue, 'g', -1, 64),
	})
}

// Rscript drives the association-test engine by invoking an R script with
// positional arguments.
func Rscript(scriptPath string, args ...string) (stdout, stderr []byte, err error) {
	return Run("Rscript", append([]string{scriptPath}, args...))
}
