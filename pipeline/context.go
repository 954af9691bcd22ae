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

package pipeline

// Context bundles the run-wide settings that would otherwise live in
// process-wide mutable singletons (k-mer size, worker count, output
// directory, verbosity) into one value that can be passed explicitly
// instead. The driver that creates a Context outlives every worker that
// reads it, so no reference counting is required.
type Context struct {
	// K is the k-mer size used to build the graph.
	K int

	// NumCPUs bounds worker-pool width for strain mapping and the
	// neighbourhood-extraction/annotation stage.
	NumCPUs int

	// OutputDir is where every stage's artifacts are written.
	OutputDir string

	// Verbose enables debug-level logging in callers that hold this
	// Context.
	Verbose bool
}

// NewContext returns a Context for k, numCPUs and outputDir, raising a
// numCPUs below 1 to 1. Verbose is left false.
func NewContext(k, numCPUs int, outputDir string) *Context {
	if numCPUs < 1 {
		numCPUs = 1
	}
	return &Context{K: k, NumCPUs: numCPUs, OutputDir: outputDir}
}
