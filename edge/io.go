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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bacpop/unitig-graph/pipeline"
)

// WriteEdges writes one tab-separated "source target label" row per edge,
// the on-disk form of graph.edges.dbg read back by the neighbourhood stage.
func WriteEdges(w io.Writer, edges []Edge) error {
	var err error
	for _, e := range edges {
		if _, werr := fmt.Fprintf(w, "%d\t%d\t%s\n", e.Source, e.Target, e.Label); werr != nil {
			err = pipeline.Wrap(pipeline.IO, werr, "write edge")
			break
		}
	}
	return err
}

// ReadEdges parses the format written by WriteEdges.
func ReadEdges(r io.Reader) ([]Edge, error) {
	var edges []Edge
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return nil, pipeline.NewError(pipeline.IO, "malformed edge line %q", line)
		}
		source, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, pipeline.Wrap(pipeline.IO, err, "parse edge source %q", fields[0])
		}
		target, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, pipeline.Wrap(pipeline.IO, err, "parse edge target %q", fields[1])
		}
		edges = append(edges, Edge{Source: uint32(source), Target: uint32(target), Label: fields[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, pipeline.Wrap(pipeline.IO, err, "read edges")
	}
	return edges, nil
}
