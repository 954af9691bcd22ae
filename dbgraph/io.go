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

package dbgraph

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"

	gzip "github.com/klauspost/pgzip"

	"github.com/bacpop/unitig-graph/pipeline"
)

// Magic and Version follow unitig.WriteIndex's file-format convention, so
// that graph.nodes and graph.unitigs are recognizably siblings on disk.
var Magic = [8]byte{'.', 'd', 'b', 'g', 'r', 'a', 'p', 'h'}

// Version is the on-disk format version.
const Version uint8 = 1

// ErrInvalidFormat means the magic number didn't match.
var ErrInvalidFormat = errors.New("dbgraph: invalid graph file format")

var be = binary.BigEndian

// WriteGraph serializes g's k and its node set (already sorted ascending by
// Build) to w, letting a later pipeline invocation (map-reads) reload the
// same graph without replaying graph construction against every strain's FASTA again. The
// node list is the bulk of the file and compresses well, so it is written
// through a parallel gzip stream rather than raw.
func WriteGraph(w io.Writer, g *Graph) error {
	gw := gzip.NewWriter(w)
	bw := bufio.NewWriter(gw)

	if _, err := bw.Write(Magic[:]); err != nil {
		return pipeline.Wrap(pipeline.IO, err, "write graph magic")
	}
	if err := bw.WriteByte(Version); err != nil {
		return pipeline.Wrap(pipeline.IO, err, "write graph version")
	}

	var header [12]byte
	be.PutUint32(header[0:4], uint32(g.k))
	be.PutUint64(header[4:12], uint64(len(g.nodes)))
	if _, err := bw.Write(header[:]); err != nil {
		return pipeline.Wrap(pipeline.IO, err, "write graph header")
	}

	var buf [8]byte
	for _, code := range g.nodes {
		be.PutUint64(buf[:], code)
		if _, err := bw.Write(buf[:]); err != nil {
			return pipeline.Wrap(pipeline.IO, err, "write graph node")
		}
	}

	if err := bw.Flush(); err != nil {
		return pipeline.Wrap(pipeline.IO, err, "flush graph")
	}
	if err := gw.Close(); err != nil {
		return pipeline.Wrap(pipeline.IO, err, "close graph gzip stream")
	}
	return nil
}

// ReadGraph deserializes a Graph written by WriteGraph, rebuilding the
// code->dense-index map from the stored node list.
func ReadGraph(r io.Reader) (*Graph, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.IO, err, "open graph gzip stream")
	}
	defer gr.Close()
	br := bufio.NewReader(gr)

	var magic [8]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, pipeline.Wrap(pipeline.IO, err, "read graph magic")
	}
	if magic != Magic {
		return nil, ErrInvalidFormat
	}
	if _, err := br.ReadByte(); err != nil {
		return nil, pipeline.Wrap(pipeline.IO, err, "read graph version")
	}

	var header [12]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return nil, pipeline.Wrap(pipeline.IO, err, "read graph header")
	}
	k := int(be.Uint32(header[0:4]))
	n := be.Uint64(header[4:12])

	nodes := make([]uint64, n)
	var buf [8]byte
	for i := range nodes {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return nil, pipeline.Wrap(pipeline.IO, err, "read graph node %d", i)
		}
		nodes[i] = be.Uint64(buf[:])
	}

	index := make(map[uint64]uint64, len(nodes))
	for i, code := range nodes {
		index[code] = uint64(i)
	}

	return &Graph{k: k, nodes: nodes, index: index}, nil
}
