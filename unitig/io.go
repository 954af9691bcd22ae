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

package unitig

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bacpop/unitig-graph/pipeline"
)

// Magic and Version follow this codebase's usual file-format convention:
// an 8-byte magic number plus a version byte, read once at the top of the
// file.
var Magic = [8]byte{'.', 'u', 't', 'g', 'i', 'd', 'x', '1'}

// Version is the on-disk format version.
const Version uint8 = 1

// ErrInvalidFormat means the magic number didn't match.
var ErrInvalidFormat = errors.New("unitig: invalid index file format")

var be = binary.BigEndian

// WriteIndex serializes bank and index to w as a single binary cache: magic,
// version, k, unitig count, node count, then the bank (length-prefixed
// sequences) followed by the flat index (one Entry per node, in dense-index
// order). This lets a second pipeline invocation (e.g. a repeat
// association test against the same graph) skip replaying unitig compaction.
func WriteIndex(w io.Writer, k int, bank Bank, index Index) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, be, Magic); err != nil {
		return pipeline.Wrap(pipeline.IO, err, "write magic")
	}
	if err := binary.Write(bw, be, Version); err != nil {
		return pipeline.Wrap(pipeline.IO, err, "write version")
	}
	if err := binary.Write(bw, be, uint8(k)); err != nil {
		return pipeline.Wrap(pipeline.IO, err, "write k")
	}
	if err := binary.Write(bw, be, uint32(len(bank))); err != nil {
		return pipeline.Wrap(pipeline.IO, err, "write unitig count")
	}
	if err := binary.Write(bw, be, uint64(len(index))); err != nil {
		return pipeline.Wrap(pipeline.IO, err, "write node count")
	}

	for _, seq := range bank {
		if err := binary.Write(bw, be, uint32(len(seq))); err != nil {
			return pipeline.Wrap(pipeline.IO, err, "write unitig length")
		}
		if _, err := bw.Write(seq); err != nil {
			return pipeline.Wrap(pipeline.IO, err, "write unitig sequence")
		}
	}

	for _, e := range index {
		if err := binary.Write(bw, be, e.UnitigID); err != nil {
			return pipeline.Wrap(pipeline.IO, err, "write entry unitig id")
		}
		if err := binary.Write(bw, be, byte(e.Strand)); err != nil {
			return pipeline.Wrap(pipeline.IO, err, "write entry strand")
		}
		if err := binary.Write(bw, be, e.Offset); err != nil {
			return pipeline.Wrap(pipeline.IO, err, "write entry offset")
		}
		if err := binary.Write(bw, be, e.UnitigLength); err != nil {
			return pipeline.Wrap(pipeline.IO, err, "write entry length")
		}
	}

	return bw.Flush()
}

// ReadIndex deserializes a cache written by WriteIndex.
func ReadIndex(r io.Reader) (k int, bank Bank, index Index, err error) {
	br := bufio.NewReader(r)

	var magic [8]byte
	if err = binary.Read(br, be, &magic); err != nil {
		return 0, nil, nil, pipeline.Wrap(pipeline.IO, err, "read magic")
	}
	if magic != Magic {
		return 0, nil, nil, ErrInvalidFormat
	}

	var version, kByte uint8
	if err = binary.Read(br, be, &version); err != nil {
		return 0, nil, nil, pipeline.Wrap(pipeline.IO, err, "read version")
	}
	if err = binary.Read(br, be, &kByte); err != nil {
		return 0, nil, nil, pipeline.Wrap(pipeline.IO, err, "read k")
	}
	k = int(kByte)

	var numUnitigs uint32
	if err = binary.Read(br, be, &numUnitigs); err != nil {
		return 0, nil, nil, pipeline.Wrap(pipeline.IO, err, "read unitig count")
	}
	var numNodes uint64
	if err = binary.Read(br, be, &numNodes); err != nil {
		return 0, nil, nil, pipeline.Wrap(pipeline.IO, err, "read node count")
	}

	bank = make(Bank, numUnitigs)
	for i := range bank {
		var length uint32
		if err = binary.Read(br, be, &length); err != nil {
			return 0, nil, nil, pipeline.Wrap(pipeline.IO, err, "read unitig length")
		}
		seq := make([]byte, length)
		if _, err = io.ReadFull(br, seq); err != nil {
			return 0, nil, nil, pipeline.Wrap(pipeline.IO, err, "read unitig sequence")
		}
		bank[i] = seq
	}

	index = make(Index, numNodes)
	for i := range index {
		var e Entry
		var strandByte byte
		if err = binary.Read(br, be, &e.UnitigID); err != nil {
			return 0, nil, nil, pipeline.Wrap(pipeline.IO, err, "read entry unitig id")
		}
		if err = binary.Read(br, be, &strandByte); err != nil {
			return 0, nil, nil, pipeline.Wrap(pipeline.IO, err, "read entry strand")
		}
		e.Strand = Strand(strandByte)
		if err = binary.Read(br, be, &e.Offset); err != nil {
			return 0, nil, nil, pipeline.Wrap(pipeline.IO, err, "read entry offset")
		}
		if err = binary.Read(br, be, &e.UnitigLength); err != nil {
			return 0, nil, nil, pipeline.Wrap(pipeline.IO, err, "read entry length")
		}
		index[i] = e
	}

	return k, bank, index, nil
}

// WriteFasta writes bank out as a FASTA file, one record per unitig named
// by its dense id, for handoff to external sequence-similarity tools (BLAST)
// in the annotation stage.
func WriteFasta(w io.Writer, bank Bank) error {
	bw := bufio.NewWriter(w)
	for id, seq := range bank {
		if _, err := fmt.Fprintf(bw, ">%d\n", id); err != nil {
			return pipeline.Wrap(pipeline.IO, err, "write fasta header")
		}
		if _, err := bw.Write(seq); err != nil {
			return pipeline.Wrap(pipeline.IO, err, "write fasta sequence")
		}
		if err := bw.WriteByte('\n'); err != nil {
			return pipeline.Wrap(pipeline.IO, err, "write fasta newline")
		}
	}
	return bw.Flush()
}
