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

package pattern

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"

	"github.com/bits-and-blooms/bitset"

	"github.com/bacpop/unitig-graph/pipeline"
)

// Magic identifies a binary pattern cache, following this codebase's usual
// magic-number-plus-version file header convention. This cache lets a
// second association run against the same graph skip the strain-mapping
// pass that built the pattern table in the first place.
var Magic = [8]byte{'.', 'p', 'a', 't', 't', 'r', 'n', '1'}

// Version is the on-disk format version.
const Version uint8 = 1

// ErrInvalidFormat means the magic number didn't match.
var ErrInvalidFormat = errors.New("pattern: invalid cache file format")

var be = binary.BigEndian

// WriteCache serializes t to w: magic, version, strain count and ids,
// pattern count, then per pattern the bitset word count + words followed by
// its row's unitig id count + ids.
func WriteCache(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, be, Magic); err != nil {
		return pipeline.Wrap(pipeline.IO, err, "write magic")
	}
	if err := binary.Write(bw, be, Version); err != nil {
		return pipeline.Wrap(pipeline.IO, err, "write version")
	}
	if err := binary.Write(bw, be, uint32(t.NumStrains)); err != nil {
		return pipeline.Wrap(pipeline.IO, err, "write strain count")
	}
	for _, id := range t.StrainIDs {
		if err := writeString(bw, id); err != nil {
			return err
		}
	}
	if err := binary.Write(bw, be, uint32(len(t.Patterns))); err != nil {
		return pipeline.Wrap(pipeline.IO, err, "write pattern count")
	}

	for p, pattern := range t.Patterns {
		words := pattern.Bytes()
		if err := binary.Write(bw, be, uint32(len(words))); err != nil {
			return pipeline.Wrap(pipeline.IO, err, "write pattern %d word count", p)
		}
		for _, word := range words {
			if err := binary.Write(bw, be, word); err != nil {
				return pipeline.Wrap(pipeline.IO, err, "write pattern %d word", p)
			}
		}

		row := t.Rows[p]
		if err := binary.Write(bw, be, uint32(len(row))); err != nil {
			return pipeline.Wrap(pipeline.IO, err, "write pattern %d row length", p)
		}
		for _, u := range row {
			if err := binary.Write(bw, be, u); err != nil {
				return pipeline.Wrap(pipeline.IO, err, "write pattern %d unitig id", p)
			}
		}
	}

	return bw.Flush()
}

// ReadCache deserializes a cache written by WriteCache.
func ReadCache(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)

	var magic [8]byte
	if err := binary.Read(br, be, &magic); err != nil {
		return nil, pipeline.Wrap(pipeline.IO, err, "read magic")
	}
	if magic != Magic {
		return nil, ErrInvalidFormat
	}

	var version uint8
	if err := binary.Read(br, be, &version); err != nil {
		return nil, pipeline.Wrap(pipeline.IO, err, "read version")
	}

	var numStrains uint32
	if err := binary.Read(br, be, &numStrains); err != nil {
		return nil, pipeline.Wrap(pipeline.IO, err, "read strain count")
	}
	strainIDs := make([]string, numStrains)
	for i := range strainIDs {
		id, err := readString(br)
		if err != nil {
			return nil, err
		}
		strainIDs[i] = id
	}

	var numPatterns uint32
	if err := binary.Read(br, be, &numPatterns); err != nil {
		return nil, pipeline.Wrap(pipeline.IO, err, "read pattern count")
	}

	patterns := make([]*bitset.BitSet, numPatterns)
	rows := make([][]uint32, numPatterns)

	for p := range patterns {
		var numWords uint32
		if err := binary.Read(br, be, &numWords); err != nil {
			return nil, pipeline.Wrap(pipeline.IO, err, "read pattern %d word count", p)
		}
		words := make([]uint64, numWords)
		for i := range words {
			if err := binary.Read(br, be, &words[i]); err != nil {
				return nil, pipeline.Wrap(pipeline.IO, err, "read pattern %d word", p)
			}
		}
		pattern := bitset.New(uint(numStrains))
		for i := 0; i < int(numStrains); i++ {
			word := i / 64
			bit := uint(i % 64)
			if word < len(words) && words[word]&(1<<bit) != 0 {
				pattern.Set(uint(i))
			}
		}
		patterns[p] = pattern

		var rowLen uint32
		if err := binary.Read(br, be, &rowLen); err != nil {
			return nil, pipeline.Wrap(pipeline.IO, err, "read pattern %d row length", p)
		}
		row := make([]uint32, rowLen)
		for i := range row {
			if err := binary.Read(br, be, &row[i]); err != nil {
				return nil, pipeline.Wrap(pipeline.IO, err, "read pattern %d unitig id", p)
			}
		}
		rows[p] = row
	}

	return &Table{NumStrains: int(numStrains), StrainIDs: strainIDs, Rows: rows, Patterns: patterns}, nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, be, uint32(len(s))); err != nil {
		return pipeline.Wrap(pipeline.IO, err, "write string length")
	}
	if _, err := io.WriteString(w, s); err != nil {
		return pipeline.Wrap(pipeline.IO, err, "write string")
	}
	return nil
}

func readString(r io.Reader) (string, error) {
	var length uint32
	if err := binary.Read(r, be, &length); err != nil {
		return "", pipeline.Wrap(pipeline.IO, err, "read string length")
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", pipeline.Wrap(pipeline.IO, err, "read string")
	}
	return string(buf), nil
}
