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

package kmer

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
)

// ErrInvalidK means k < 1.
var ErrInvalidK = fmt.Errorf("kmer: invalid k-mer size")

// ErrEmptySeq means the sequence is empty.
var ErrEmptySeq = fmt.Errorf("kmer: empty sequence")

// ErrShortSeq means the sequence is shorter than k.
var ErrShortSeq = fmt.Errorf("kmer: sequence shorter than k")

// Iterator slides a fixed-width window across a sequence and emits the 2-bit
// code of each k-mer it covers, without re-encoding the k-1 bases a window
// shares with its predecessor. When built with canonical=false it walks the
// forward strand to completion, then flips the underlying sequence in place
// and walks the reverse-complement strand once before reporting exhaustion.
type Iterator struct {
	seq *seq.Seq
	k   int

	canonical bool
	onReverse bool
	done      bool

	pos   int // start offset of the next window within the active strand
	limit int // last valid start offset within the active strand

	window     []byte
	haveWindow bool
	prevWindow []byte
	prevCode   uint64
}

// NewKmerIterator returns an Iterator over s. k must be at least 1 and no
// longer than s.
func NewKmerIterator(s *seq.Seq, k int, canonical bool) (*Iterator, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	if len(s.Seq) < k {
		return nil, ErrShortSeq
	}

	return &Iterator{
		seq:       s,
		k:         k,
		canonical: canonical,
		limit:     len(s.Seq) - k,
	}, nil
}

// NextKmer returns the next k-mer code, false once the iterator is
// exhausted (both strands, for a non-canonical walk).
func (it *Iterator) NextKmer() (code uint64, ok bool, err error) {
	if it.done {
		return 0, false, nil
	}

	if it.pos > it.limit {
		if it.canonical || it.onReverse {
			it.done = true
			return 0, false, nil
		}
		it.seq.RevComInplace()
		it.pos = 0
		it.onReverse = true
		it.haveWindow = false
	}

	it.window = it.seq.Seq[it.pos : it.pos+it.k]

	if !it.haveWindow {
		code, err = Encode(it.window)
		it.haveWindow = true
	} else {
		code, err = MustEncodeFromFormerKmer(it.window, it.prevWindow, it.prevCode)
	}
	if err != nil {
		return 0, false, errors.Wrapf(err, "encode %s", it.window)
	}

	it.prevWindow, it.prevCode = it.window, code
	it.pos++

	if it.canonical {
		code = Canonical(code, it.k)
	}

	return code, true, nil
}

// CurrentIndex returns the 0-based start offset, within the strand currently
// being walked, of the last k-mer NextKmer returned.
func (it *Iterator) CurrentIndex() int {
	return it.pos - 1
}
