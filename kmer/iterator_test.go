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
	"testing"

	"github.com/shenwei356/bio/seq"
)

func TestKmerIteratorCanonical(t *testing.T) {
	s, err := seq.NewSeq(seq.DNA, []byte("GATTACA"))
	if err != nil {
		t.Fatalf("fail to build sequence: %s", err)
	}

	iter, err := NewKmerIterator(s, 5, true)
	if err != nil {
		t.Fatalf("fail to build iterator: %s", err)
	}

	var codes []uint64
	for {
		code, ok, err := iter.NextKmer()
		if err != nil {
			t.Fatalf("NextKmer: %s", err)
		}
		if !ok {
			break
		}
		codes = append(codes, code)
	}

	// "GATTACA" has 3 overlapping 5-mers.
	if len(codes) != 3 {
		t.Fatalf("expected 3 canonical 5-mers, got %d", len(codes))
	}

	for i, code := range codes {
		if code != Canonical(code, 5) {
			t.Errorf("code %d at position %d is not canonical", code, i)
		}
	}
}

func TestKmerIteratorNonCanonicalWalksBothStrands(t *testing.T) {
	s, err := seq.NewSeq(seq.DNA, []byte("ACGTACGT"))
	if err != nil {
		t.Fatalf("fail to build sequence: %s", err)
	}

	iter, err := NewKmerIterator(s, 4, false)
	if err != nil {
		t.Fatalf("fail to build iterator: %s", err)
	}

	n := 0
	for {
		_, ok, err := iter.NextKmer()
		if err != nil {
			t.Fatalf("NextKmer: %s", err)
		}
		if !ok {
			break
		}
		n++
	}

	// 5 windows on the forward strand, then 5 more on the reverse complement.
	if n != 10 {
		t.Fatalf("expected 10 k-mers across both strands, got %d", n)
	}
}

func TestShortSequenceRejected(t *testing.T) {
	s, err := seq.NewSeq(seq.DNA, []byte("ACGT"))
	if err != nil {
		t.Fatalf("fail to build sequence: %s", err)
	}
	if _, err := NewKmerIterator(s, 5, true); err != ErrShortSeq {
		t.Fatalf("expected ErrShortSeq, got %v", err)
	}
}
