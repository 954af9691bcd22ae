// Copyright © 2018 Wei Shen <shenwei356@gmail.com>
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

// Package kmer implements the 2-bit k-mer codec shared by every stage of the
// pipeline: encode/decode, reverse, complement and canonical-form selection.
// A k-mer (k <= 32) is packed into a uint64, two bits per base, so the whole
// model fits in registers and needs no allocation on the hot path.
package kmer

import (
	"bytes"
	"errors"
)

// ErrIllegalBase means that a base beyond the IUPAC symbols was detected.
var ErrIllegalBase = errors.New("kmer: illegal base")

// ErrKOverflow means K > 32.
var ErrKOverflow = errors.New("kmer: K (1-32) overflow")

// Encode converts byte slice to bits.
//
// Codes:
//
//	  A    00
//	  C    01
//	  G    10
//	  T    11
//
// For degenerate bases, only the first listed base is kept.
//
//	M       AC     A
//	V       ACG    A
//	H       ACT    A
//	R       AG     A
//	D       AGT    A
//	W       AT     A
//	S       CG     C
//	B       CGT    C
//	Y       CT     C
//	K       GT     G
//	N       ACGT   A
func Encode(kmer []byte) (code uint64, err error) {
	k := len(kmer)
	if k == 0 || k > 32 {
		return 0, ErrKOverflow
	}

	for i := range kmer {
		switch kmer[k-1-i] {
		case 'G', 'g', 'K', 'k':
			code |= 2 << uint64(i*2)
		case 'T', 't', 'U', 'u':
			code |= 3 << uint64(i*2)
		case 'C', 'c', 'S', 's', 'B', 'b', 'Y', 'y':
			code |= 1 << uint64(i*2)
		case 'A', 'a', 'N', 'n', 'M', 'm', 'V', 'v', 'H', 'h', 'R', 'r', 'D', 'd', 'W', 'w':
			code |= 0 << uint64(i*2)
		default:
			return code, ErrIllegalBase
		}
	}
	return code, nil
}

// ErrNotConsecutiveKmers means the two Kmers are not consecutive.
var ErrNotConsecutiveKmers = errors.New("kmer: not consecutive kmers")

// ErrKMismatch means the two Kmers have different lengths.
var ErrKMismatch = errors.New("kmer: K mismatch")

// MustEncodeFromFormerKmer encodes from the former kmer in a sliding window,
// assuming kmer and leftKmer are both valid. This avoids re-scanning the
// k-1 overlapping bases on every step of the window.
func MustEncodeFromFormerKmer(kmer []byte, leftKmer []byte, leftCode uint64) (uint64, error) {
	leftCode = leftCode & ((1 << (uint(len(kmer)-1) << 1)) - 1) << 2
	switch kmer[len(kmer)-1] {
	case 'G', 'g', 'K', 'k':
		leftCode |= 2
	case 'T', 't', 'U', 'u':
		leftCode |= 3
	case 'C', 'c', 'S', 's', 'B', 'b', 'Y', 'y':
		leftCode |= 1
	case 'A', 'a', 'N', 'n', 'M', 'm', 'V', 'v', 'H', 'h', 'R', 'r', 'D', 'd', 'W', 'w':
		// leftCode |= 0
	default:
		return leftCode, ErrIllegalBase
	}
	return leftCode, nil
}

// EncodeFromFormerKmer encodes from the former kmer in a sliding window,
// checking that the two k-mers actually overlap by k-1 bases first.
func EncodeFromFormerKmer(kmer []byte, leftKmer []byte, leftCode uint64) (uint64, error) {
	if len(kmer) == 0 {
		return 0, ErrKOverflow
	}
	if len(kmer) != len(leftKmer) {
		return 0, ErrKMismatch
	}
	if !bytes.Equal(kmer[0:len(kmer)-1], leftKmer[1:len(leftKmer)]) {
		return 0, ErrNotConsecutiveKmers
	}
	return MustEncodeFromFormerKmer(kmer, leftKmer, leftCode)
}

// Reverse returns the code of the reversed sequence (not complemented).
func Reverse(code uint64, k int) (c uint64) {
	if k <= 0 || k > 32 {
		panic(ErrKOverflow)
	}
	for i := 0; i < k; i++ {
		c <<= 2
		c |= code & 3
		code >>= 2
	}
	return
}

// Complement returns the code of the complement sequence (not reversed).
func Complement(code uint64, k int) (c uint64) {
	if k <= 0 || k > 32 {
		panic(ErrKOverflow)
	}
	for i := 0; i < k; i++ {
		c |= (code&3 ^ 3) << uint(i<<1)
		code >>= 2
	}
	return
}

// RevComp returns the code of the reverse complement sequence.
func RevComp(code uint64, k int) (c uint64) {
	if k <= 0 || k > 32 {
		panic(ErrKOverflow)
	}
	for i := 0; i < k; i++ {
		c <<= 2
		c |= code&3 ^ 3
		code >>= 2
	}
	return
}

// Canonical returns the lexicographically smaller of code and its reverse
// complement, as a bare uint64 code (no k-mer length attached).
func Canonical(code uint64, k int) uint64 {
	rc := RevComp(code, k)
	if rc < code {
		return rc
	}
	return code
}

// bit2base maps a 2-bit code to its base letter.
var bit2base = [4]byte{'A', 'C', 'G', 'T'}

// Decode converts the code back to the original sequence.
func Decode(code uint64, k int) []byte {
	if k <= 0 || k > 32 {
		panic(ErrKOverflow)
	}
	kmer := make([]byte, k)
	for i := 0; i < k; i++ {
		kmer[k-1-i] = bit2base[code&3]
		code >>= 2
	}
	return kmer
}

// Code is a k-mer packed into a uint64 together with its length.
type Code struct {
	Code uint64
	K    int
}

// New returns a new Code from a byte slice.
func New(kmer []byte) (Code, error) {
	code, err := Encode(kmer)
	if err != nil {
		return Code{}, err
	}
	return Code{code, len(kmer)}, nil
}

// NewFromFormerOne computes a Code from the former consecutive k-mer in a
// sliding window.
func NewFromFormerOne(kmer []byte, leftKmer []byte, preCode Code) (Code, error) {
	code, err := EncodeFromFormerKmer(kmer, leftKmer, preCode.Code)
	if err != nil {
		return Code{}, err
	}
	return Code{code, len(kmer)}, nil
}

// Equal reports whether two Codes represent the same k-mer.
func (c Code) Equal(other Code) bool {
	return c.K == other.K && c.Code == other.Code
}

// Rev returns the Code of the reversed (not complemented) k-mer.
func (c Code) Rev() Code {
	return Code{Reverse(c.Code, c.K), c.K}
}

// Comp returns the Code of the complemented (not reversed) k-mer.
func (c Code) Comp() Code {
	return Code{Complement(c.Code, c.K), c.K}
}

// RevComp returns the Code of the reverse complement k-mer.
func (c Code) RevComp() Code {
	return Code{RevComp(c.Code, c.K), c.K}
}

// Canonical returns the canonical form: the lexicographic minimum of c and
// its reverse complement.
func (c Code) Canonical() Code {
	rc := c.RevComp()
	if rc.Code < c.Code {
		return rc
	}
	return c
}

// Bytes returns the k-mer as a byte slice.
func (c Code) Bytes() []byte {
	return Decode(c.Code, c.K)
}

// String returns the k-mer as a string.
func (c Code) String() string {
	return string(Decode(c.Code, c.K))
}
