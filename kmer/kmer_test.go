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

package kmer

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"
)

var randomMers [][]byte
var randomMersN = 10000

var benchMer = []byte("ACTGactgGTCAgtcaactgGTCAACTGGTCA")
var benchCode uint64
var benchKmerCode Code

func init() {
	randomMers = make([][]byte, randomMersN)
	for i := 0; i < randomMersN; i++ {
		randomMers[i] = make([]byte, rand.Intn(32)+1)
		for j := range randomMers[i] {
			randomMers[i][j] = bit2base[rand.Intn(4)]
		}
	}

	var err error
	benchCode, err = Encode(benchMer)
	if err != nil {
		panic(fmt.Sprintf("init: fail to encode %s", benchMer))
	}

	benchKmerCode, err = New(benchMer)
	if err != nil {
		panic(fmt.Sprintf("init: fail to create Code from %s", benchMer))
	}
}

func TestEncodeDecode(t *testing.T) {
	for _, mer := range randomMers {
		kcode, err := New(mer)
		if err != nil {
			t.Errorf("Encode error: %s", mer)
		}
		if !bytes.Equal(mer, kcode.Bytes()) {
			t.Errorf("Decode error: %s != %s ", mer, kcode.Bytes())
		}
	}
}

func TestRevComp(t *testing.T) {
	for _, mer := range randomMers {
		kcode, _ := New(mer)
		if !kcode.Rev().Rev().Equal(kcode) {
			t.Errorf("Rev() error: %s, Rev(): %s", kcode, kcode.Rev())
		}
	}

	for _, mer := range randomMers {
		kcode, _ := New(mer)
		if !kcode.Comp().Comp().Equal(kcode) {
			t.Errorf("Comp() error: %s, Comp(): %s", kcode, kcode.Comp())
		}
	}

	for _, mer := range randomMers {
		kcode, _ := New(mer)
		if !kcode.RevComp().RevComp().Equal(kcode) {
			t.Errorf("RevComp() error: %s, RevComp(): %s", kcode, kcode.RevComp())
		}
	}
}

func TestCanonical(t *testing.T) {
	for _, mer := range randomMers {
		kcode, _ := New(mer)
		c1 := kcode.Canonical()
		c2 := kcode.RevComp().Canonical()
		if !c1.Equal(c2) {
			t.Errorf("Canonical() not strand-invariant for %s", mer)
		}
		if c1.Code > kcode.Code && c1.Code > kcode.RevComp().Code {
			t.Errorf("Canonical() did not pick the minimum for %s", mer)
		}
	}
}

func BenchmarkEncodeK32(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Encode(benchMer)
	}
}

func BenchmarkDecodeK32(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Decode(benchCode, len(benchMer))
	}
}

func BenchmarkRevCompK32(b *testing.B) {
	for i := 0; i < b.N; i++ {
		benchKmerCode.RevComp()
	}
}
