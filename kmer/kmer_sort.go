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

// CodeSlice is a slice of raw k-mer codes (uint64), for sorting.
type CodeSlice []uint64

// Len returns the length of the slice.
func (codes CodeSlice) Len() int {
	return len(codes)
}

// Swap swaps two elements.
func (codes CodeSlice) Swap(i, j int) {
	codes[i], codes[j] = codes[j], codes[i]
}

// Less compares two codes.
func (codes CodeSlice) Less(i, j int) bool {
	return codes[i] < codes[j]
}

// CodeSlice2 is a slice of Code, for sorting.
type CodeSlice2 []Code

// Len returns the length of the slice.
func (codes CodeSlice2) Len() int {
	return len(codes)
}

// Swap swaps two elements.
func (codes CodeSlice2) Swap(i, j int) {
	codes[i], codes[j] = codes[j], codes[i]
}

// Less compares two Codes.
func (codes CodeSlice2) Less(i, j int) bool {
	return codes[i].Code < codes[j].Code
}
