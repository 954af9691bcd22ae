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

// Package sigfilter selects the significant unitigs out of an association
// test's sorted output, either by rank (top N) or by threshold (q-value).
package sigfilter

// Scored is one association-test result, assumed sorted ascending by
// QValue before it reaches a Filter.
type Scored struct {
	UnitigID uint32
	QValue   float64
}

// Filter selects a subset of a q-value-sorted result list. It is a
// two-constructor sum type: TopN dispatches on an integer count, QValue
// dispatches on a float threshold.
type Filter interface {
	Apply(sorted []Scored) []Scored
}

type topN struct{ n int }

// TopN returns a Filter keeping the first n entries of a q-value-sorted
// list. n <= 0 keeps nothing.
func TopN(n int) Filter { return topN{n: n} }

func (f topN) Apply(sorted []Scored) []Scored {
	if f.n <= 0 {
		return nil
	}
	if f.n >= len(sorted) {
		return sorted
	}
	return sorted[:f.n]
}

type qValueFilter struct{ q float64 }

// QValue returns a Filter keeping every entry with QValue <= q.
func QValue(q float64) Filter { return qValueFilter{q: q} }

func (f qValueFilter) Apply(sorted []Scored) []Scored {
	for i, s := range sorted {
		if s.QValue > f.q {
			return sorted[:i]
		}
	}
	return sorted
}
