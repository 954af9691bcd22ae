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

// Package pattern transposes per-strain presence bitmaps into per-unitig
// ones and deduplicates identical rows into a pattern table, the stage
// of the pipeline.
package pattern

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/bacpop/unitig-graph/pipeline"
	"github.com/bacpop/unitig-graph/unitig"
)

// Table is the deduplicated result of transposing S strain-major presence
// bitmaps into unique unitig-major patterns. Patterns are held in
// pattern-sort order: ascending lexicographic order of the bit sequence
// (strain 0's bit is most significant).
type Table struct {
	NumStrains int
	StrainIDs  []string

	// Rows[p] is the ascending list of unitig ids sharing pattern p.
	Rows [][]uint32
	// Patterns[p] is the S-bit strain presence pattern shared by Rows[p].
	Patterns []*bitset.BitSet
}

// Build transposes strainBitmaps (strain-major, S bitmaps of numUnitigs
// bits each) into numUnitigs unitig-major bitmaps of S bits, then groups
// unitigs sharing an identical pattern.
//
// Runs in three steps: transpose by enumerating set bits of each source
// bitmap (NextSet, rather than a linear bit-by-bit scan, to skip runs of
// zero strains cheaply); group by inserting into an ordered map keyed by
// the bitset value; emit in a final pass. strainBitmaps entries are nilled
// out as they are consumed so peak memory halves monotonically rather than
// holding both layouts at once.
func Build(strainIDs []string, strainBitmaps []*bitset.BitSet, numUnitigs int) (*Table, error) {
	s := len(strainBitmaps)
	if len(strainIDs) != s {
		return nil, pipeline.NewError(pipeline.InvariantViolation,
			"pattern: %d strain ids but %d bitmaps", len(strainIDs), s)
	}

	unitigBitmaps := make([]*bitset.BitSet, numUnitigs)
	for j := range unitigBitmaps {
		unitigBitmaps[j] = bitset.New(uint(s))
	}

	for i := range strainBitmaps {
		bm := strainBitmaps[i]
		if bm == nil {
			continue
		}
		for j, ok := bm.NextSet(0); ok; j, ok = bm.NextSet(j + 1) {
			if j >= uint(numUnitigs) {
				return nil, pipeline.NewError(pipeline.InvariantViolation,
					"pattern: strain %d sets bit %d beyond %d unitigs", i, j, numUnitigs)
			}
			unitigBitmaps[j].Set(uint(i))
		}
		strainBitmaps[i] = nil
	}

	type group struct {
		pattern *bitset.BitSet
		unitigs []uint32
	}
	groups := make(map[string]*group)
	var keys []string

	for j, bm := range unitigBitmaps {
		key := bitsetKey(bm)
		g, ok := groups[key]
		if !ok {
			g = &group{pattern: bm}
			groups[key] = g
			keys = append(keys, key)
		}
		g.unitigs = append(g.unitigs, uint32(j))
	}

	sort.Slice(keys, func(a, b int) bool {
		return bitsetLess(groups[keys[a]].pattern, groups[keys[b]].pattern, s)
	})

	rows := make([][]uint32, len(keys))
	patterns := make([]*bitset.BitSet, len(keys))
	for idx, key := range keys {
		rows[idx] = groups[key].unitigs
		patterns[idx] = groups[key].pattern
	}

	return &Table{NumStrains: s, StrainIDs: strainIDs, Rows: rows, Patterns: patterns}, nil
}

// bitsetKey encodes bm's backing words as a fixed-width big-endian byte
// string suitable for use as a map key; two bitsets of equal length compare
// equal as strings iff they hold the same bits.
func bitsetKey(bm *bitset.BitSet) string {
	words := bm.Bytes()
	buf := make([]byte, 8*len(words))
	for i, w := range words {
		binary.BigEndian.PutUint64(buf[i*8:], w)
	}
	return string(buf)
}

// bitsetLess orders two bitsets by strain index, strain 0 most significant,
// treating an unset bit as less than a set one.
func bitsetLess(a, b *bitset.BitSet, numStrains int) bool {
	for i := 0; i < numStrains; i++ {
		ai, bi := a.Test(uint(i)), b.Test(uint(i))
		if ai != bi {
			return bi
		}
	}
	return false
}

// patternOf returns, for each unitig id in [0, numUnitigs), the 1-based
// pattern id of its row in unique_rows.Rtab, or -1 for a unitig that
// appears in no row.
func (t *Table) patternOf(numUnitigs int) []int {
	ids := make([]int, numUnitigs)
	for i := range ids {
		ids[i] = -1
	}
	for p, row := range t.Rows {
		for _, j := range row {
			ids[j] = p + 1
		}
	}
	return ids
}

// WriteUnitigs writes unitigs.txt: one row per unitig, its sequence
// followed by the strain ids whose bit is set in its pattern.
func WriteUnitigs(w io.Writer, bank unitig.Bank, t *Table) error {
	ids := t.patternOf(len(bank))
	bw := newLineWriter(w)

	for j, seq := range bank {
		pid := ids[j]
		if pid < 0 {
			return pipeline.NewError(pipeline.InvariantViolation, "unitig %d has no assigned pattern", j)
		}
		pattern := t.Patterns[pid-1]

		var sb strings.Builder
		sb.Write(seq)
		sb.WriteString(" |")
		for i, id := range t.StrainIDs {
			if pattern.Test(uint(i)) {
				sb.WriteString(" ")
				sb.WriteString(id)
				sb.WriteString(":1")
			}
		}
		if err := bw.writeLine(sb.String()); err != nil {
			return err
		}
	}
	return bw.err
}

// WriteUniqueRowsToAllRows writes unitigs.unique_rows_to_all_rows.txt: one
// row per unique pattern, in pattern-sort order.
func WriteUniqueRowsToAllRows(w io.Writer, t *Table) error {
	bw := newLineWriter(w)
	for p, row := range t.Rows {
		var sb strings.Builder
		sb.WriteString(strconv.Itoa(p + 1))
		sb.WriteString(" =")
		for _, u := range row {
			sb.WriteString(" ")
			sb.WriteString(strconv.FormatUint(uint64(u), 10))
		}
		if err := bw.writeLine(sb.String()); err != nil {
			return err
		}
	}
	return bw.err
}

// WriteRtab writes unitigs.unique_rows.Rtab: a header row of strain ids
// followed by one 0/1 presence row per unique pattern.
func WriteRtab(w io.Writer, t *Table) error {
	bw := newLineWriter(w)

	var header strings.Builder
	header.WriteString("pattern_id")
	for _, id := range t.StrainIDs {
		header.WriteString("\t")
		header.WriteString(id)
	}
	if err := bw.writeLine(header.String()); err != nil {
		return err
	}

	for p, pattern := range t.Patterns {
		var sb strings.Builder
		sb.WriteString(strconv.Itoa(p + 1))
		for i := 0; i < t.NumStrains; i++ {
			sb.WriteString("\t")
			if pattern.Test(uint(i)) {
				sb.WriteString("1")
			} else {
				sb.WriteString("0")
			}
		}
		if err := bw.writeLine(sb.String()); err != nil {
			return err
		}
	}
	return bw.err
}

type lineWriter struct {
	w   io.Writer
	err error
}

func newLineWriter(w io.Writer) *lineWriter { return &lineWriter{w: w} }

func (lw *lineWriter) writeLine(s string) error {
	if lw.err != nil {
		return lw.err
	}
	if _, err := fmt.Fprintln(lw.w, s); err != nil {
		lw.err = pipeline.Wrap(pipeline.IO, err, "write pattern artifact")
	}
	return lw.err
}
