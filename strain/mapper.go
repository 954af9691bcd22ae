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

package strain

import (
	"io"
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/shenwei356/bio/seqio/fastx"

	"github.com/bacpop/unitig-graph/dbgraph"
	"github.com/bacpop/unitig-graph/kmer"
	"github.com/bacpop/unitig-graph/pipeline"
	"github.com/bacpop/unitig-graph/unitig"
)

// PresenceBitmap is a fixed-width bit vector over unitigs: bit j is set iff
// at least one k-mer of the strain's sequences maps into unitig j.
type PresenceBitmap = *bitset.BitSet

// Result is one strain's presence bitmap, paired with the manifest row it
// came from so callers can re-associate it after the worker pool scatters
// work across goroutines.
type Result struct {
	Strain Strain
	Bitmap PresenceBitmap
}

// MapStrains builds one PresenceBitmap per strain, in parallel, against the
// shared read-only graph and unitig index. Results are returned in manifest
// order regardless of completion order. A single strain's failure aborts
// the remaining work and discards partial bitmaps rather than returning a
// partially-populated result set.
//
// A fixed-size token channel bounds concurrency to numCPUs, and progress is
// reported through a mutex-guarded counter rather than per-read locking.
func MapStrains(g *dbgraph.Graph, index unitig.Index, numUnitigs, numCPUs int, strains []Strain, progress func(done, total int)) ([]Result, error) {
	if numCPUs < 1 {
		numCPUs = 1
	}
	n := len(strains)
	results := make([]Result, n)
	errs := make([]error, n)

	cancel := make(chan struct{})
	var cancelOnce sync.Once

	var mu sync.Mutex
	done := 0

	var wg sync.WaitGroup
	token := make(chan int, numCPUs)

	for i, st := range strains {
		select {
		case <-cancel:
			break
		default:
		}

		token <- 1
		wg.Add(1)
		go func(i int, st Strain) {
			defer func() {
				wg.Done()
				<-token
			}()

			select {
			case <-cancel:
				return
			default:
			}

			bm, err := mapStrain(g, index, numUnitigs, st)
			if err != nil {
				errs[i] = err
				cancelOnce.Do(func() { close(cancel) })
				return
			}
			results[i] = Result{Strain: st, Bitmap: bm}

			mu.Lock()
			done++
			if progress != nil {
				progress(done, n)
			}
			mu.Unlock()
		}(i, st)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// mapStrain slides a k-wide window over each sequence, skips windows
// touching a non-ACGT base, and sets the bit for the unitig the window's
// canonical k-mer resolves to, tracking lastUnitig to avoid redundant
// repeated sets within one contiguous walk.
func mapStrain(g *dbgraph.Graph, index unitig.Index, numUnitigs int, st Strain) (PresenceBitmap, error) {
	bm := bitset.New(uint(numUnitigs))
	k := g.K()

	reader, err := fastx.NewDefaultReader(st.Path)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.IO, err, "strain %s: open %s", st.ID, st.Path)
	}

	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, pipeline.Wrap(pipeline.IO, err, "strain %s: read %s", st.ID, st.Path)
		}

		sequence := record.Seq.Seq
		if len(sequence) < k {
			continue
		}

		lastUnitig := int64(-1)
		for start := 0; start+k <= len(sequence); start++ {
			window := sequence[start : start+k]
			if !allACGT(window) {
				lastUnitig = -1
				continue
			}

			code, err := kmer.Encode(window)
			if err != nil {
				return nil, pipeline.Wrap(pipeline.InvariantViolation, err, "strain %s: encode k-mer", st.ID)
			}
			canonical := kmer.Canonical(code, k)

			idx, ok := g.Index(canonical)
			if !ok {
				return nil, pipeline.NewError(pipeline.InvariantViolation,
					"strain %s: k-mer %s absent from graph", st.ID, kmer.Decode(canonical, k))
			}

			entry := index[idx]
			if int64(entry.UnitigID) != lastUnitig {
				bm.Set(uint(entry.UnitigID))
				lastUnitig = int64(entry.UnitigID)
			}
		}
	}

	return bm, nil
}

func allACGT(window []byte) bool {
	for _, b := range window {
		switch b {
		case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't':
		default:
			return false
		}
	}
	return true
}
