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

// Package annotate aggregates sequence-similarity hits per connected
// component, indexing them by their "general" annotation tag.
package annotate

// emptyTag is substituted for a missing general/specific tag field.
const emptyTag = "<EMPTY>"

// Hit is one sequence-similarity hit against a unitig.
type Hit struct {
	UnitigID uint32
	EValue   float64
	Tags     map[string]string
}

// generalTag returns hit's general tag, substituting emptyTag if absent.
func generalTag(hit Hit) string {
	if v, ok := hit.Tags["general"]; ok {
		return v
	}
	return emptyTag
}

// TagStats is the per-tag aggregate within one component.
type TagStats struct {
	Tag               string
	UnitigIDs         map[uint32]bool
	MinEValue         float64
	RepresentativeHit Hit
}

// UnitigTagHit is one (tag, best e-value for that tag) pairing recorded
// against a unitig.
type UnitigTagHit struct {
	TagID  int
	EValue float64
}

// Aggregator accumulates hits for one connected component, grouping them by
// their general tag while keeping a reverse per-unitig index.
//
// tagOrder assigns stable integer ids to tags in first-seen order, paired
// with tagIndex for the reverse id-to-name lookup.
type Aggregator struct {
	tagOrder map[string]int
	tagIndex []string // tagId -> tag, insertion order

	byTag    []*TagStats // indexed by tagId
	byUnitig map[uint32][]UnitigTagHit
}

// NewAggregator returns an empty aggregator for one component.
func NewAggregator() *Aggregator {
	return &Aggregator{
		tagOrder: make(map[string]int),
		byUnitig: make(map[uint32][]UnitigTagHit),
	}
}

// TagIndex returns the tags in insertion (first-seen) order; tag id i
// corresponds to TagIndex()[i].
func (a *Aggregator) TagIndex() []string {
	return a.tagIndex
}

// ByTag returns the aggregate state for tag id, or nil if out of range.
func (a *Aggregator) ByTag(tagID int) *TagStats {
	if tagID < 0 || tagID >= len(a.byTag) {
		return nil
	}
	return a.byTag[tagID]
}

// ByUnitig returns the (tagId, bestEValue) pairs recorded against unitigID,
// in the order their tags were first added to this unitig.
func (a *Aggregator) ByUnitig(unitigID uint32) []UnitigTagHit {
	return a.byUnitig[unitigID]
}

// Add records hit against the aggregator's per-component state: resolve
// (or allocate) the general tag's id, fold the hit into byTag's unitig set
// and running minimum, and update byUnitig's per-tag best e-value for this
// unitig.
func (a *Aggregator) Add(hit Hit) {
	general := generalTag(hit)
	hit.Tags = withSpecificFallback(hit.Tags)

	tagID, ok := a.tagOrder[general]
	if !ok {
		tagID = len(a.tagIndex)
		a.tagOrder[general] = tagID
		a.tagIndex = append(a.tagIndex, general)
		a.byTag = append(a.byTag, &TagStats{
			Tag:               general,
			UnitigIDs:         make(map[uint32]bool),
			MinEValue:         hit.EValue,
			RepresentativeHit: hit,
		})
	}

	stats := a.byTag[tagID]
	stats.UnitigIDs[hit.UnitigID] = true
	if hit.EValue < stats.MinEValue {
		stats.MinEValue = hit.EValue
		stats.RepresentativeHit = hit
	}

	entries := a.byUnitig[hit.UnitigID]
	found := false
	for i := range entries {
		if entries[i].TagID == tagID {
			if hit.EValue < entries[i].EValue {
				entries[i].EValue = hit.EValue
			}
			found = true
			break
		}
	}
	if !found {
		entries = append(entries, UnitigTagHit{TagID: tagID, EValue: hit.EValue})
	}
	a.byUnitig[hit.UnitigID] = entries
}

// withSpecificFallback returns tags with a "specific" entry guaranteed,
// substituting emptyTag when absent, without mutating the caller's map.
func withSpecificFallback(tags map[string]string) map[string]string {
	if _, ok := tags["specific"]; ok {
		return tags
	}
	out := make(map[string]string, len(tags)+1)
	for k, v := range tags {
		out[k] = v
	}
	out["specific"] = emptyTag
	return out
}
