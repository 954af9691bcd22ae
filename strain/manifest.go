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

// Package strain loads the strain manifest and maps each strain's
// sequences onto the unitig graph.
package strain

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"

	"github.com/shenwei356/util/pathutil"
	"github.com/shenwei356/xopen"

	"github.com/bacpop/unitig-graph/pipeline"
)

// Phenotype is a strain's case/control label, or unknown when the manifest
// carries no phenotype column.
type Phenotype int

const (
	PhenotypeUnknown Phenotype = iota
	PhenotypeControl
	PhenotypeCase
)

// Strain is one row of the manifest.
type Strain struct {
	ID        string
	Phenotype Phenotype
	Path      string
}

// Manifest is the ordered, validated strain list read from a TSV file.
type Manifest struct {
	Strains      []Strain
	HasPhenotype bool
}

// LoadManifest reads a line-oriented TSV manifest with one header line and
// columns id, (optionally) phenotype, path. Duplicate ids are fatal.
// Relative paths are resolved against the manifest file's own directory and
// made absolute. Strains with phenotype NA are dropped with a warning
// (reported to warn, which may be nil).
func LoadManifest(path string, warn func(string)) (*Manifest, error) {
	f, err := xopen.Ropen(path)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.IO, err, "open manifest %s", path)
	}
	defer f.Close()

	baseDir := filepath.Dir(path)
	return parseManifest(f, baseDir, warn)
}

func parseManifest(r io.Reader, baseDir string, warn func(string)) (*Manifest, error) {
	if warn == nil {
		warn = func(string) {}
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0

	var idCol, phenotypeCol, pathCol = -1, -1, -1
	hasPhenotype := false

	var strains []Strain
	seen := make(map[string]int) // id -> line number of first sighting

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")

		if lineNo == 1 {
			for i, name := range fields {
				switch strings.ToLower(strings.TrimSpace(name)) {
				case "id":
					idCol = i
				case "phenotype":
					phenotypeCol = i
					hasPhenotype = true
				case "path":
					pathCol = i
				}
			}
			if idCol < 0 || pathCol < 0 {
				return nil, pipeline.NewError(pipeline.InputValidation,
					"manifest %s: header must contain id and path columns", headerRepr(fields))
			}
			continue
		}

		if idCol >= len(fields) || pathCol >= len(fields) {
			return nil, pipeline.NewError(pipeline.InputValidation,
				"manifest line %d: expected at least %d columns, got %d", lineNo, maxCol(idCol, pathCol)+1, len(fields))
		}

		id := strings.TrimSpace(fields[idCol])
		if id == "" {
			return nil, pipeline.NewError(pipeline.InputValidation, "manifest line %d: empty id", lineNo)
		}
		if prev, dup := seen[id]; dup {
			return nil, pipeline.NewError(pipeline.InputValidation,
				"manifest line %d: duplicate strain id %q, first seen on line %d", lineNo, id, prev)
		}
		seen[id] = lineNo

		rawPath := strings.TrimSpace(fields[pathCol])
		if rawPath == "" {
			return nil, pipeline.NewError(pipeline.InputValidation, "manifest line %d: empty path", lineNo)
		}
		path := rawPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		path, err := filepath.Abs(path)
		if err != nil {
			return nil, pipeline.Wrap(pipeline.IO, err, "manifest line %d: resolve path", lineNo)
		}
		if exists, err := pathutil.Exists(path); err != nil {
			return nil, pipeline.Wrap(pipeline.IO, err, "manifest line %d: stat %s", lineNo, path)
		} else if !exists {
			return nil, pipeline.NewError(pipeline.InputValidation,
				"manifest line %d: strain %q path %s does not exist", lineNo, id, path)
		}

		pheno := PhenotypeUnknown
		if hasPhenotype {
			if phenotypeCol >= len(fields) {
				return nil, pipeline.NewError(pipeline.InputValidation,
					"manifest line %d: missing phenotype column", lineNo)
			}
			raw := strings.TrimSpace(fields[phenotypeCol])
			switch raw {
			case "0":
				pheno = PhenotypeControl
			case "1":
				pheno = PhenotypeCase
			case "NA", "na":
				warn("strain " + id + ": phenotype NA, excluding from manifest")
				continue
			default:
				return nil, pipeline.NewError(pipeline.InputValidation,
					"manifest line %d: invalid phenotype %q, want 0, 1 or NA", lineNo, raw)
			}
		}

		strains = append(strains, Strain{ID: id, Phenotype: pheno, Path: path})
	}
	if err := scanner.Err(); err != nil {
		return nil, pipeline.Wrap(pipeline.IO, err, "read manifest")
	}

	if len(strains) == 0 {
		return nil, pipeline.NewError(pipeline.InputValidation, "manifest has no usable strain rows")
	}

	return &Manifest{Strains: strains, HasPhenotype: hasPhenotype}, nil
}

func maxCol(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func headerRepr(fields []string) string {
	return strings.Join(fields, ",")
}
