package strain

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// touchFiles creates empty files named by names inside dir and returns dir.
func touchFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(">seq\nACGT\n"), 0o644); err != nil {
			t.Fatalf("write fixture %s: %s", name, err)
		}
	}
	return dir
}

func TestLoadManifestBasic(t *testing.T) {
	dir := touchFiles(t, "a.fasta", "b.fasta")
	data := "id\tphenotype\tpath\n" +
		"s1\t1\ta.fasta\n" +
		"s2\t0\tb.fasta\n"

	m, err := parseManifest(strings.NewReader(data), dir, nil)
	if err != nil {
		t.Fatalf("parseManifest: %s", err)
	}
	if !m.HasPhenotype {
		t.Fatal("expected HasPhenotype true")
	}
	if len(m.Strains) != 2 {
		t.Fatalf("expected 2 strains, got %d", len(m.Strains))
	}
	if m.Strains[0].ID != "s1" || m.Strains[0].Phenotype != PhenotypeCase {
		t.Errorf("strain 0 = %+v", m.Strains[0])
	}
	if m.Strains[1].ID != "s2" || m.Strains[1].Phenotype != PhenotypeControl {
		t.Errorf("strain 1 = %+v", m.Strains[1])
	}
	if want := filepath.Join(dir, "a.fasta"); m.Strains[0].Path != want {
		t.Errorf("path = %s, want %s", m.Strains[0].Path, want)
	}
}

func TestLoadManifestNoPhenotypeColumn(t *testing.T) {
	dir := touchFiles(t, "a.fasta")
	data := "id\tpath\ns1\ta.fasta\n"
	m, err := parseManifest(strings.NewReader(data), dir, nil)
	if err != nil {
		t.Fatalf("parseManifest: %s", err)
	}
	if m.HasPhenotype {
		t.Fatal("expected HasPhenotype false")
	}
	if m.Strains[0].Phenotype != PhenotypeUnknown {
		t.Errorf("phenotype = %v, want PhenotypeUnknown", m.Strains[0].Phenotype)
	}
}

func TestLoadManifestDuplicateID(t *testing.T) {
	dir := touchFiles(t, "a.fasta", "b.fasta")
	data := "id\tpath\ns1\ta.fasta\ns1\tb.fasta\n"
	if _, err := parseManifest(strings.NewReader(data), dir, nil); err == nil {
		t.Fatal("expected error for duplicate id")
	}
}

func TestLoadManifestNAPhenotypeExcluded(t *testing.T) {
	dir := touchFiles(t, "a.fasta", "b.fasta")
	var warnings []string
	data := "id\tphenotype\tpath\n" +
		"s1\t1\ta.fasta\n" +
		"s2\tNA\tb.fasta\n"

	m, err := parseManifest(strings.NewReader(data), dir, func(msg string) {
		warnings = append(warnings, msg)
	})
	if err != nil {
		t.Fatalf("parseManifest: %s", err)
	}
	if len(m.Strains) != 1 {
		t.Fatalf("expected 1 strain after NA exclusion, got %d", len(m.Strains))
	}
	if len(warnings) != 1 {
		t.Errorf("expected 1 warning, got %d", len(warnings))
	}
}

func TestLoadManifestInvalidPhenotype(t *testing.T) {
	dir := touchFiles(t, "a.fasta")
	data := "id\tphenotype\tpath\ns1\tmaybe\ta.fasta\n"
	if _, err := parseManifest(strings.NewReader(data), dir, nil); err == nil {
		t.Fatal("expected error for invalid phenotype value")
	}
}

func TestLoadManifestMissingColumns(t *testing.T) {
	data := "name\tfile\ns1\ta.fasta\n"
	if _, err := parseManifest(strings.NewReader(data), "/genomes", nil); err == nil {
		t.Fatal("expected error for missing id/path columns")
	}
}

func TestLoadManifestMissingStrainFile(t *testing.T) {
	dir := t.TempDir()
	data := "id\tpath\ns1\tdoes-not-exist.fasta\n"
	if _, err := parseManifest(strings.NewReader(data), dir, nil); err == nil {
		t.Fatal("expected error for missing strain file")
	}
}
