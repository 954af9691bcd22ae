package annotate

import "testing"

// TestAnnotationAggregation checks hits are grouped and scored per tag.
func TestAnnotationAggregation(t *testing.T) {
	a := NewAggregator()

	a.Add(Hit{UnitigID: 4, EValue: 1e-20, Tags: map[string]string{"general": "gyrA"}})
	a.Add(Hit{UnitigID: 7, EValue: 1e-50, Tags: map[string]string{"general": "gyrA"}})

	if len(a.TagIndex()) != 1 || a.TagIndex()[0] != "gyrA" {
		t.Fatalf("TagIndex = %v, want [gyrA]", a.TagIndex())
	}

	stats := a.ByTag(0)
	if stats == nil {
		t.Fatal("ByTag(0) = nil")
	}
	if stats.MinEValue != 1e-50 {
		t.Errorf("MinEValue = %v, want 1e-50", stats.MinEValue)
	}
	if !stats.UnitigIDs[4] || !stats.UnitigIDs[7] || len(stats.UnitigIDs) != 2 {
		t.Errorf("UnitigIDs = %v, want {4,7}", stats.UnitigIDs)
	}

	hits4 := a.ByUnitig(4)
	if len(hits4) != 1 || hits4[0].TagID != 0 || hits4[0].EValue != 1e-20 {
		t.Errorf("ByUnitig(4) = %v, want [{0 1e-20}]", hits4)
	}
	hits7 := a.ByUnitig(7)
	if len(hits7) != 1 || hits7[0].TagID != 0 || hits7[0].EValue != 1e-50 {
		t.Errorf("ByUnitig(7) = %v, want [{0 1e-50}]", hits7)
	}
}

func TestMissingTagsSubstituteEmpty(t *testing.T) {
	a := NewAggregator()
	a.Add(Hit{UnitigID: 1, EValue: 1.0, Tags: nil})

	if len(a.TagIndex()) != 1 || a.TagIndex()[0] != emptyTag {
		t.Fatalf("TagIndex = %v, want [%s]", a.TagIndex(), emptyTag)
	}
	stats := a.ByTag(0)
	if stats.RepresentativeHit.Tags["specific"] != emptyTag {
		t.Errorf("specific tag = %q, want %q", stats.RepresentativeHit.Tags["specific"], emptyTag)
	}
}

func TestPerUnitigBestEValuePerTag(t *testing.T) {
	a := NewAggregator()
	a.Add(Hit{UnitigID: 1, EValue: 1e-5, Tags: map[string]string{"general": "tagA"}})
	a.Add(Hit{UnitigID: 1, EValue: 1e-30, Tags: map[string]string{"general": "tagA"}})

	hits := a.ByUnitig(1)
	if len(hits) != 1 {
		t.Fatalf("expected a single collapsed tag entry, got %v", hits)
	}
	if hits[0].EValue != 1e-30 {
		t.Errorf("EValue = %v, want 1e-30 (the better of the two hits)", hits[0].EValue)
	}
}

func TestMultipleTagsTrackedIndependently(t *testing.T) {
	a := NewAggregator()
	a.Add(Hit{UnitigID: 1, EValue: 1e-5, Tags: map[string]string{"general": "tagA"}})
	a.Add(Hit{UnitigID: 1, EValue: 1e-8, Tags: map[string]string{"general": "tagB"}})

	if len(a.TagIndex()) != 2 {
		t.Fatalf("expected 2 tags, got %v", a.TagIndex())
	}
	hits := a.ByUnitig(1)
	if len(hits) != 2 {
		t.Fatalf("expected 2 per-unitig tag entries, got %v", hits)
	}
}
