package sigfilter

import "testing"

func sample() []Scored {
	return []Scored{
		{UnitigID: 1, QValue: 1e-10},
		{UnitigID: 2, QValue: 1e-8},
		{UnitigID: 3, QValue: 1e-3},
		{UnitigID: 4, QValue: 0.2},
	}
}

func TestTopN(t *testing.T) {
	got := TopN(2).Apply(sample())
	if len(got) != 2 || got[0].UnitigID != 1 || got[1].UnitigID != 2 {
		t.Errorf("TopN(2) = %v", got)
	}
}

func TestTopNBeyondLength(t *testing.T) {
	got := TopN(100).Apply(sample())
	if len(got) != 4 {
		t.Errorf("TopN(100) = %v, want all 4 entries", got)
	}
}

func TestTopNZeroOrNegative(t *testing.T) {
	if got := TopN(0).Apply(sample()); got != nil {
		t.Errorf("TopN(0) = %v, want nil", got)
	}
}

func TestQValueThreshold(t *testing.T) {
	got := QValue(1e-4).Apply(sample())
	if len(got) != 2 || got[0].UnitigID != 1 || got[1].UnitigID != 2 {
		t.Errorf("QValue(1e-4) = %v", got)
	}
}

func TestQValueKeepsAllBelowThreshold(t *testing.T) {
	got := QValue(1.0).Apply(sample())
	if len(got) != 4 {
		t.Errorf("QValue(1.0) = %v, want all 4 entries", got)
	}
}
