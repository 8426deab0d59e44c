package domain

import "testing"

func TestStrengthRoundTrip(t *testing.T) {
	// Every tenth on [0,1] must survive the store boundary unchanged.
	for n := 0; n <= 10; n++ {
		s := float64(n) / 10
		if got := StrengthFromInt(StrengthToInt(s)); got != s {
			t.Errorf("strength %.1f round-tripped to %.3f", s, got)
		}
	}
}

func TestStrengthToInt_Rounds(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0.0, 0},
		{0.04, 0},
		{0.05, 1},
		{0.7, 7},
		{0.75, 8},
		{1.0, 10},
	}
	for _, tt := range tests {
		if got := StrengthToInt(tt.in); got != tt.want {
			t.Errorf("StrengthToInt(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestStrengthConversion_Clamps(t *testing.T) {
	if got := StrengthToInt(-0.5); got != 0 {
		t.Errorf("negative strength should clamp to 0, got %d", got)
	}
	if got := StrengthToInt(1.5); got != 10 {
		t.Errorf("oversized strength should clamp to 10, got %d", got)
	}
	if got := StrengthFromInt(-3); got != 0 {
		t.Errorf("negative stored strength should clamp to 0, got %v", got)
	}
	if got := StrengthFromInt(15); got != 1 {
		t.Errorf("oversized stored strength should clamp to 1, got %v", got)
	}
}

func TestCanonicalRelationship(t *testing.T) {
	if got := CanonicalRelationship("question"); got != RelationshipQuestions {
		t.Fatalf("legacy singular should canonicalize to questions, got %s", got)
	}
	if got := CanonicalRelationship(RelationshipSupports); got != RelationshipSupports {
		t.Fatalf("current names must pass through unchanged, got %s", got)
	}
}

func TestValidRelationship(t *testing.T) {
	valid := []string{
		"related", "supports", "contradicts", "extends", "example",
		"implementation", "inspires", "builds_on", "contrasts",
		"references", "questions", "question",
	}
	for _, r := range valid {
		if !ValidRelationship(r) {
			t.Errorf("expected %q to be valid", r)
		}
	}
	if ValidRelationship("enemies") {
		t.Error("unknown relationship should be invalid")
	}
}

func TestValidEnums(t *testing.T) {
	if !ValidStage("seedling") || ValidStage("blooming") {
		t.Error("stage validation mismatch")
	}
	if !ValidConfidenceLevel("working") || ValidConfidenceLevel("certain") {
		t.Error("confidence validation mismatch")
	}
	if !ValidVisibility("unlisted") || ValidVisibility("hidden") {
		t.Error("visibility validation mismatch")
	}
	if !ValidQuestionCategory("ethical") || ValidQuestionCategory("rhetorical") {
		t.Error("question category validation mismatch")
	}
}
