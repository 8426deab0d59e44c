package domain

import (
	"math"
	"time"
)

type Relationship string

const (
	RelationshipRelated        Relationship = "related"
	RelationshipSupports       Relationship = "supports"
	RelationshipContradicts    Relationship = "contradicts"
	RelationshipExtends        Relationship = "extends"
	RelationshipExample        Relationship = "example"
	RelationshipImplementation Relationship = "implementation"
	RelationshipInspires       Relationship = "inspires"
	RelationshipBuildsOn       Relationship = "builds_on"
	RelationshipContrasts      Relationship = "contrasts"
	RelationshipReferences     Relationship = "references"
	RelationshipQuestions      Relationship = "questions"

	// legacyQuestion is the pre-rename singular form still present in
	// older rows. CanonicalRelationship folds it into "questions".
	legacyQuestion Relationship = "question"
)

func ValidRelationship(r string) bool {
	switch Relationship(r) {
	case RelationshipRelated, RelationshipSupports, RelationshipContradicts,
		RelationshipExtends, RelationshipExample, RelationshipImplementation,
		RelationshipInspires, RelationshipBuildsOn, RelationshipContrasts,
		RelationshipReferences, RelationshipQuestions, legacyQuestion:
		return true
	}
	return false
}

// CanonicalRelationship normalizes legacy aliases to their current name.
func CanonicalRelationship(r Relationship) Relationship {
	if r == legacyQuestion {
		return RelationshipQuestions
	}
	return r
}

// Connection is a typed, weighted edge between two mental models.
// Storage keeps a source and a target, but reconciliation treats the
// edge as undirected: either end may be the anchor.
type Connection struct {
	ID           string       `json:"id"`
	SourceID     string       `json:"source_id"`
	TargetID     string       `json:"target_id"`
	Relationship Relationship `json:"relationship"`
	Strength     float64      `json:"strength"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Strength is a decimal in [0,1] in the domain layer and an integer in
// [0,10] in the store. The conversion lives here so no store query and
// no domain rule ever disagree about it.

func StrengthToInt(s float64) int {
	if s < 0 {
		s = 0
	}
	if s > 1 {
		s = 1
	}
	return int(math.Round(s * 10))
}

func StrengthFromInt(n int) float64 {
	if n < 0 {
		n = 0
	}
	if n > 10 {
		n = 10
	}
	return float64(n) / 10
}
