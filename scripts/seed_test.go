package main

import (
	"testing"

	"github.com/jmalda/garden/internal/domain"
)

// Demo rows are inserted with raw SQL, so nothing re-checks them until
// a later save runs full validation. Guard the fixture here.
func TestSeedModelsPassValidation(t *testing.T) {
	for _, m := range seedModels {
		if m.title == "" {
			t.Error("seed model with empty title")
		}
		if !domain.ValidStage(string(m.stage)) {
			t.Errorf("seed model %q has invalid stage %q", m.title, m.stage)
		}
		if !domain.ValidConfidenceLevel(string(m.confidence)) {
			t.Errorf("seed model %q has invalid confidence %q", m.title, m.confidence)
		}
	}
}
