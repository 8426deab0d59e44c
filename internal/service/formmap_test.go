package service

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmalda/garden/internal/domain"
)

func fullFormValues() FormValues {
	return FormValues{
		Title:      "Second-Order Thinking",
		Subtitle:   "Then what?",
		Summary:    "Consider the consequences of the consequences",
		Content:    "Longer body text",
		Stage:      "evergreen",
		Confidence: "established",
		Visibility: "public",

		Tags:         "thinking, judgment",
		Domains:      "decision-making",
		Frameworks:   "inversion",
		Applications: "investing",

		LatchLocation:     "office",
		LatchAlphabetical: "S",
		LatchTime:         "2019",
		LatchCategory:     "cognition",
		LatchHierarchy:    "4",

		DsrpDistinctions:    "first vs second order",
		DsrpSystemStructure: "decision pipeline",
		DsrpRelationships:   map[string]string{"causes": "delayed effects"},
		DsrpPerspectives:    "investor, operator",

		SocraticClarification: "what counts as a consequence",
		SocraticAssumptions:   "effects are traceable, effects compound",
		SocraticEvidence:      "case studies",
		SocraticAlternatives:  "first-order is enough",
		SocraticImplications:  "slower decisions",

		OriginDatetime:    "2019-06-14T09:30:00Z",
		OriginLocation:    "library",
		OriginEmotions:    "curiosity, surprise",
		OriginPerceptions: "quiet room",

		ConsequencesPersonal:      "fewer regrets",
		ConsequencesInterpersonal: "harder conversations",
		ConsequencesSocietal:      "better policy",

		OpenQuestions: "when is it paralysis?\nhow deep to go?",

		BookTitle:  "The Most Important Thing",
		BookAuthor: "Howard Marks",
		BookLink:   "https://example.com/book",

		ImageURL: "https://example.com/img.png",
	}
}

func TestToSubmission_Defaults(t *testing.T) {
	sub := ToSubmission(FormValues{Title: "Bare"}, time.Now().UTC())
	m := sub.Model

	if m.Stage != domain.StageSeedling {
		t.Errorf("expected default stage seedling, got %s", m.Stage)
	}
	if m.Confidence != domain.ConfidenceHypothesis {
		t.Errorf("expected default confidence hypothesis, got %s", m.Confidence)
	}
	if m.Visibility != domain.VisibilityPublic {
		t.Errorf("expected default visibility public, got %s", m.Visibility)
	}
	if m.Latch != nil || m.DSRP != nil || m.Socratic != nil || m.Origin != nil ||
		m.Consequences != nil || m.Book != nil {
		t.Error("absent form sections must stay nil, not zero-filled")
	}
}

func TestToSubmission_TagsEncoded(t *testing.T) {
	sub := ToSubmission(fullFormValues(), time.Now().UTC())

	want := []string{
		"thinking", "judgment",
		"domain:decision-making",
		"framework:inversion",
		"application:investing",
	}
	if !reflect.DeepEqual(sub.Model.Tags, want) {
		t.Fatalf("expected %v, got %v", want, sub.Model.Tags)
	}
}

func TestToSubmission_OriginRequiresDatetime(t *testing.T) {
	form := FormValues{Title: "T", OriginLocation: "somewhere", OriginDatetime: "not a date"}
	sub := ToSubmission(form, time.Now().UTC())
	if sub.Model.Origin != nil {
		t.Fatal("origin without a parseable datetime must be dropped entirely")
	}
}

func TestToSubmission_BookAuthorDefault(t *testing.T) {
	form := FormValues{Title: "T", BookTitle: "Untitled Notes"}
	sub := ToSubmission(form, time.Now().UTC())
	if sub.Model.Book == nil || sub.Model.Book.Author != "Unknown" {
		t.Fatalf("expected default author Unknown, got %+v", sub.Model.Book)
	}
}

func TestToSubmission_HierarchyFallback(t *testing.T) {
	for _, raw := range []string{"", "abc", "0", "9"} {
		form := FormValues{Title: "T", LatchLocation: "x", LatchHierarchy: raw}
		sub := ToSubmission(form, time.Now().UTC())
		if sub.Model.Latch.Hierarchy != domain.DefaultHierarchy {
			t.Errorf("hierarchy %q should fall back to %d, got %d",
				raw, domain.DefaultHierarchy, sub.Model.Latch.Hierarchy)
		}
	}
}

func TestToSubmission_ConnectionsNormalized(t *testing.T) {
	form := FormValues{
		Title: "T",
		Connections: []ConnectionInput{
			{TargetID: float64(3), Relationship: "question", Strength: 0.6},
			{TargetID: "  uuid-ish  ", Relationship: "supports", Strength: 0.8},
			{TargetID: nil, Relationship: "related", Strength: 0.5},
		},
	}
	sub := ToSubmission(form, time.Now().UTC())

	if len(sub.Connections) != 2 {
		t.Fatalf("nil target must be dropped, got %d connections", len(sub.Connections))
	}
	if sub.Connections[0].TargetID != "3" {
		t.Errorf("numeric target should normalize to \"3\", got %q", sub.Connections[0].TargetID)
	}
	if sub.Connections[0].Relationship != domain.RelationshipQuestions {
		t.Errorf("legacy relationship should canonicalize, got %s", sub.Connections[0].Relationship)
	}
	if sub.Connections[1].TargetID != "uuid-ish" {
		t.Errorf("string target should be trimmed, got %q", sub.Connections[1].TargetID)
	}
}

func TestFormRoundTrip(t *testing.T) {
	in := fullFormValues()
	sub := ToSubmission(in, time.Now().UTC())

	model := sub.Model
	model.ID = uuid.New()
	out := ToFormValues(&model, nil)

	// Connections and the version note have no inverse; compare the rest.
	in.Connections = nil
	out.Connections = nil
	in.VersionNote = ""
	out.VersionNote = ""

	if !reflect.DeepEqual(in, out) {
		t.Fatalf("form values changed in round trip:\n in: %+v\nout: %+v", in, out)
	}
}

func TestToFormValues_SparseModel(t *testing.T) {
	m := &domain.MentalModel{
		ID:    uuid.New(),
		Title: "Sparse",
		Stage: domain.StageSeedling,
	}
	form := ToFormValues(m, nil)
	if form.Title != "Sparse" || form.LatchLocation != "" || form.BookTitle != "" {
		t.Fatalf("sparse model should produce sparse form, got %+v", form)
	}
}

func TestToFormValues_ConnectionsRelativeToAnchor(t *testing.T) {
	id := uuid.New()
	m := &domain.MentalModel{ID: id, Title: "Anchor"}
	conns := []domain.Connection{
		{ID: "1", SourceID: id.String(), TargetID: "other-1", Relationship: domain.RelationshipSupports, Strength: 0.7},
		{ID: "2", SourceID: "other-2", TargetID: id.String(), Relationship: domain.RelationshipRelated, Strength: 0.4},
	}

	form := ToFormValues(m, conns)
	if len(form.Connections) != 2 {
		t.Fatalf("expected 2 connection inputs, got %d", len(form.Connections))
	}
	if form.Connections[0].TargetID != "other-1" {
		t.Errorf("outgoing edge keeps its target, got %v", form.Connections[0].TargetID)
	}
	if form.Connections[1].TargetID != "other-2" {
		t.Errorf("incoming edge flips to its source, got %v", form.Connections[1].TargetID)
	}
}
