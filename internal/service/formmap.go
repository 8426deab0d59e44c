package service

import (
	"strconv"
	"time"

	"github.com/jmalda/garden/internal/domain"
	"github.com/jmalda/garden/internal/ident"
	"github.com/jmalda/garden/internal/tags"
)

// FormValues is the flat, string-heavy shape the model editor submits.
// List fields are comma-separated text, open questions are
// newline-delimited, and nested attribute groups arrive as individual
// prefixed fields.
type FormValues struct {
	Title      string `json:"title" validate:"required"`
	Subtitle   string `json:"subtitle"`
	Summary    string `json:"summary"`
	Content    string `json:"content"`
	Stage      string `json:"stage" validate:"omitempty,oneof=seedling growing evergreen mature refined"`
	Confidence string `json:"confidence" validate:"omitempty,oneof=hypothesis working established fundamental"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=public private unlisted"`

	Tags         string `json:"tags"`
	Domains      string `json:"domains"`
	Frameworks   string `json:"frameworks"`
	Applications string `json:"applications"`

	LatchLocation     string `json:"latch_location"`
	LatchAlphabetical string `json:"latch_alphabetical"`
	LatchTime         string `json:"latch_time"`
	LatchCategory     string `json:"latch_category"`
	LatchHierarchy    string `json:"latch_hierarchy"`

	DsrpDistinctions    string            `json:"dsrp_distinctions"`
	DsrpSystemStructure string            `json:"dsrp_system_structure"`
	DsrpRelationships   map[string]string `json:"dsrp_relationships"`
	DsrpPerspectives    string            `json:"dsrp_perspectives"`

	SocraticClarification string `json:"socratic_clarification"`
	SocraticAssumptions   string `json:"socratic_assumptions"`
	SocraticEvidence      string `json:"socratic_evidence"`
	SocraticAlternatives  string `json:"socratic_alternatives"`
	SocraticImplications  string `json:"socratic_implications"`

	OriginDatetime    string `json:"origin_datetime"`
	OriginLocation    string `json:"origin_location"`
	OriginEmotions    string `json:"origin_emotions"`
	OriginPerceptions string `json:"origin_perceptions"`

	ConsequencesPersonal      string `json:"consequences_personal"`
	ConsequencesInterpersonal string `json:"consequences_interpersonal"`
	ConsequencesSocietal      string `json:"consequences_societal"`

	OpenQuestions string `json:"open_questions"`

	BookTitle  string `json:"book_title"`
	BookAuthor string `json:"book_author"`
	BookLink   string `json:"book_link"`

	ImageURL string `json:"image_url"`

	VersionNote      string `json:"version_note"`
	CreateNewVersion bool   `json:"create_new_version"`

	Connections []ConnectionInput `json:"connections"`

	RelatedQuestionIDs []string `json:"related_question_ids"`
}

// ConnectionInput is one desired edge for the anchor model. TargetID is
// deliberately untyped: legacy rows send small integers, the normalized
// backend sends UUID strings.
type ConnectionInput struct {
	TargetID     any     `json:"target_id"`
	Relationship string  `json:"relationship"`
	Strength     float64 `json:"strength"`
}

// Submission is the domain-shaped payload produced from FormValues.
type Submission struct {
	Model       domain.MentalModel
	Connections []DesiredConnection
	QuestionIDs []string
	VersionNote string
	NewVersion  bool
}

// ToSubmission maps form values onto the domain shape. Nested
// sub-objects are built only when their anchor field is present; an
// absent origin datetime means no origin moment at all, never a
// zero-filled one. ModifiedAt is always refreshed to now.
func ToSubmission(form FormValues, now time.Time) Submission {
	m := domain.MentalModel{
		Title:      form.Title,
		Subtitle:   form.Subtitle,
		Summary:    form.Summary,
		Content:    form.Content,
		Stage:      domain.Stage(form.Stage),
		Confidence: domain.ConfidenceLevel(form.Confidence),
		Visibility: domain.Visibility(form.Visibility),
		ImageURL:   form.ImageURL,
		ModifiedAt: now,
	}
	if m.Stage == "" {
		m.Stage = domain.StageSeedling
	}
	if m.Confidence == "" {
		m.Confidence = domain.ConfidenceHypothesis
	}
	if m.Visibility == "" {
		m.Visibility = domain.VisibilityPublic
	}

	m.Tags = tags.Encode(
		tags.SplitList(form.Tags),
		tags.SplitList(form.Domains),
		tags.SplitList(form.Frameworks),
		tags.SplitList(form.Applications),
	)

	if form.LatchLocation != "" || form.LatchAlphabetical != "" || form.LatchTime != "" ||
		form.LatchCategory != "" || form.LatchHierarchy != "" {
		m.Latch = &domain.LatchAttributes{
			Location:     form.LatchLocation,
			Alphabetical: form.LatchAlphabetical,
			Time:         form.LatchTime,
			Category:     form.LatchCategory,
			Hierarchy:    parseHierarchy(form.LatchHierarchy),
		}
	}

	if form.DsrpDistinctions != "" || form.DsrpSystemStructure != "" ||
		len(form.DsrpRelationships) > 0 || form.DsrpPerspectives != "" {
		m.DSRP = &domain.DSRPStructure{
			Distinctions:    form.DsrpDistinctions,
			SystemStructure: form.DsrpSystemStructure,
			Relationships:   form.DsrpRelationships,
			Perspectives:    tags.SplitList(form.DsrpPerspectives),
		}
	}

	if form.SocraticClarification != "" || form.SocraticAssumptions != "" ||
		form.SocraticEvidence != "" || form.SocraticAlternatives != "" ||
		form.SocraticImplications != "" {
		m.Socratic = &domain.SocraticAttributes{
			Clarification:           form.SocraticClarification,
			Assumptions:             tags.SplitList(form.SocraticAssumptions),
			Evidence:                form.SocraticEvidence,
			AlternativePerspectives: tags.SplitList(form.SocraticAlternatives),
			Implications:            form.SocraticImplications,
		}
	}

	// The origin datetime anchors the whole sub-object: unparseable or
	// absent means no origin moment.
	if dt, err := time.Parse(time.RFC3339, form.OriginDatetime); err == nil {
		m.Origin = &domain.OriginMoment{
			Datetime:    dt,
			Location:    form.OriginLocation,
			Emotions:    tags.SplitList(form.OriginEmotions),
			Perceptions: form.OriginPerceptions,
		}
	}

	if form.ConsequencesPersonal != "" || form.ConsequencesInterpersonal != "" ||
		form.ConsequencesSocietal != "" {
		m.Consequences = &domain.Consequences{
			Personal:      form.ConsequencesPersonal,
			Interpersonal: form.ConsequencesInterpersonal,
			Societal:      form.ConsequencesSocietal,
		}
	}

	m.OpenQuestions = tags.SplitLines(form.OpenQuestions)

	if form.BookTitle != "" {
		author := form.BookAuthor
		if author == "" {
			author = "Unknown"
		}
		m.Book = &domain.BookInfo{
			Title:  form.BookTitle,
			Author: author,
			Link:   form.BookLink,
		}
	}

	var desired []DesiredConnection
	for _, c := range form.Connections {
		key := ident.Key(c.TargetID)
		if ident.Missing(key) {
			continue
		}
		desired = append(desired, DesiredConnection{
			TargetID:     key,
			Relationship: domain.CanonicalRelationship(domain.Relationship(c.Relationship)),
			Strength:     c.Strength,
		})
	}

	return Submission{
		Model:       m,
		Connections: desired,
		QuestionIDs: form.RelatedQuestionIDs,
		VersionNote: form.VersionNote,
		NewVersion:  form.CreateNewVersion,
	}
}

// ToFormValues is the inverse mapping for every field that has one.
// The version note has no inverse and starts blank. The function
// tolerates arbitrarily sparse models: every nested access is
// nil-checked.
func ToFormValues(m *domain.MentalModel, conns []domain.Connection) FormValues {
	form := FormValues{
		Title:      m.Title,
		Subtitle:   m.Subtitle,
		Summary:    m.Summary,
		Content:    m.Content,
		Stage:      string(m.Stage),
		Confidence: string(m.Confidence),
		Visibility: string(m.Visibility),
		ImageURL:   m.ImageURL,
	}

	decoded := tags.Decode(m.Tags)
	form.Tags = tags.Join(decoded.Base)
	form.Domains = tags.Join(decoded.Domains)
	form.Frameworks = tags.Join(decoded.Frameworks)
	form.Applications = tags.Join(decoded.Applications)

	if m.Latch != nil {
		form.LatchLocation = m.Latch.Location
		form.LatchAlphabetical = m.Latch.Alphabetical
		form.LatchTime = m.Latch.Time
		form.LatchCategory = m.Latch.Category
		form.LatchHierarchy = strconv.Itoa(m.Latch.Hierarchy)
	}

	if m.DSRP != nil {
		form.DsrpDistinctions = m.DSRP.Distinctions
		form.DsrpSystemStructure = m.DSRP.SystemStructure
		form.DsrpRelationships = m.DSRP.Relationships
		form.DsrpPerspectives = tags.Join(m.DSRP.Perspectives)
	}

	if m.Socratic != nil {
		form.SocraticClarification = m.Socratic.Clarification
		form.SocraticAssumptions = tags.Join(m.Socratic.Assumptions)
		form.SocraticEvidence = m.Socratic.Evidence
		form.SocraticAlternatives = tags.Join(m.Socratic.AlternativePerspectives)
		form.SocraticImplications = m.Socratic.Implications
	}

	if m.Origin != nil {
		form.OriginDatetime = m.Origin.Datetime.Format(time.RFC3339)
		form.OriginLocation = m.Origin.Location
		form.OriginEmotions = tags.Join(m.Origin.Emotions)
		form.OriginPerceptions = m.Origin.Perceptions
	}

	if m.Consequences != nil {
		form.ConsequencesPersonal = m.Consequences.Personal
		form.ConsequencesInterpersonal = m.Consequences.Interpersonal
		form.ConsequencesSocietal = m.Consequences.Societal
	}

	form.OpenQuestions = tags.JoinLines(m.OpenQuestions)

	if m.Book != nil {
		form.BookTitle = m.Book.Title
		form.BookAuthor = m.Book.Author
		form.BookLink = m.Book.Link
	}

	anchor := ident.Key(m.ID.String())
	for _, c := range conns {
		other := c.TargetID
		if ident.Key(c.TargetID) == anchor {
			other = c.SourceID
		}
		form.Connections = append(form.Connections, ConnectionInput{
			TargetID:     other,
			Relationship: string(c.Relationship),
			Strength:     c.Strength,
		})
	}

	return form
}

func parseHierarchy(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 5 {
		return domain.DefaultHierarchy
	}
	return n
}
