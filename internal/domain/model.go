package domain

import (
	"time"

	"github.com/google/uuid"
)

type Stage string

const (
	StageSeedling  Stage = "seedling"
	StageGrowing   Stage = "growing"
	StageEvergreen Stage = "evergreen"
	StageMature    Stage = "mature"
	StageRefined   Stage = "refined"
)

func ValidStage(s string) bool {
	switch Stage(s) {
	case StageSeedling, StageGrowing, StageEvergreen, StageMature, StageRefined:
		return true
	}
	return false
}

type ConfidenceLevel string

const (
	ConfidenceHypothesis  ConfidenceLevel = "hypothesis"
	ConfidenceWorking     ConfidenceLevel = "working"
	ConfidenceEstablished ConfidenceLevel = "established"
	ConfidenceFundamental ConfidenceLevel = "fundamental"
)

func ValidConfidenceLevel(c string) bool {
	switch ConfidenceLevel(c) {
	case ConfidenceHypothesis, ConfidenceWorking, ConfidenceEstablished, ConfidenceFundamental:
		return true
	}
	return false
}

type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
)

func ValidVisibility(v string) bool {
	switch Visibility(v) {
	case VisibilityPublic, VisibilityPrivate, VisibilityUnlisted:
		return true
	}
	return false
}

// LatchAttributes holds the optional LATCH organizational metadata
// (Location, Alphabet, Time, Category, Hierarchy).
type LatchAttributes struct {
	Location     string `json:"location,omitempty"`
	Alphabetical string `json:"alphabetical,omitempty"`
	Time         string `json:"time,omitempty"`
	Category     string `json:"category,omitempty"`
	Hierarchy    int    `json:"hierarchy"`
}

// DSRPStructure holds the optional DSRP analytical metadata
// (Distinctions, Systems, Relationships, Perspectives).
type DSRPStructure struct {
	Distinctions    string            `json:"distinctions,omitempty"`
	SystemStructure string            `json:"system_structure,omitempty"`
	Relationships   map[string]string `json:"relationships,omitempty"`
	Perspectives    []string          `json:"perspectives,omitempty"`
}

type SocraticAttributes struct {
	Clarification            string   `json:"clarification,omitempty"`
	Assumptions              []string `json:"assumptions,omitempty"`
	Evidence                 string   `json:"evidence,omitempty"`
	AlternativePerspectives  []string `json:"alternative_perspectives,omitempty"`
	Implications             string   `json:"implications,omitempty"`
}

// OriginMoment records where and when a model first crystallized.
// The datetime is the anchor field: a model either has a complete
// origin moment or none at all.
type OriginMoment struct {
	Datetime    time.Time `json:"datetime"`
	Location    string    `json:"location,omitempty"`
	Emotions    []string  `json:"emotions,omitempty"`
	Perceptions string    `json:"perceptions,omitempty"`
}

type Consequences struct {
	Personal      string `json:"personal,omitempty"`
	Interpersonal string `json:"interpersonal,omitempty"`
	Societal      string `json:"societal,omitempty"`
}

type BookInfo struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Link   string `json:"link"`
}

// MentalModel is a titled knowledge note with structured analytical
// metadata. Tags carry typed classification via the domain:/framework:/
// application: prefixes (see the tags package).
type MentalModel struct {
	ID         uuid.UUID       `json:"id"`
	AccountID  uuid.UUID       `json:"account_id,omitempty"`
	Title      string          `json:"title"`
	Subtitle   string          `json:"subtitle,omitempty"`
	Summary    string          `json:"summary,omitempty"`
	Content    string          `json:"content,omitempty"`
	Stage      Stage           `json:"stage"`
	Confidence ConfidenceLevel `json:"confidence"`
	Visibility Visibility      `json:"visibility"`
	Tags       []string        `json:"tags,omitempty"`

	Latch         *LatchAttributes    `json:"latch,omitempty"`
	DSRP          *DSRPStructure      `json:"dsrp,omitempty"`
	Socratic      *SocraticAttributes `json:"socratic,omitempty"`
	Origin        *OriginMoment       `json:"origin,omitempty"`
	Consequences  *Consequences       `json:"consequences,omitempty"`
	OpenQuestions []string            `json:"open_questions,omitempty"`
	Book          *BookInfo           `json:"book,omitempty"`

	ImageURL string `json:"image_url,omitempty"`

	Embedding []float32 `json:"-"`

	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// ModelWithScore pairs a model with a similarity score from vector recall.
type ModelWithScore struct {
	MentalModel
	Score float32 `json:"score"`
}

// DefaultHierarchy is the LATCH hierarchy level assumed when the form
// leaves it blank or unparseable.
const DefaultHierarchy = 3
