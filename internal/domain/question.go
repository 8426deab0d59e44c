package domain

import (
	"time"

	"github.com/google/uuid"
)

type QuestionCategory string

const (
	QuestionPhilosophical QuestionCategory = "philosophical"
	QuestionEthical       QuestionCategory = "ethical"
	QuestionPractical     QuestionCategory = "practical"
	QuestionScientific    QuestionCategory = "scientific"
	QuestionSocial        QuestionCategory = "social"
	QuestionPersonal      QuestionCategory = "personal"
)

func ValidQuestionCategory(c string) bool {
	switch QuestionCategory(c) {
	case QuestionPhilosophical, QuestionEthical, QuestionPractical,
		QuestionScientific, QuestionSocial, QuestionPersonal:
		return true
	}
	return false
}

// Question is an open inquiry, optionally linked to the models it probes.
type Question struct {
	ID                  uuid.UUID        `json:"id"`
	AccountID           uuid.UUID        `json:"account_id,omitempty"`
	Text                string           `json:"text"`
	Category            QuestionCategory `json:"category"`
	Importance          int              `json:"importance"`
	ClarificationNeeded bool             `json:"clarification_needed"`
	RelatedModelIDs     []string         `json:"related_model_ids,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	ModifiedAt          time.Time        `json:"modified_at"`
}
