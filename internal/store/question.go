package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmalda/garden/internal/domain"
)

type QuestionStore struct {
	db *pgxpool.Pool
}

func NewQuestionStore(db *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{db: db}
}

func (s *QuestionStore) Create(ctx context.Context, q *domain.Question) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO questions (account_id, text, category, importance, clarification_needed, related_model_ids)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, modified_at`,
		q.AccountID, q.Text, q.Category, q.Importance, q.ClarificationNeeded, q.RelatedModelIDs,
	).Scan(&q.ID, &q.CreatedAt, &q.ModifiedAt)
	if err != nil {
		return classify("create question", err)
	}
	return nil
}

func (s *QuestionStore) GetByID(ctx context.Context, id uuid.UUID, accountID uuid.UUID) (*domain.Question, error) {
	q := &domain.Question{}
	err := s.db.QueryRow(ctx,
		`SELECT id, account_id, text, category, importance, clarification_needed, related_model_ids, created_at, modified_at
		 FROM questions WHERE id = $1 AND account_id = $2`,
		id, accountID,
	).Scan(&q.ID, &q.AccountID, &q.Text, &q.Category, &q.Importance,
		&q.ClarificationNeeded, &q.RelatedModelIDs, &q.CreatedAt, &q.ModifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classify("get question", err)
	}
	return q, nil
}

func (s *QuestionStore) List(ctx context.Context, accountID uuid.UUID) ([]domain.Question, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, account_id, text, category, importance, clarification_needed, related_model_ids, created_at, modified_at
		 FROM questions WHERE account_id = $1 ORDER BY importance DESC, created_at`,
		accountID,
	)
	if err != nil {
		return nil, classify("list questions", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.AccountID, &q.Text, &q.Category, &q.Importance,
			&q.ClarificationNeeded, &q.RelatedModelIDs, &q.CreatedAt, &q.ModifiedAt); err != nil {
			return nil, fmt.Errorf("scan question row: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *QuestionStore) Update(ctx context.Context, q *domain.Question) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE questions
		 SET text = $1, category = $2, importance = $3, clarification_needed = $4,
		     related_model_ids = $5, modified_at = NOW()
		 WHERE id = $6 AND account_id = $7`,
		q.Text, q.Category, q.Importance, q.ClarificationNeeded, q.RelatedModelIDs,
		q.ID, q.AccountID,
	)
	if err != nil {
		return classify("update question", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *QuestionStore) Delete(ctx context.Context, id uuid.UUID, accountID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM questions WHERE id = $1 AND account_id = $2`,
		id, accountID,
	)
	if err != nil {
		return classify("delete question", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// LinkModel appends a model id to a question's related list if not
// already present.
func (s *QuestionStore) LinkModel(ctx context.Context, questionID uuid.UUID, modelID string) error {
	// COALESCE guards the NULL array: ANY over NULL is NULL, which
	// would make the predicate skip every row.
	tag, err := s.db.Exec(ctx,
		`UPDATE questions
		 SET related_model_ids = array_append(COALESCE(related_model_ids, '{}'), $1),
		     modified_at = NOW()
		 WHERE id = $2 AND $1 <> ALL(COALESCE(related_model_ids, '{}'))`,
		modelID, questionID,
	)
	if err != nil {
		return classify("link question model", err)
	}
	if tag.RowsAffected() == 0 {
		// Zero rows is either an already-linked pair (fine) or a
		// question that does not exist (the caller should hear about it).
		var exists bool
		if err := s.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM questions WHERE id = $1)`, questionID,
		).Scan(&exists); err != nil {
			return classify("link question model", err)
		}
		if !exists {
			return ErrNotFound
		}
	}
	return nil
}
