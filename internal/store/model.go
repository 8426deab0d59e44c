package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmalda/garden/internal/domain"
	pgvector "github.com/pgvector/pgvector-go"
)

type ModelStore struct {
	db *pgxpool.Pool
}

func NewModelStore(db *pgxpool.Pool) *ModelStore {
	return &ModelStore{db: db}
}

const modelColumns = `id, account_id, title, subtitle, summary, content, stage, confidence,
	visibility, tags, latch, dsrp, socratic, origin, consequences, open_questions,
	book, image_url, created_at, modified_at`

// jsonOrNil marshals an optional sub-object for a JSONB column. Nil
// stays NULL so absent sub-objects never round-trip as zero-filled.
func jsonOrNil(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case *domain.LatchAttributes:
		if t == nil {
			return nil, nil
		}
	case *domain.DSRPStructure:
		if t == nil {
			return nil, nil
		}
	case *domain.SocraticAttributes:
		if t == nil {
			return nil, nil
		}
	case *domain.OriginMoment:
		if t == nil {
			return nil, nil
		}
	case *domain.Consequences:
		if t == nil {
			return nil, nil
		}
	case *domain.BookInfo:
		if t == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}

func unmarshalInto(raw []byte, v any) error {
	if raw == nil {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func (s *ModelStore) Create(ctx context.Context, m *domain.MentalModel) error {
	latch, err := jsonOrNil(m.Latch)
	if err != nil {
		return fmt.Errorf("marshal latch: %w", err)
	}
	dsrp, err := jsonOrNil(m.DSRP)
	if err != nil {
		return fmt.Errorf("marshal dsrp: %w", err)
	}
	socratic, err := jsonOrNil(m.Socratic)
	if err != nil {
		return fmt.Errorf("marshal socratic: %w", err)
	}
	origin, err := jsonOrNil(m.Origin)
	if err != nil {
		return fmt.Errorf("marshal origin: %w", err)
	}
	consequences, err := jsonOrNil(m.Consequences)
	if err != nil {
		return fmt.Errorf("marshal consequences: %w", err)
	}
	book, err := jsonOrNil(m.Book)
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}

	var embedding *pgvector.Vector
	if len(m.Embedding) > 0 {
		v := pgvector.NewVector(m.Embedding)
		embedding = &v
	}

	err = s.db.QueryRow(ctx,
		`INSERT INTO mental_models (account_id, title, subtitle, summary, content, stage, confidence,
			visibility, tags, latch, dsrp, socratic, origin, consequences, open_questions, book,
			image_url, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		 RETURNING id, created_at, modified_at`,
		m.AccountID, m.Title, m.Subtitle, m.Summary, m.Content, m.Stage, m.Confidence,
		m.Visibility, m.Tags, latch, dsrp, socratic, origin, consequences, m.OpenQuestions, book,
		m.ImageURL, embedding,
	).Scan(&m.ID, &m.CreatedAt, &m.ModifiedAt)
	if err != nil {
		return classify("create model", err)
	}
	return nil
}

func (s *ModelStore) scanModel(row pgx.Row) (*domain.MentalModel, error) {
	m := &domain.MentalModel{}
	var latch, dsrp, socratic, origin, consequences, book []byte
	err := row.Scan(
		&m.ID, &m.AccountID, &m.Title, &m.Subtitle, &m.Summary, &m.Content, &m.Stage,
		&m.Confidence, &m.Visibility, &m.Tags, &latch, &dsrp, &socratic, &origin,
		&consequences, &m.OpenQuestions, &book, &m.ImageURL, &m.CreatedAt, &m.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	if latch != nil {
		m.Latch = &domain.LatchAttributes{}
		if err := unmarshalInto(latch, m.Latch); err != nil {
			return nil, fmt.Errorf("unmarshal latch: %w", err)
		}
	}
	if dsrp != nil {
		m.DSRP = &domain.DSRPStructure{}
		if err := unmarshalInto(dsrp, m.DSRP); err != nil {
			return nil, fmt.Errorf("unmarshal dsrp: %w", err)
		}
	}
	if socratic != nil {
		m.Socratic = &domain.SocraticAttributes{}
		if err := unmarshalInto(socratic, m.Socratic); err != nil {
			return nil, fmt.Errorf("unmarshal socratic: %w", err)
		}
	}
	if origin != nil {
		m.Origin = &domain.OriginMoment{}
		if err := unmarshalInto(origin, m.Origin); err != nil {
			return nil, fmt.Errorf("unmarshal origin: %w", err)
		}
	}
	if consequences != nil {
		m.Consequences = &domain.Consequences{}
		if err := unmarshalInto(consequences, m.Consequences); err != nil {
			return nil, fmt.Errorf("unmarshal consequences: %w", err)
		}
	}
	if book != nil {
		m.Book = &domain.BookInfo{}
		if err := unmarshalInto(book, m.Book); err != nil {
			return nil, fmt.Errorf("unmarshal book: %w", err)
		}
	}
	return m, nil
}

func (s *ModelStore) GetByID(ctx context.Context, id uuid.UUID, accountID uuid.UUID) (*domain.MentalModel, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+modelColumns+` FROM mental_models WHERE id = $1 AND account_id = $2`,
		id, accountID,
	)
	m, err := s.scanModel(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classify("get model", err)
	}
	return m, nil
}

func (s *ModelStore) List(ctx context.Context, accountID uuid.UUID, opts domain.ListModelsOpts) ([]domain.MentalModel, error) {
	query := `SELECT ` + modelColumns + ` FROM mental_models WHERE account_id = $1`
	args := []any{accountID}

	if opts.Visibility != nil {
		args = append(args, string(*opts.Visibility))
		query += fmt.Sprintf(" AND visibility = $%d", len(args))
	}
	if opts.Stage != nil {
		args = append(args, string(*opts.Stage))
		query += fmt.Sprintf(" AND stage = $%d", len(args))
	}
	if opts.Tag != "" {
		args = append(args, opts.Tag)
		query += fmt.Sprintf(" AND $%d = ANY(tags)", len(args))
	}
	query += " ORDER BY modified_at DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("list models", err)
	}
	defer rows.Close()

	var models []domain.MentalModel
	for rows.Next() {
		m, err := s.scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan model row: %w", err)
		}
		models = append(models, *m)
	}
	return models, rows.Err()
}

func (s *ModelStore) Update(ctx context.Context, m *domain.MentalModel) error {
	latch, err := jsonOrNil(m.Latch)
	if err != nil {
		return fmt.Errorf("marshal latch: %w", err)
	}
	dsrp, err := jsonOrNil(m.DSRP)
	if err != nil {
		return fmt.Errorf("marshal dsrp: %w", err)
	}
	socratic, err := jsonOrNil(m.Socratic)
	if err != nil {
		return fmt.Errorf("marshal socratic: %w", err)
	}
	origin, err := jsonOrNil(m.Origin)
	if err != nil {
		return fmt.Errorf("marshal origin: %w", err)
	}
	consequences, err := jsonOrNil(m.Consequences)
	if err != nil {
		return fmt.Errorf("marshal consequences: %w", err)
	}
	book, err := jsonOrNil(m.Book)
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE mental_models
		 SET title = $1, subtitle = $2, summary = $3, content = $4, stage = $5, confidence = $6,
		     visibility = $7, tags = $8, latch = $9, dsrp = $10, socratic = $11, origin = $12,
		     consequences = $13, open_questions = $14, book = $15, image_url = $16, modified_at = $17
		 WHERE id = $18 AND account_id = $19`,
		m.Title, m.Subtitle, m.Summary, m.Content, m.Stage, m.Confidence,
		m.Visibility, m.Tags, latch, dsrp, socratic, origin,
		consequences, m.OpenQuestions, book, m.ImageURL, m.ModifiedAt,
		m.ID, m.AccountID,
	)
	if err != nil {
		return classify("update model", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ModelStore) Delete(ctx context.Context, id uuid.UUID, accountID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM mental_models WHERE id = $1 AND account_id = $2`,
		id, accountID,
	)
	if err != nil {
		return classify("delete model", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ModelStore) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	tag, err := s.db.Exec(ctx,
		`UPDATE mental_models SET embedding = $1 WHERE id = $2`,
		vec, id,
	)
	if err != nil {
		return classify("update embedding", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ModelStore) FindSimilar(ctx context.Context, accountID uuid.UUID, embedding []float32, excludeID uuid.UUID, threshold float32, limit int) ([]domain.ModelWithScore, error) {
	if limit <= 0 {
		limit = 5
	}
	vec := pgvector.NewVector(embedding)

	rows, err := s.db.Query(ctx,
		`SELECT id, title, subtitle, stage, confidence, visibility,
		        1 - (embedding <=> $1) AS score
		 FROM mental_models
		 WHERE account_id = $2 AND id != $3 AND embedding IS NOT NULL
		   AND 1 - (embedding <=> $1) >= $4
		 ORDER BY score DESC
		 LIMIT $5`,
		vec, accountID, excludeID, threshold, limit,
	)
	if err != nil {
		return nil, classify("find similar models", err)
	}
	defer rows.Close()

	var results []domain.ModelWithScore
	for rows.Next() {
		var ms domain.ModelWithScore
		if err := rows.Scan(&ms.ID, &ms.Title, &ms.Subtitle, &ms.Stage, &ms.Confidence,
			&ms.Visibility, &ms.Score); err != nil {
			return nil, fmt.Errorf("scan similar row: %w", err)
		}
		results = append(results, ms)
	}
	return results, rows.Err()
}
