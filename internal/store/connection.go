package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmalda/garden/internal/domain"
)

// ConnectionStore persists edges between mental models. Source and
// target ids are stored as text so rows imported from the legacy
// numeric-id era keep resolving. Strength is stored as an integer 0-10;
// the decimal conversion happens only here, at the boundary.
type ConnectionStore struct {
	db *pgxpool.Pool
}

func NewConnectionStore(db *pgxpool.Pool) *ConnectionStore {
	return &ConnectionStore{db: db}
}

func (s *ConnectionStore) Create(ctx context.Context, c *domain.Connection) error {
	c.Relationship = domain.CanonicalRelationship(c.Relationship)
	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO connections (source_id, target_id, relationship, strength)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		c.SourceID, c.TargetID, c.Relationship, domain.StrengthToInt(c.Strength),
	).Scan(&id, &c.CreatedAt)
	if err != nil {
		return classify("create connection", err)
	}
	c.ID = strconv.FormatInt(id, 10)
	return nil
}

func (s *ConnectionStore) Update(ctx context.Context, id string, relationship domain.Relationship, strength float64) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE connections SET relationship = $1, strength = $2 WHERE id = $3`,
		domain.CanonicalRelationship(relationship), domain.StrengthToInt(strength), idArg(id),
	)
	if err != nil {
		return classify("update connection", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ConnectionStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM connections WHERE id = $1`, idArg(id))
	if err != nil {
		return classify("delete connection", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ConnectionStore) GetByID(ctx context.Context, id string) (*domain.Connection, error) {
	c, err := s.scanOne(s.db.QueryRow(ctx,
		`SELECT id, source_id, target_id, relationship, strength, created_at
		 FROM connections WHERE id = $1`, idArg(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classify("get connection", err)
	}
	return c, nil
}

func (s *ConnectionStore) ListTouching(ctx context.Context, accountID uuid.UUID, modelID string) ([]domain.Connection, error) {
	// The anchor must belong to the account, otherwise any known
	// model uuid would expose another account's edges.
	rows, err := s.db.Query(ctx,
		`SELECT c.id, c.source_id, c.target_id, c.relationship, c.strength, c.created_at
		 FROM connections c
		 WHERE (c.source_id = $1 OR c.target_id = $1)
		   AND EXISTS (
		       SELECT 1 FROM mental_models m
		       WHERE m.id::text = $1 AND m.account_id = $2
		   )
		 ORDER BY c.created_at`,
		modelID, accountID,
	)
	if err != nil {
		return nil, classify("list touching connections", err)
	}
	return s.collect(rows)
}

func (s *ConnectionStore) ListAll(ctx context.Context, accountID uuid.UUID) ([]domain.Connection, error) {
	rows, err := s.db.Query(ctx,
		`SELECT c.id, c.source_id, c.target_id, c.relationship, c.strength, c.created_at
		 FROM connections c
		 JOIN mental_models m ON m.id::text = c.source_id
		 WHERE m.account_id = $1
		 ORDER BY c.created_at`,
		accountID,
	)
	if err != nil {
		return nil, classify("list connections", err)
	}
	return s.collect(rows)
}

func (s *ConnectionStore) scanOne(row pgx.Row) (*domain.Connection, error) {
	c := &domain.Connection{}
	var id int64
	var strength int
	if err := row.Scan(&id, &c.SourceID, &c.TargetID, &c.Relationship, &strength, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.ID = strconv.FormatInt(id, 10)
	c.Relationship = domain.CanonicalRelationship(c.Relationship)
	c.Strength = domain.StrengthFromInt(strength)
	return c, nil
}

func (s *ConnectionStore) collect(rows pgx.Rows) ([]domain.Connection, error) {
	defer rows.Close()
	var conns []domain.Connection
	for rows.Next() {
		c, err := s.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan connection row: %w", err)
		}
		conns = append(conns, *c)
	}
	return conns, rows.Err()
}

// idArg converts a string connection id back to the serial column type.
// Non-numeric ids pass through and simply match nothing.
func idArg(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}
