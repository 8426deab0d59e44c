package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmalda/garden/internal/domain"
	"github.com/jmalda/garden/internal/ident"
	"go.uber.org/zap"
)

// DesiredConnection is one edge the editor wants to exist for the
// anchor model, with the anchor as the implicit other end.
type DesiredConnection struct {
	TargetID     string
	Relationship domain.Relationship
	Strength     float64
}

// ConnectionUpdate rewrites an existing connection in place, keyed by
// its persisted id.
type ConnectionUpdate struct {
	ID           string
	Relationship domain.Relationship
	Strength     float64
}

// Plan is the minimal operation set that turns the persisted edge set
// into the desired one.
type Plan struct {
	Creates []domain.Connection
	Updates []ConnectionUpdate
	Deletes []string
}

func (p Plan) Empty() bool {
	return len(p.Creates) == 0 && len(p.Updates) == 0 && len(p.Deletes) == 0
}

// DiffConnections computes the minimal create/update/delete set.
// Matching is undirected with respect to the anchor: an existing edge
// counts as "the anchor-B edge" whether the anchor is stored as source
// or target. Updates are emitted only when relationship or strength
// actually differ; strength is compared at the store's integer
// resolution so 0.70 vs 0.7000001 never churns a write.
func DiffConnections(anchorID string, desired []DesiredConnection, existing []domain.Connection) Plan {
	anchor := ident.Key(anchorID)

	type existingEdge struct {
		conn    domain.Connection
		matched bool
	}
	byOtherEnd := make(map[string]*existingEdge, len(existing))
	order := make([]*existingEdge, 0, len(existing))
	for _, c := range existing {
		other := ident.Key(c.TargetID)
		if other == anchor {
			other = ident.Key(c.SourceID)
		}
		e := &existingEdge{conn: c}
		if _, dup := byOtherEnd[other]; !dup {
			byOtherEnd[other] = e
		}
		order = append(order, e)
	}

	var plan Plan
	for _, d := range desired {
		key := ident.Key(d.TargetID)
		if ident.Missing(key) {
			continue
		}
		e, ok := byOtherEnd[key]
		if !ok {
			plan.Creates = append(plan.Creates, domain.Connection{
				SourceID:     anchorID,
				TargetID:     d.TargetID,
				Relationship: domain.CanonicalRelationship(d.Relationship),
				Strength:     d.Strength,
			})
			continue
		}
		e.matched = true

		rel := domain.CanonicalRelationship(d.Relationship)
		sameRel := rel == domain.CanonicalRelationship(e.conn.Relationship)
		sameStrength := domain.StrengthToInt(d.Strength) == domain.StrengthToInt(e.conn.Strength)
		if !sameRel || !sameStrength {
			plan.Updates = append(plan.Updates, ConnectionUpdate{
				ID:           e.conn.ID,
				Relationship: rel,
				Strength:     d.Strength,
			})
		}
	}

	for _, e := range order {
		if !e.matched {
			plan.Deletes = append(plan.Deletes, e.conn.ID)
		}
	}
	return plan
}

// ConnectionReconciler applies connection plans against the store.
type ConnectionReconciler struct {
	connStore domain.ConnectionStore
	logger    *zap.Logger
}

func NewConnectionReconciler(cs domain.ConnectionStore, logger *zap.Logger) *ConnectionReconciler {
	return &ConnectionReconciler{connStore: cs, logger: logger}
}

// Reconcile fetches the anchor's persisted edges, diffs them against
// the desired list, and applies the plan. Creates and updates are
// attempted before deletes, so a failed create never orphans a delete
// that would have replaced it. Individual failures are collected as
// warnings, not returned as errors: by the time reconciliation runs the
// primary entity write has already committed and is not rolled back.
func (r *ConnectionReconciler) Reconcile(ctx context.Context, accountID uuid.UUID, anchorID string, desired []DesiredConnection) []string {
	existing, err := r.connStore.ListTouching(ctx, accountID, anchorID)
	if err != nil {
		r.logger.Warn("listing existing connections failed, skipping reconciliation",
			zap.String("model_id", anchorID), zap.Error(err))
		return []string{fmt.Sprintf("connections could not be loaded: %v", err)}
	}

	plan := DiffConnections(anchorID, desired, existing)
	if plan.Empty() {
		return nil
	}
	return r.Apply(ctx, plan)
}

// Apply runs a plan phase by phase, returning one warning per failed
// operation.
func (r *ConnectionReconciler) Apply(ctx context.Context, plan Plan) []string {
	var warnings []string

	for i := range plan.Creates {
		c := plan.Creates[i]
		if err := r.connStore.Create(ctx, &c); err != nil {
			r.logger.Warn("connection create failed",
				zap.String("target_id", c.TargetID), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("connection to %s could not be created: %v", c.TargetID, err))
		}
	}

	for _, u := range plan.Updates {
		if err := r.connStore.Update(ctx, u.ID, u.Relationship, u.Strength); err != nil {
			r.logger.Warn("connection update failed",
				zap.String("connection_id", u.ID), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("connection %s could not be updated: %v", u.ID, err))
		}
	}

	// Deletes run last; see Reconcile.
	for _, id := range plan.Deletes {
		if err := r.connStore.Delete(ctx, id); err != nil {
			r.logger.Warn("connection delete failed",
				zap.String("connection_id", id), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("connection %s could not be removed: %v", id, err))
		}
	}

	return warnings
}
