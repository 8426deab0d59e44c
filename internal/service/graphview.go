package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmalda/garden/internal/domain"
	"github.com/jmalda/garden/internal/ident"
	"go.uber.org/zap"
)

// NodeInput is one renderable node candidate. ID is untyped because the
// node set mixes UUID strings with small integer ids from the legacy
// era.
type NodeInput struct {
	ID    any
	Title string
	Stage domain.Stage
}

// AliasInput is a higher-level entity (a system) that may stand in for
// a node, matched by identical title or identical id.
type AliasInput struct {
	ID    any
	Title string
}

type GraphNode struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Stage domain.Stage `json:"stage,omitempty"`
}

type GraphEdge struct {
	ID           string              `json:"id"`
	Source       string              `json:"source"`
	Target       string              `json:"target"`
	Relationship domain.Relationship `json:"relationship"`
	Color        string              `json:"color"`
	Thickness    float64             `json:"thickness"`
}

type GraphView struct {
	Nodes   []GraphNode `json:"nodes"`
	Edges   []GraphEdge `json:"edges"`
	Dropped int         `json:"dropped,omitempty"`
	Warning string      `json:"warning,omitempty"`
}

// minEdgeThickness keeps zero-strength edges visible.
const minEdgeThickness = 0.15

var relationshipColors = map[domain.Relationship]string{
	domain.RelationshipRelated:        "#8b9dc3",
	domain.RelationshipSupports:       "#4caf50",
	domain.RelationshipContradicts:    "#e53935",
	domain.RelationshipExtends:        "#2196f3",
	domain.RelationshipExample:        "#9575cd",
	domain.RelationshipImplementation: "#00897b",
	domain.RelationshipInspires:       "#fbc02d",
	domain.RelationshipBuildsOn:       "#5c6bc0",
	domain.RelationshipContrasts:      "#f57c00",
	domain.RelationshipReferences:     "#78909c",
	domain.RelationshipQuestions:      "#ab47bc",
}

const defaultEdgeColor = "#9e9e9e"

// ResolveGraph builds a renderable node/edge list from a heterogeneous
// node set and a connection list. Every identifier comparison goes
// through ident.Key, so "3", 3 and 3.0 all resolve to the same node.
// Aliases extend the lookup so a system id resolves to the node it
// shadows. Unresolvable edges are dropped with a debug log each; if
// connections existed but none survived, a single aggregate warning is
// set, the signal that identifier schemes are mismatched upstream.
func ResolveGraph(nodes []NodeInput, aliases []AliasInput, conns []domain.Connection, logger *zap.Logger) *GraphView {
	view := &GraphView{}

	lookup := make(map[string]string, len(nodes))
	byTitle := make(map[string]string, len(nodes))
	for _, n := range nodes {
		key := ident.Key(n.ID)
		if ident.Missing(key) {
			continue
		}
		lookup[key] = key
		if n.Title != "" {
			byTitle[n.Title] = key
		}
		view.Nodes = append(view.Nodes, GraphNode{ID: key, Title: n.Title, Stage: n.Stage})
	}

	for _, a := range aliases {
		key := ident.Key(a.ID)
		if ident.Missing(key) {
			continue
		}
		if _, taken := lookup[key]; taken {
			continue
		}
		if nodeID, ok := byTitle[a.Title]; ok {
			lookup[key] = nodeID
		}
	}

	for _, c := range conns {
		source, okS := lookup[ident.Key(c.SourceID)]
		target, okT := lookup[ident.Key(c.TargetID)]
		if !okS || !okT {
			view.Dropped++
			logger.Debug("dropping unresolvable connection",
				zap.String("connection_id", c.ID),
				zap.String("source_id", c.SourceID),
				zap.String("target_id", c.TargetID))
			continue
		}

		rel := domain.CanonicalRelationship(c.Relationship)
		color, ok := relationshipColors[rel]
		if !ok {
			color = defaultEdgeColor
		}
		thickness := c.Strength
		if thickness < minEdgeThickness {
			thickness = minEdgeThickness
		}

		view.Edges = append(view.Edges, GraphEdge{
			// Edge keys get their own namespace so they can never
			// collide with node ids in the renderer.
			ID:           "edge-" + c.ID,
			Source:       source,
			Target:       target,
			Relationship: rel,
			Color:        color,
			Thickness:    thickness,
		})
	}

	if len(conns) > 0 && len(view.Edges) == 0 {
		view.Warning = "no connections could be resolved against the current node set"
		logger.Warn("graph resolution dropped every connection",
			zap.Int("connections", len(conns)), zap.Int("nodes", len(view.Nodes)))
	}

	return view
}

// GraphService assembles the full garden graph for visualization.
type GraphService struct {
	modelStore  domain.ModelStore
	systemStore domain.SystemStore
	connStore   domain.ConnectionStore
	logger      *zap.Logger
}

func NewGraphService(ms domain.ModelStore, ss domain.SystemStore, cs domain.ConnectionStore, logger *zap.Logger) *GraphService {
	return &GraphService{modelStore: ms, systemStore: ss, connStore: cs, logger: logger}
}

// View loads every model, system and connection for the account and
// resolves them into a renderable graph. Resolution is independent of
// the edit flow: the visualization may run against a different session
// state, so identifiers are re-normalized here from scratch.
func (s *GraphService) View(ctx context.Context, accountID uuid.UUID) (*GraphView, error) {
	models, err := s.modelStore.List(ctx, accountID, domain.ListModelsOpts{})
	if err != nil {
		return nil, err
	}
	systems, err := s.systemStore.List(ctx, accountID)
	if err != nil {
		return nil, err
	}
	conns, err := s.connStore.ListAll(ctx, accountID)
	if err != nil {
		return nil, err
	}

	nodes := make([]NodeInput, 0, len(models))
	for _, m := range models {
		nodes = append(nodes, NodeInput{ID: m.ID.String(), Title: m.Title, Stage: m.Stage})
	}
	aliases := make([]AliasInput, 0, len(systems))
	for _, sys := range systems {
		aliases = append(aliases, AliasInput{ID: sys.ID.String(), Title: sys.Name})
	}

	return ResolveGraph(nodes, aliases, conns, s.logger), nil
}
