package session

import (
	"context"

	"go.uber.org/zap"

	"mindmap-backend/internal/ai"
	"mindmap-backend/internal/domain"
	"mindmap-backend/internal/layout"
	"mindmap-backend/internal/prompts"
	"mindmap-backend/pkg/errors"
)

// expansionParents picks the nodes worth expanding: primary nodes (center,
// main, era) plus any node with no incoming edge from a primary node. Falls
// back to every node when nothing qualifies.
func expansionParents(nodes []domain.Node, edges []domain.Edge) []domain.Node {
	byID := make(map[string]domain.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	top := make(map[string]bool)
	for _, n := range nodes {
		if n.Group.IsPrimary() {
			top[n.ID] = true
		}
	}
	fromPrimary := make(map[string]bool)
	for _, e := range edges {
		if from, ok := byID[e.From]; ok && from.Group.IsPrimary() {
			fromPrimary[e.To] = true
		}
	}
	for _, n := range nodes {
		if !top[n.ID] && !fromPrimary[n.ID] {
			top[n.ID] = true
		}
	}
	if len(top) == 0 {
		for _, n := range nodes {
			top[n.ID] = true
		}
	}

	var parents []domain.Node
	for _, n := range nodes {
		if top[n.ID] {
			parents = append(parents, n)
		}
	}
	return parents
}

// ExpandMap grows the map by asking for perParent new sub-nodes under each
// expansion parent. Each parent is a separate AI call and a separate commit:
// a failure under one parent is logged and skipped, so earlier batches
// survive. Returns how many nodes were actually added.
func (s *Session) ExpandMap(ctx context.Context, perParent int, useSearch bool) (total int, err error) {
	finish, err := s.begin(KindExpansion)
	if err != nil {
		return 0, err
	}
	defer func() { finish(err) }()

	nodes := s.store.Nodes()
	if len(nodes) == 0 {
		err = errors.NewValidation("no nodes available to expand")
		return 0, err
	}
	parents := expansionParents(nodes, s.store.Edges())

	childGroup := domain.GroupDetail
	if s.cfg.MapType == domain.MapTypeHistorical {
		childGroup = domain.GroupHistoricalEvent
	}
	value := 0
	if s.cfg.ObsidianStyle {
		value = 2
	}

	mapContext := s.MapContext()
	for _, parent := range parents {
		result, genErr := s.provider.Generate(ctx, ai.Request{
			Prompt:    prompts.ExpandNode(parent.Label, perParent, mapContext, useSearch),
			Format:    ai.FormatJSONArray,
			UseSearch: useSearch,
		})
		if genErr != nil {
			s.logger.Warn("expansion batch failed",
				zap.String("parent", parent.Label),
				zap.Error(genErr))
			continue
		}

		var details []childDetail
		if parseErr := s.parser.Parse(result.Text, &details); parseErr != nil {
			s.logger.Warn("expansion batch unparseable",
				zap.String("parent", parent.Label),
				zap.Error(parseErr))
			continue
		}

		var batchNodes []domain.Node
		var batchEdges []domain.Edge
		for _, d := range details {
			if d.Label == "" {
				continue
			}
			label := replacePlaceholderLabel(d.Label, d.Description)
			desc := d.Description
			if desc == "" {
				desc = label
			}
			rel := d.RelationshipLabel
			if rel == "" {
				rel = "related"
			}
			id := s.store.IDs().Next("exp_")
			batchNodes = append(batchNodes, domain.Node{
				ID:          id,
				Label:       label,
				Description: desc,
				Group:       childGroup,
				Value:       value,
			})
			batchEdges = append(batchEdges, domain.Edge{
				ID:       s.store.IDs().Next("edge_exp_"),
				From:     parent.ID,
				To:       id,
				Label:    rel,
				Directed: true,
			})
		}
		if len(batchNodes) == 0 {
			continue
		}
		if addErr := s.store.AddNodes(batchNodes); addErr != nil {
			s.logger.Warn("expansion batch rejected",
				zap.String("parent", parent.Label),
				zap.Error(addErr))
			continue
		}
		if addErr := s.store.AddEdges(batchEdges); addErr != nil {
			s.logger.Warn("expansion edges rejected",
				zap.String("parent", parent.Label),
				zap.Error(addErr))
		}
		placed := s.layout.SyncAdd(batchNodes, batchEdges)
		s.syncBackPositions(placed)
		total += len(batchNodes)
	}

	s.layout.Fit()
	s.layout.TransientSettle(layout.SettleStandard)
	s.recordGrowth(total, total)
	return total, nil
}
