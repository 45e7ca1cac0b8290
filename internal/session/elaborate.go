package session

import (
	"context"
	"fmt"

	"mindmap-backend/internal/ai"
	"mindmap-backend/internal/domain"
	"mindmap-backend/internal/layout"
	"mindmap-backend/internal/prompts"
	"mindmap-backend/pkg/errors"
)

// childDetail is the shared reply shape for operations that attach child
// nodes to a selected node.
type childDetail struct {
	Label             string `json:"label"`
	Description       string `json:"description"`
	RelationshipLabel string `json:"relationshipLabel"`
}

// attachChildren runs the common pattern behind elaborate, examples, pros
// and cons: one prompt about the selected node, an array reply, one new
// child node per entry.
func (s *Session) attachChildren(ctx context.Context, kind Kind, nodeID string, buildPrompt func(label, themes string) string, group domain.Group) (added []domain.Node, err error) {
	finish, err := s.begin(kind)
	if err != nil {
		return nil, err
	}
	defer func() { finish(err) }()

	parent, err := s.store.GetNode(nodeID)
	if err != nil {
		return nil, err
	}

	result, err := s.provider.Generate(ctx, ai.Request{
		Prompt: buildPrompt(parent.Label, s.themes()),
		Format: ai.FormatJSONArray,
	})
	if err != nil {
		return nil, err
	}

	var details []childDetail
	if err = s.parser.Parse(result.Text, &details); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		err = errors.NewInvalidShape(fmt.Sprintf("%s reply contained no entries", kind))
		return nil, err
	}

	value := 0
	if s.cfg.ObsidianStyle {
		value = 2
	}

	nodes := make([]domain.Node, 0, len(details))
	edges := make([]domain.Edge, 0, len(details))
	for _, d := range details {
		if d.Label == "" {
			continue
		}
		desc := d.Description
		if desc == "" {
			desc = d.Label
		}
		id := s.store.IDs().Next(string(group) + "_")
		nodes = append(nodes, domain.Node{
			ID:          id,
			Label:       d.Label,
			Description: desc,
			Group:       group,
			Value:       value,
		})
		edges = append(edges, domain.Edge{
			ID:       s.store.IDs().Next("edge_" + string(group) + "_"),
			From:     parent.ID,
			To:       id,
			Label:    d.RelationshipLabel,
			Directed: true,
		})
	}
	if len(nodes) == 0 {
		err = errors.NewInvalidShape(fmt.Sprintf("%s reply entries all lacked labels", kind))
		return nil, err
	}

	if err = s.store.AddNodes(nodes); err != nil {
		return nil, err
	}
	if err = s.store.AddEdges(edges); err != nil {
		return nil, err
	}
	s.layout.SyncAdd(nodes, edges)
	s.layout.Focus(parent.ID)
	s.layout.TransientSettle(layout.SettleStandard)
	s.recordGrowth(len(nodes), len(edges))
	return nodes, nil
}

// Elaborate attaches deeper detail nodes to the selected node.
func (s *Session) Elaborate(ctx context.Context, nodeID string) ([]domain.Node, error) {
	return s.attachChildren(ctx, KindElaboration, nodeID, prompts.Elaborate, domain.GroupElaboration)
}

// GiveExamples attaches concrete example nodes to the selected node.
func (s *Session) GiveExamples(ctx context.Context, nodeID string) ([]domain.Node, error) {
	return s.attachChildren(ctx, KindGiveExamples, nodeID, prompts.GiveExamples, domain.GroupExampleNode)
}

// ElaboratePros attaches positive-aspect nodes to the selected node.
func (s *Session) ElaboratePros(ctx context.Context, nodeID string) ([]domain.Node, error) {
	return s.attachChildren(ctx, KindElaboratePros, nodeID, prompts.Pros, domain.GroupProsNode)
}

// ElaborateCons attaches negative-aspect nodes to the selected node.
func (s *Session) ElaborateCons(ctx context.Context, nodeID string) ([]domain.Node, error) {
	return s.attachChildren(ctx, KindElaborateCons, nodeID, prompts.Cons, domain.GroupConsNode)
}

// Explain attaches a single explanation node of the given variant ("what",
// "who", "when", "why", "how", or "" for a plain explanation) to the
// selected node and focuses it.
func (s *Session) Explain(ctx context.Context, nodeID, variant string) (node domain.Node, err error) {
	finish, err := s.begin(ExplanationKind(variant))
	if err != nil {
		return domain.Node{}, err
	}
	defer func() { finish(err) }()

	parent, err := s.store.GetNode(nodeID)
	if err != nil {
		return domain.Node{}, err
	}

	result, err := s.provider.Generate(ctx, ai.Request{
		Prompt: prompts.Explain(parent.Label, s.themes(), variant),
		Format: ai.FormatJSON,
	})
	if err != nil {
		return domain.Node{}, err
	}

	var detail childDetail
	if err = s.parser.Parse(result.Text, &detail); err != nil {
		return domain.Node{}, err
	}
	if detail.Label == "" {
		err = errors.NewInvalidShape("explanation reply lacked a label")
		return domain.Node{}, err
	}

	group := domain.ExplanationGroup(variant)
	value := 0
	if s.cfg.ObsidianStyle {
		value = 2
	}
	desc := detail.Description
	if desc == "" {
		desc = detail.Label
	}

	node = domain.Node{
		ID:          s.store.IDs().Next("expl_"),
		Label:       detail.Label,
		Description: desc,
		Group:       group,
		Value:       value,
	}
	edge := domain.Edge{
		ID:       s.store.IDs().Next("edge_expl_"),
		From:     parent.ID,
		To:       node.ID,
		Label:    detail.RelationshipLabel,
		Directed: true,
	}

	if err = s.store.AddNodes([]domain.Node{node}); err != nil {
		return domain.Node{}, err
	}
	if err = s.store.AddEdges([]domain.Edge{edge}); err != nil {
		return domain.Node{}, err
	}
	s.layout.SyncAdd([]domain.Node{node}, []domain.Edge{edge})
	s.layout.Focus(node.ID)
	s.layout.TransientSettle(layout.SettleStandard)
	s.recordGrowth(1, 1)
	return node, nil
}
