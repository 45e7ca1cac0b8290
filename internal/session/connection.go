package session

import (
	"context"

	"mindmap-backend/internal/ai"
	"mindmap-backend/internal/domain"
	"mindmap-backend/internal/layout"
	"mindmap-backend/internal/prompts"
	"mindmap-backend/pkg/errors"
)

// MakeConnection creates a connector node expressing the concept shared by
// the given nodes and links it to each of them with dashed "connects"
// edges. The connector is dropped at the centroid of the selected nodes and
// gets the longer settle window since it pulls several neighborhoods at
// once. Connection mode is cleared on success.
func (s *Session) MakeConnection(ctx context.Context, nodeIDs []string) (node domain.Node, err error) {
	finish, err := s.begin(KindMakingConnection)
	if err != nil {
		return domain.Node{}, err
	}
	defer func() { finish(err) }()

	if len(nodeIDs) < 2 {
		err = errors.NewValidation("a connection needs at least two nodes")
		return domain.Node{}, err
	}

	labels := make([]string, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		n, getErr := s.store.GetNode(id)
		if getErr != nil {
			err = getErr
			return domain.Node{}, err
		}
		labels = append(labels, n.Label)
	}

	result, err := s.provider.Generate(ctx, ai.Request{
		Prompt: prompts.MakeConnection(labels),
		Format: ai.FormatJSON,
	})
	if err != nil {
		return domain.Node{}, err
	}

	var reply struct {
		ConnectorNodeLabel       string `json:"connectorNodeLabel"`
		ConnectorNodeDescription string `json:"connectorNodeDescription"`
	}
	if err = s.parser.Parse(result.Text, &reply); err != nil {
		return domain.Node{}, err
	}
	if reply.ConnectorNodeLabel == "" {
		err = errors.NewInvalidShape("connection reply lacked a connector label")
		return domain.Node{}, err
	}
	desc := reply.ConnectorNodeDescription
	if desc == "" {
		desc = reply.ConnectorNodeLabel
	}

	value, shape := 0, "ellipse"
	if s.cfg.ObsidianStyle {
		value, shape = 6, "diamond"
	}
	node = domain.Node{
		ID:          s.store.IDs().Next("connector_"),
		Label:       reply.ConnectorNodeLabel,
		Description: desc,
		Group:       domain.GroupConnectorNode,
		Value:       value,
		Shape:       shape,
	}
	if pos, ok := s.layout.Centroid(nodeIDs); ok {
		node.Position = &pos
	}

	edges := make([]domain.Edge, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		edges = append(edges, domain.Edge{
			ID:       s.store.IDs().Next("conn_edge_"),
			From:     node.ID,
			To:       id,
			Label:    "connects",
			Directed: true,
			Dashed:   true,
		})
	}

	if err = s.store.AddNodes([]domain.Node{node}); err != nil {
		return domain.Node{}, err
	}
	if err = s.store.AddEdges(edges); err != nil {
		return domain.Node{}, err
	}
	s.layout.SyncAdd([]domain.Node{node}, edges)
	s.layout.Focus(node.ID)
	s.layout.SetConnectionMode(false)
	s.layout.TransientSettle(layout.SettleConnector)
	s.recordGrowth(1, len(edges))
	return node, nil
}
