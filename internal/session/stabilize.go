package session

import (
	"go.uber.org/zap"

	"mindmap-backend/internal/domain"
	"mindmap-backend/internal/store"
)

// HandleStabilized reacts to the client's first physics-settled event by
// pinning the root node so later additions orbit a fixed anchor. Repeat
// events and maps without a clear root are no-ops. Returns the pinned node
// id, empty when nothing was pinned.
func (s *Session) HandleStabilized() (string, error) {
	if !s.stabilized.CompareAndSwap(false, true) {
		return "", nil
	}

	root := s.rootNode()
	if root == nil {
		return "", nil
	}
	pinned := true
	if err := s.store.UpdateNode(root.ID, store.NodeUpdate{Pinned: &pinned}); err != nil {
		return "", err
	}
	root.Pinned = true
	s.layout.ApplyNode(*root)
	s.logger.Debug("pinned root node after stabilization", zap.String("node_id", root.ID))
	return root.ID, nil
}

// rootNode is the anchor node: the center node, or in obsidian style the
// highest-value node.
func (s *Session) rootNode() *domain.Node {
	nodes := s.store.Nodes()
	var best *domain.Node
	for i := range nodes {
		n := &nodes[i]
		if n.Group == domain.GroupCenter {
			return n
		}
		if s.cfg.ObsidianStyle && (best == nil || n.Value > best.Value) {
			best = n
		}
	}
	return best
}
