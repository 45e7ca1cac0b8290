package session

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"mindmap-backend/internal/ai"
	"mindmap-backend/internal/domain"
	"mindmap-backend/internal/layout"
	"mindmap-backend/internal/prompts"
	"mindmap-backend/pkg/errors"
)

// MergeOptions controls how new content is folded into the existing map.
type MergeOptions struct {
	Source Source `json:"source"`
	// AlternateColor selects the alternate merged group for non-promoted
	// nodes, so successive merges stay visually distinguishable.
	AlternateColor bool `json:"alternate_color"`
	// AttemptMerge asks the model to connect each new top-level node to the
	// existing map. Without it the new subgraph floats free.
	AttemptMerge bool `json:"attempt_merge"`
	// MakeTopNodesMain promotes new top-level nodes into the main group.
	MakeTopNodesMain bool `json:"make_top_nodes_main"`
}

// MergeResult reports what a merge added.
type MergeResult struct {
	NodesAdded      int      `json:"nodes_added"`
	EdgesAdded      int      `json:"edges_added"`
	TopLevelNodeIDs []string `json:"top_level_node_ids"`
}

// MergeContent parses new source content into a subgraph, rewrites its IDs
// into the session's ID space and adds it to the map. When requested, each
// top-level node of the subgraph is then reconciled against the existing map
// with one AI call apiece; a failed reconciliation leaves that node
// unattached rather than failing the merge.
func (s *Session) MergeContent(ctx context.Context, opts MergeOptions) (res MergeResult, err error) {
	finish, err := s.begin(KindMergingContent)
	if err != nil {
		return MergeResult{}, err
	}
	defer func() { finish(err) }()

	base := prompts.ParseContentForMerge(s.cfg.ObsidianStyle)
	req := ai.Request{Prompt: base, Format: ai.FormatJSON}
	switch opts.Source.Type {
	case SourceURL:
		req.SourceURI = opts.Source.URI
	case SourceTranscript:
		if opts.Source.Text == "" {
			err = errors.NewValidation("merge source has no text content")
			return MergeResult{}, err
		}
		req.Prompt = base + "\n\nAnalyze the following text content for merging:\n---\n" + opts.Source.Text + "\n---"
	default:
		err = errors.NewValidation("unknown source type for merge")
		return MergeResult{}, err
	}

	result, err := s.provider.Generate(ctx, req)
	if err != nil {
		return MergeResult{}, err
	}

	var parsed domain.MindMapData
	if err = s.parser.Parse(result.Text, &parsed); err != nil {
		return MergeResult{}, err
	}
	if len(parsed.Nodes) == 0 {
		err = errors.NewInvalidShape("merged content has no nodes")
		return MergeResult{}, err
	}

	// Top-level within the subgraph: no incoming edge from the subgraph
	// itself.
	hasIncoming := make(map[string]bool, len(parsed.Edges))
	for _, e := range parsed.Edges {
		hasIncoming[e.To] = true
	}

	mergedGroup := domain.GroupMergedDefault
	if opts.AlternateColor {
		mergedGroup = domain.GroupMergedAlternate
	}
	shape := "box"
	if s.cfg.ObsidianStyle {
		shape = "dot"
	}

	idMap := make(map[string]string, len(parsed.Nodes))
	newNodes := make([]domain.Node, 0, len(parsed.Nodes))
	var topLevelIDs []string
	for _, n := range parsed.Nodes {
		id := s.store.IDs().Next("merge_")
		idMap[n.ID] = id

		value := 0
		if s.cfg.ObsidianStyle {
			value = n.Value
			if value == 0 {
				value = 2
			}
		}
		group := mergedGroup
		if !hasIncoming[n.ID] {
			topLevelIDs = append(topLevelIDs, id)
			if opts.MakeTopNodesMain {
				group = domain.GroupMain
				if s.cfg.ObsidianStyle && value < domain.MainImportanceFloor {
					value = domain.MainImportanceFloor
				}
			}
		}

		nodeShape := n.Shape
		if nodeShape == "" {
			nodeShape = shape
		}
		newNodes = append(newNodes, domain.Node{
			ID:          id,
			Label:       n.Label,
			Description: n.Description,
			Group:       group,
			Value:       value,
			Shape:       nodeShape,
		})
	}

	newEdges := make([]domain.Edge, 0, len(parsed.Edges))
	for _, e := range parsed.Edges {
		from, okFrom := idMap[e.From]
		to, okTo := idMap[e.To]
		if !okFrom || !okTo {
			continue
		}
		newEdges = append(newEdges, domain.Edge{
			ID:       s.store.IDs().Next("medge_"),
			From:     from,
			To:       to,
			Label:    e.Label,
			Directed: true,
		})
	}

	if err = s.store.AddNodes(newNodes); err != nil {
		return MergeResult{}, err
	}
	if err = s.store.AddEdges(newEdges); err != nil {
		return MergeResult{}, err
	}
	res = MergeResult{NodesAdded: len(newNodes), EdgesAdded: len(newEdges), TopLevelNodeIDs: topLevelIDs}
	s.layout.SyncAdd(newNodes, newEdges)

	if opts.AttemptMerge {
		connected := s.reconcileTopLevel(ctx, newNodes, topLevelIDs)
		res.EdgesAdded += connected
	}

	s.layout.Fit()
	s.layout.TransientSettle(layout.SettleStandard)
	s.recordGrowth(res.NodesAdded, res.EdgesAdded)
	return res, nil
}

// reconcileTopLevel asks the model, per top-level merged node, where it
// belongs on the map, and adds the suggested edge. Returns how many edges
// were added. ROOT_NODE means the map's root; a null or unknown suggestion
// adds nothing.
func (s *Session) reconcileTopLevel(ctx context.Context, merged []domain.Node, topLevelIDs []string) int {
	mapContext := s.MapContext()
	allNodes := s.store.Nodes()
	root, hasRoot := mergeRoot(allNodes, s.cfg.ObsidianStyle)
	rootLabel := ""
	if hasRoot {
		rootLabel = root.Label
	}

	subgraph := make([]prompts.SubgraphNode, 0, len(merged))
	byID := make(map[string]domain.Node, len(merged))
	for _, n := range merged {
		byID[n.ID] = n
		subgraph = append(subgraph, prompts.SubgraphNode{ID: n.ID, Label: n.Label, Description: n.Description})
	}

	connected := 0
	for _, topID := range topLevelIDs {
		top, ok := byID[topID]
		if !ok {
			continue
		}
		target := prompts.SubgraphNode{ID: top.ID, Label: top.Label, Description: top.Description}

		result, genErr := s.provider.Generate(ctx, ai.Request{
			Prompt: prompts.MergeConnections(mapContext, subgraph, target, rootLabel),
			Format: ai.FormatJSON,
		})
		if genErr != nil {
			s.logger.Warn("merge reconciliation failed",
				zap.String("node", top.Label),
				zap.Error(genErr))
			continue
		}

		var reply struct {
			ConnectToExistingNodeLabel *string `json:"connectToExistingNodeLabel"`
			RelationshipLabel          string  `json:"relationshipLabel"`
		}
		if parseErr := s.parser.Parse(result.Text, &reply); parseErr != nil {
			s.logger.Warn("merge reconciliation unparseable",
				zap.String("node", top.Label),
				zap.Error(parseErr))
			continue
		}

		var targetID string
		switch {
		case reply.ConnectToExistingNodeLabel == nil || *reply.ConnectToExistingNodeLabel == "":
			// The model judged the content standalone.
		case *reply.ConnectToExistingNodeLabel == "ROOT_NODE":
			if hasRoot {
				targetID = root.ID
			}
		default:
			for _, n := range allNodes {
				if strings.EqualFold(n.Label, *reply.ConnectToExistingNodeLabel) {
					targetID = n.ID
					break
				}
			}
		}
		if targetID == "" {
			continue
		}

		label := reply.RelationshipLabel
		if label == "" {
			label = "related"
		}
		edge := domain.Edge{
			ID:       s.store.IDs().Next("aiconnect_"),
			From:     targetID,
			To:       top.ID,
			Label:    label,
			Directed: true,
		}
		if addErr := s.store.AddEdges([]domain.Edge{edge}); addErr != nil {
			s.logger.Warn("merge connection rejected", zap.Error(addErr))
			continue
		}
		s.layout.SyncAdd(nil, []domain.Edge{edge})
		connected++
	}
	return connected
}

// mergeRoot picks the anchor node for merge reconciliation: the center node
// when one exists, the highest-importance node in obsidian style, otherwise
// the first node.
func mergeRoot(nodes []domain.Node, obsidianStyle bool) (domain.Node, bool) {
	if len(nodes) == 0 {
		return domain.Node{}, false
	}
	for _, n := range nodes {
		if n.Group == domain.GroupCenter {
			return n, true
		}
	}
	if obsidianStyle {
		best := nodes[0]
		for _, n := range nodes[1:] {
			if n.Value > best.Value {
				best = n
			}
		}
		return best, true
	}
	return nodes[0], true
}
