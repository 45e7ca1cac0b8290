package session

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"mindmap-backend/internal/ai"
	"mindmap-backend/internal/layout"
	"mindmap-backend/internal/prompts"
	"mindmap-backend/internal/store"
)

// AddMissingDescriptions fills in a description for every node that has
// none (or whose description merely repeats its label). One AI call per
// node; an individual failure is logged and the pass continues. Returns how
// many nodes were updated.
func (s *Session) AddMissingDescriptions(ctx context.Context) (updated int, err error) {
	finish, err := s.begin(KindAddDescriptions)
	if err != nil {
		return 0, err
	}
	defer func() { finish(err) }()

	var targets []string
	for _, n := range s.store.Nodes() {
		desc := strings.TrimSpace(n.Description)
		if desc == "" || desc == strings.TrimSpace(n.Label) {
			targets = append(targets, n.ID)
		}
	}
	if len(targets) == 0 {
		s.layout.TransientSettle(layout.SettleNoop)
		return 0, nil
	}

	mapContext := s.MapContext()
	for _, id := range targets {
		node, getErr := s.store.GetNode(id)
		if getErr != nil {
			continue
		}
		result, genErr := s.provider.Generate(ctx, ai.Request{
			Prompt: prompts.AddDescription(node.Label, mapContext),
			Format: ai.FormatJSON,
		})
		if genErr != nil {
			s.logger.Warn("description request failed",
				zap.String("node", node.Label),
				zap.Error(genErr))
			continue
		}

		var reply struct {
			Description string `json:"description"`
		}
		if parseErr := s.parser.Parse(result.Text, &reply); parseErr != nil {
			s.logger.Warn("description reply unparseable",
				zap.String("node", node.Label),
				zap.Error(parseErr))
			continue
		}
		desc := strings.TrimSpace(reply.Description)
		if desc == "" {
			s.logger.Warn("empty description received", zap.String("node", node.Label))
			continue
		}
		if updErr := s.store.UpdateNode(id, store.NodeUpdate{Description: &desc}); updErr != nil {
			continue
		}
		updated++
	}

	s.layout.TransientSettle(layout.SettleStandard)
	return updated, nil
}

// EnhanceDescription appends an AI-written supplement to the node's current
// description, separated by a blank line. Returns the new description, or
// "" when the model had nothing to add (which is not an error).
func (s *Session) EnhanceDescription(ctx context.Context, nodeID string) (newDescription string, err error) {
	finish, err := s.begin(KindEnhanceDesc)
	if err != nil {
		return "", err
	}
	defer func() { finish(err) }()

	node, err := s.store.GetNode(nodeID)
	if err != nil {
		return "", err
	}
	current := node.Description
	if current == "" {
		current = node.Label
	}

	result, err := s.provider.Generate(ctx, ai.Request{
		Prompt: prompts.EnhanceDescription(node.Label, current),
		Format: ai.FormatText,
	})
	if err != nil {
		return "", err
	}

	supplement := strings.TrimSpace(result.Text)
	if supplement == "" {
		s.layout.TransientSettle(layout.SettleNoop)
		return "", nil
	}

	newDescription = current + "\n\n" + supplement
	if err = s.store.UpdateNode(nodeID, store.NodeUpdate{Description: &newDescription}); err != nil {
		return "", err
	}
	s.layout.TransientSettle(layout.SettleStandard)
	return newDescription, nil
}
