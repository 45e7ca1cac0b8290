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

// chatHistoryWindow bounds how many prior messages are replayed into the
// prompt. Older context lives only in the transcript.
const chatHistoryWindow = 6

// Chat answers a question about the map. It reads the graph but never
// mutates it, so it does not occupy the operation slot and can run while
// the user is only thinking. The exchange is appended to the transcript.
func (s *Session) Chat(ctx context.Context, query string, useSearch bool) (domain.ChatMessage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.ChatMessage{}, errors.NewValidation("chat query is empty")
	}

	s.chatMu.Lock()
	history := make([]domain.ChatMessage, len(s.chat))
	copy(history, s.chat)
	s.chatMu.Unlock()
	if len(history) > chatHistoryWindow {
		history = history[len(history)-chatHistoryWindow:]
	}

	result, err := s.provider.Generate(ctx, ai.Request{
		Prompt:    prompts.Chat(s.MapContext(), history, query, useSearch),
		Format:    ai.FormatText,
		UseSearch: useSearch,
	})
	if err != nil {
		return domain.ChatMessage{}, err
	}

	reply := domain.ChatMessage{
		Role:      "model",
		Text:      result.Text,
		Citations: result.Citations,
	}
	s.chatMu.Lock()
	s.chat = append(s.chat, domain.ChatMessage{Role: "user", Text: query}, reply)
	s.chatMu.Unlock()
	return reply, nil
}

// ChatHistory snapshots the full transcript.
func (s *Session) ChatHistory() []domain.ChatMessage {
	s.chatMu.Lock()
	defer s.chatMu.Unlock()
	out := make([]domain.ChatMessage, len(s.chat))
	copy(out, s.chat)
	return out
}

// ChatAddResult reports what AddNodeFromChat created.
type ChatAddResult struct {
	NodeID      string `json:"node_id"`
	NodeLabel   string `json:"node_label"`
	ParentID    string `json:"parent_id,omitempty"`
	ParentLabel string `json:"parent_label,omitempty"`
}

// AddNodeFromChat turns a term from a chat answer into a map node. The
// model defines the term and nominates the best existing parent by label;
// an unknown nominee is tolerated and the node is simply left unattached.
func (s *Session) AddNodeFromChat(ctx context.Context, entity, messageContext string) (res ChatAddResult, err error) {
	finish, err := s.begin(KindChatAddNode)
	if err != nil {
		return ChatAddResult{}, err
	}
	defer func() { finish(err) }()

	entity = strings.TrimSpace(entity)
	if entity == "" {
		err = errors.NewValidation("entity text is empty")
		return ChatAddResult{}, err
	}

	result, err := s.provider.Generate(ctx, ai.Request{
		Prompt: prompts.FindParentAndDefine(entity, messageContext, s.MapContext()),
		Format: ai.FormatJSON,
	})
	if err != nil {
		return ChatAddResult{}, err
	}

	var reply struct {
		BestParentNodeLabel *string `json:"bestParentNodeLabel"`
		EntityDefinition    string  `json:"entityDefinition"`
	}
	if err = s.parser.Parse(result.Text, &reply); err != nil {
		return ChatAddResult{}, err
	}
	if strings.TrimSpace(reply.EntityDefinition) == "" {
		err = errors.NewInvalidShape("no definition provided for entity")
		return ChatAddResult{}, err
	}

	value, shape := 0, "box"
	if s.cfg.ObsidianStyle {
		value, shape = 4, "dot"
	}
	node := domain.Node{
		ID:          s.store.IDs().Next("chat_"),
		Label:       entity,
		Description: reply.EntityDefinition,
		Group:       domain.GroupChatAdded,
		Value:       value,
		Shape:       shape,
	}
	if err = s.store.AddNodes([]domain.Node{node}); err != nil {
		return ChatAddResult{}, err
	}
	res = ChatAddResult{NodeID: node.ID, NodeLabel: node.Label}

	var edges []domain.Edge
	if reply.BestParentNodeLabel != nil && *reply.BestParentNodeLabel != "" {
		if parent, ok := s.findNodeByLabel(*reply.BestParentNodeLabel); ok {
			edge := domain.Edge{
				ID:       s.store.IDs().Next("edge_chat_"),
				From:     parent.ID,
				To:       node.ID,
				Label:    "related (from chat)",
				Directed: true,
			}
			if addErr := s.store.AddEdges([]domain.Edge{edge}); addErr == nil {
				edges = append(edges, edge)
				res.ParentID = parent.ID
				res.ParentLabel = parent.Label
			}
		} else {
			s.logger.Warn("suggested parent not on map",
				zap.String("parent", *reply.BestParentNodeLabel))
		}
	}

	s.layout.SyncAdd([]domain.Node{node}, edges)
	s.layout.Focus(node.ID)
	s.layout.TransientSettle(layout.SettleStandard)
	s.recordGrowth(1, len(edges))
	return res, nil
}

// findNodeByLabel returns the first node whose label matches
// case-insensitively.
func (s *Session) findNodeByLabel(label string) (domain.Node, bool) {
	for _, n := range s.store.Nodes() {
		if strings.EqualFold(n.Label, label) {
			return n, true
		}
	}
	return domain.Node{}, false
}
