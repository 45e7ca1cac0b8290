package session

import (
	"context"
	"regexp"
	"strings"

	"mindmap-backend/internal/ai"
	"mindmap-backend/internal/domain"
	"mindmap-backend/internal/prompts"
	"mindmap-backend/pkg/errors"
)

// SourceType distinguishes how generation content arrives.
type SourceType string

const (
	SourceURL        SourceType = "url"
	SourceTranscript SourceType = "transcript"
)

// Source is the content a map is generated from: a video URL the provider
// consumes directly, or raw transcript text embedded into the prompt.
type Source struct {
	Type SourceType `json:"type"`
	URI  string     `json:"uri,omitempty"`
	Text string     `json:"text,omitempty"`
}

var placeholderLabel = regexp.MustCompile(`^Node\d+$`)

// replacePlaceholderLabel derives a usable label from the description when
// the model emitted a generic "NodeN" one. The description's first clause is
// taken if it is a plausible label length; otherwise the original stands.
func replacePlaceholderLabel(label, description string) string {
	if !placeholderLabel.MatchString(label) {
		return label
	}
	if len(description) <= 5 || len(description) >= 50 {
		return label
	}
	clause := strings.SplitN(description, ".", 2)[0]
	clause = strings.TrimSpace(strings.SplitN(clause, ",", 2)[0])
	if len(clause) < 3 || len(clause) > 40 {
		return label
	}
	return clause
}

// Generate builds a fresh mind map from the source, replacing any existing
// content. For historical maps the timeline placement is applied and the
// resulting pinned positions are written back to the store.
func (s *Session) Generate(ctx context.Context, src Source) (data domain.MindMapData, err error) {
	finish, err := s.begin(KindGeneration)
	if err != nil {
		return domain.MindMapData{}, err
	}
	defer func() { finish(err) }()

	var base string
	if s.cfg.MapType == domain.MapTypeHistorical {
		base = prompts.GenerateHistoricalMap(s.cfg.Complexity, s.cfg.ObsidianStyle)
	} else {
		base = prompts.GenerateMap(s.cfg.Complexity, s.cfg.ObsidianStyle)
	}

	req := ai.Request{Prompt: base, Format: ai.FormatJSON}
	switch src.Type {
	case SourceURL:
		req.SourceURI = src.URI
	case SourceTranscript:
		if src.Text == "" {
			err = errors.NewValidation("transcript source has no text content")
			return domain.MindMapData{}, err
		}
		req.Prompt = base + "\n\nAnalyze the following text content:\n---\n" + src.Text + "\n---"
	default:
		err = errors.NewValidation("unknown source type for generation")
		return domain.MindMapData{}, err
	}

	result, err := s.provider.Generate(ctx, req)
	if err != nil {
		return domain.MindMapData{}, err
	}

	if err = s.parser.Parse(result.Text, &data); err != nil {
		return domain.MindMapData{}, err
	}
	if len(data.Nodes) == 0 {
		err = errors.NewInvalidShape("generated map has no nodes")
		return domain.MindMapData{}, err
	}

	for i := range data.Nodes {
		n := &data.Nodes[i]
		n.Label = replacePlaceholderLabel(n.Label, n.Description)
		if s.cfg.ObsidianStyle {
			if n.Value == 0 {
				n.Value = 3
			}
			if n.Group == domain.GroupCenter && n.Value < 10 {
				n.Value = 10
			}
		}
	}

	if err = s.store.LoadInitial(data); err != nil {
		return domain.MindMapData{}, err
	}
	s.stabilized.Store(false)

	nodes, edges := s.store.Nodes(), s.store.Edges()
	s.layout.DestroyAndRebuild(s.displayConfig(), nodes, edges)
	s.syncBackPositions(nodes)
	s.recordGrowth(len(nodes), len(edges))
	s.layout.Fit()
	s.setLastSource(src)

	return s.Data(), nil
}
