package ai

import (
	"context"
	"strings"

	"mindmap-backend/pkg/errors"
)

// MockProvider is a pattern-matching provider for tests and offline
// development. It inspects the prompt to decide which operation is being
// performed and returns a canned response of the right shape.
type MockProvider struct {
	available bool

	// Canned maps a prompt substring to a fixed response, checked before
	// the built-in patterns. Later entries never shadow earlier matches;
	// iteration order is irrelevant because keys are expected disjoint.
	Canned map[string]string

	// FailContaining forces an AIRequest error for any prompt containing
	// the substring. Used to exercise partial-failure paths.
	FailContaining string

	// Prompts records every prompt seen, in order.
	Prompts []string
}

// NewMockProvider creates an available mock.
func NewMockProvider() *MockProvider {
	return &MockProvider{available: true}
}

// SetAvailable toggles availability.
func (m *MockProvider) SetAvailable(v bool) { m.available = v }

// IsAvailable reports mock availability.
func (m *MockProvider) IsAvailable() bool { return m.available }

// Generate returns a canned response matching the prompt's operation.
func (m *MockProvider) Generate(ctx context.Context, req Request) (Result, error) {
	if !m.available {
		return Result{}, errors.NewAIRequest("mock provider is not available", nil)
	}
	req = req.Normalize()
	prompt := req.Prompt
	m.Prompts = append(m.Prompts, prompt)

	if m.FailContaining != "" && strings.Contains(prompt, m.FailContaining) {
		return Result{}, errors.NewAIRequest("mock failure", nil)
	}
	for marker, response := range m.Canned {
		if strings.Contains(prompt, marker) {
			return Result{Text: response}, nil
		}
	}

	switch {
	case strings.Contains(prompt, "chronological timeline graph"):
		return Result{Text: `{
  "nodes": [
    {"id": "event_1914", "label": "War Begins", "date": "1914-07-28", "era": "World War I", "group": "historical_event"},
    {"id": "event_1918", "label": "Armistice", "date": "1918-11-11", "era": "World War I", "group": "historical_event"}
  ],
  "edges": [
    {"from": "event_1914", "to": "event_1918", "label": "precedes"}
  ]
}`}, nil

	case strings.Contains(prompt, "structuring its key information into a visual graph"):
		return Result{Text: "```json\n" + `{
  "nodes": [
    {"id": "center_1", "label": "Central Topic", "group": "center", "description": "The main theme.", "value": 10},
    {"id": "main_1", "label": "Key Concept A", "group": "main", "description": "First key concept.", "value": 7},
    {"id": "detail_1", "label": "Detail B", "group": "detail", "value": 3}
  ],
  "edges": [
    {"from": "center_1", "to": "main_1", "label": "introduces"},
    {"from": "main_1", "to": "detail_1", "label": "explains"}
  ]
}` + "\n```"}, nil

	case strings.Contains(prompt, "distinct concepts or details elaborating"):
		return Result{Text: `[
  {"label": "Specific Aspect", "description": "Explains one aspect.", "relationshipLabel": "details"},
  {"label": "Related Sub-topic", "relationshipLabel": "sub-topic of"}
]`}, nil

	case strings.Contains(prompt, "concrete examples that illustrate"):
		return Result{Text: `[
  {"label": "Example A", "description": "A concrete example.", "relationshipLabel": "e.g."},
  {"label": "Example B", "relationshipLabel": "such as"}
]`}, nil

	case strings.Contains(prompt, "positive aspects (pros)"):
		return Result{Text: `[
  {"label": "Pro: Cost Savings", "relationshipLabel": "pro"},
  {"label": "Pro: Better Experience", "relationshipLabel": "benefit"}
]`}, nil

	case strings.Contains(prompt, "negative aspects (cons)"):
		return Result{Text: `[
  {"label": "Con: Complexity", "relationshipLabel": "con"},
  {"label": "Con: Learning Curve", "relationshipLabel": "drawback"}
]`}, nil

	case strings.Contains(prompt, "clarifying a mind map concept"):
		return Result{Text: `{"label": "Simpler Meaning", "description": "The concept in easier terms.", "relationshipLabel": "explains"}`}, nil

	case strings.Contains(prompt, "expanding a node in a mind map"):
		return Result{Text: `[
  {"label": "Key Aspect", "description": "Details about a key aspect.", "relationshipLabel": "explores"},
  {"label": "Another Angle", "relationshipLabel": "component of"},
  {"label": "Research: Future Work", "relationshipLabel": "research idea"}
]`}, nil

	case strings.Contains(prompt, "integrating information from a chat conversation"):
		return Result{Text: `{"bestParentNodeLabel": null, "entityDefinition": "A concise definition of the clicked term."}`}, nil

	case strings.Contains(prompt, "Generate a concise description (tooltip)"):
		return Result{Text: `{"description": "A concise, informative summary of the node."}`}, nil

	case strings.Contains(prompt, "enhancing the description"):
		return Result{Text: "It has several concrete, well-documented properties that distinguish it in practice."}, nil

	case strings.Contains(prompt, "parsing new content and structuring it"):
		return Result{Text: `{
  "nodes": [
    {"id": "merge_concept_x", "label": "New Concept X", "description": "From the merged content."},
    {"id": "merge_detail_y", "label": "Detail Y of X"}
  ],
  "edges": [
    {"from": "merge_concept_x", "to": "merge_detail_y", "label": "includes"}
  ]
}`}, nil

	case strings.Contains(prompt, "determining how a new top-level node"):
		return Result{Text: `{"connectToExistingNodeLabel": null, "relationshipLabel": "new section"}`}, nil

	case strings.Contains(prompt, "creating a conceptual link"):
		return Result{Text: `{"connectorNodeLabel": "Shared Underlying Theme", "connectorNodeDescription": "Concept tying the selected topics together."}`}, nil

	case strings.Contains(prompt, "answering questions about a mind map"):
		return Result{Text: "The map covers **Central Topic** and its key concepts."}, nil
	}

	return Result{}, errors.NewAIRequest("mock provider: unsupported prompt", nil)
}
