// Package domain defines the mind-map entities shared across the application.
package domain

// Group categorizes a node and drives its visual treatment.
type Group string

const (
	GroupCenter          Group = "center"
	GroupMain            Group = "main"
	GroupDetail          Group = "detail"
	GroupResearch        Group = "research"
	GroupElaboration     Group = "elaboration"
	GroupExampleNode     Group = "example_node"
	GroupProsNode        Group = "pros_node"
	GroupConsNode        Group = "cons_node"
	GroupChatAdded       Group = "chat_added"
	GroupHistoricalEvent Group = "historical_event"
	GroupHistoricalEra   Group = "historical_era"
	GroupMergedDefault   Group = "group_merged_default"
	GroupMergedAlternate Group = "group_merged_alternate"
	GroupConnectorNode   Group = "connector_node"
)

// ExplanationGroup returns the group tag for an explanation of the given
// kind ("what", "who", "when", "why", "how", or "" for the default).
func ExplanationGroup(kind string) Group {
	if kind == "" {
		return Group("explanation_default")
	}
	return Group("explanation_" + kind)
}

// IsExplanation reports whether g is any explanation variant.
func (g Group) IsExplanation() bool {
	return len(g) > 12 && g[:12] == "explanation_"
}

// IsPrimary reports whether g anchors other content: primary nodes are
// expansion targets and merge-promotion anchors.
func (g Group) IsPrimary() bool {
	return g == GroupCenter || g == GroupMain || g == GroupHistoricalEra
}

// Position is a 2D coordinate in layout space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a labeled vertex in the mind map.
type Node struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Description string    `json:"description,omitempty"`
	Group       Group     `json:"group"`
	Value       int       `json:"value"` // importance 1-10, drives sizing
	Shape       string    `json:"shape,omitempty"`
	Position    *Position `json:"position,omitempty"`
	Pinned      bool      `json:"pinned"`
	Date        string    `json:"date,omitempty"` // historical mode
	Era         string    `json:"era,omitempty"`
}

// Edge is a directed relationship between two nodes. Direction is data even
// when arrowheads are not rendered.
type Edge struct {
	ID       string `json:"id"`
	From     string `json:"from"`
	To       string `json:"to"`
	Label    string `json:"label,omitempty"`
	Directed bool   `json:"directed"`
	Dashed   bool   `json:"dashed,omitempty"`
}

// MindMapData is a bundle of nodes and edges, the unit of generation, merge
// and preload.
type MindMapData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// MapType selects the layout policy for a whole map.
type MapType string

const (
	MapTypeStandard   MapType = "standard"
	MapTypeHistorical MapType = "historical"
)

// MainImportanceFloor is the minimum importance a node promoted to the main
// group receives.
const MainImportanceFloor = 5

// Citation is a grounding source returned with search-augmented AI replies.
type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// ChatMessage is one entry in the session chat transcript.
type ChatMessage struct {
	Role      string     `json:"role"` // "user" or "model"
	Text      string     `json:"text"`
	Citations []Citation `json:"citations,omitempty"`
}
