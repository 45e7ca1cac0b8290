package session

// Kind identifies one AI-driven operation. The value doubles as the metrics
// label, so kinds are stable strings rather than iota constants.
type Kind string

const (
	KindGeneration       Kind = "generation"
	KindElaboration      Kind = "elaboration"
	KindGiveExamples     Kind = "give_examples"
	KindElaboratePros    Kind = "elaborate_pros"
	KindElaborateCons    Kind = "elaborate_cons"
	KindExpansion        Kind = "expansion"
	KindAddDescriptions  Kind = "add_descriptions"
	KindEnhanceDesc      Kind = "enhancing_description"
	KindChat             Kind = "chat"
	KindChatAddNode      Kind = "chat_add_node"
	KindMergingContent   Kind = "merging_content"
	KindMakingConnection Kind = "making_connection"
)

// ExplanationKind returns the kind for one explanation variant ("what",
// "who", "when", "why", "how", or "" for the default).
func ExplanationKind(variant string) Kind {
	if variant == "" {
		variant = "default"
	}
	return Kind("explanation_" + variant)
}

var kindLabels = map[Kind]string{
	KindGeneration:       "Generating mind map...",
	KindElaboration:      "Elaborating...",
	KindGiveExamples:     "Finding examples...",
	KindElaboratePros:    "Listing pros...",
	KindElaborateCons:    "Listing cons...",
	KindExpansion:        "Expanding map...",
	KindAddDescriptions:  "Adding descriptions...",
	KindEnhanceDesc:      "Enhancing description...",
	KindChat:             "Thinking...",
	KindChatAddNode:      "Adding node from chat...",
	KindMergingContent:   "Merging new content...",
	KindMakingConnection: "Making connection...",
}

// Label returns a human-readable progress label for the kind.
func (k Kind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	if len(k) > 12 && k[:12] == "explanation_" {
		return "Explaining..."
	}
	return string(k)
}
