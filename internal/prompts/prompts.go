// Package prompts builds the instruction text for every model call. Each
// builder states the exact JSON shape the caller will parse.
package prompts

import (
	"fmt"
	"strings"

	"mindmap-backend/internal/domain"
)

// Complexity controls how much detail generation asks for.
type Complexity string

const (
	ComplexityAuto     Complexity = "auto"
	ComplexitySimple   Complexity = "simple"
	ComplexityDetailed Complexity = "detailed"
	ComplexityExtended Complexity = "extended"
)

func complexityInstructions(c Complexity) string {
	switch c {
	case ComplexitySimple:
		return "Focus on 2-4 main ideas and their most direct sub-points. Aim for a low node count, e.g., 5-8 nodes."
	case ComplexityDetailed:
		return "Provide a comprehensive breakdown of the source material. Aim for 10-20 nodes if the content supports it, but prioritize clarity over quantity."
	case ComplexityExtended:
		return "Generate a detailed mind map, and additionally include 2-4 related research topics NOT explicitly mentioned in the source. Assign research nodes to the group \"research\" and prefix their labels with \"Research: \". Aim for 12-25 nodes."
	default:
		return "Determine the optimal level of detail yourself, balancing comprehensiveness and clarity."
	}
}

// GenerateMap builds the initial-generation prompt for a standard map.
func GenerateMap(complexity Complexity, obsidianStyle bool) string {
	prefix := ""
	if obsidianStyle {
		prefix = "Render this as an Obsidian knowledge graph. Include a \"value\" field (integer 1-10, default 3) per node reflecting importance; edges should not have arrows; prefer \"dot\" shapes. "
	}
	return fmt.Sprintf(`%sYou are an expert in analyzing content and structuring its key information into a visual graph.

%s

The output MUST be a valid JSON object with keys "nodes" and "edges".
Each node MUST have:
  - "id": a unique STRING identifier (e.g., "main_1", "center_topic").
  - "label": a concise label (max 5-7 words). Placeholder labels like "Node123" are highly discouraged.
  - "group": one of "center", "main", "detail", "research".
  - "description": (optional) a 1-2 sentence tooltip.
  - "shape": (optional) rendering hint.
  - "value": (optional, integer 1-10) importance.
Each edge MUST have "from" and "to" node ids, and may have a short "label".

Prioritize the central theme, then key concepts, then supporting details.
Provide ONLY the JSON object, without any surrounding text or markdown fences.
If a text transcript follows, analyze that text.`, prefix, complexityInstructions(complexity))
}

// GenerateHistoricalMap builds the initial-generation prompt for a
// chronological timeline map.
func GenerateHistoricalMap(complexity Complexity, obsidianStyle bool) string {
	prefix := ""
	if obsidianStyle {
		prefix = "Render this as an Obsidian-style knowledge graph of historical events. Include \"value\": 1-10 per node. "
	}
	return fmt.Sprintf(`%sYou are an expert in extracting historical information and structuring it as a chronological timeline graph.

%s

The output MUST be a valid JSON object with keys "nodes" and "edges".
Each node represents an event, figure or period and MUST have:
  - "id": a unique STRING identifier.
  - "label": a concise label (max 5-7 words).
  - "date": CRITICAL - a machine-readable date string, "YYYY-MM-DD" preferred, "YYYY-MM" or "YYYY" when day or month is unknown. For periods, use the start date.
  - "era": (optional) the historical era.
  - "group": "historical_event" or "historical_era".
  - "description": (optional) a 1-2 sentence tooltip.
Each edge MUST have "from" and "to", and may have a short "label" (e.g., "precedes", "influences").

Finding a plausible DATE for each node is crucial for timeline layout.
Provide ONLY the JSON object, without any surrounding text or markdown fences.
If a text transcript follows, analyze that text.`, prefix, complexityInstructions(complexity))
}

func themeContext(nodeLabel, themes string) string {
	if themes == "" {
		return fmt.Sprintf("The selected node is %q.", nodeLabel)
	}
	return fmt.Sprintf("The selected node (%q) is part of a mind map with themes: [%s]. New content should complement these.", nodeLabel, themes)
}

const childArrayShape = `Response MUST be a VALID JSON array of objects. Each object needs:
  - "label": concise label for the new node (max 5-7 words).
  - "description": (optional) a 1-2 sentence tooltip.
  - "relationshipLabel": short label (1-3 words) for the edge from the selected node.
Provide ONLY the JSON array, without any surrounding text or markdown fences.`

// Elaborate asks for 2-3 child concepts elaborating on a node.
func Elaborate(nodeLabel, themes string) string {
	return fmt.Sprintf(`You are an AI assistant expanding a mind map node.
Node: %q. %s
Generate 2-3 distinct concepts or details elaborating on %q, suitable as new child nodes.
%s`, nodeLabel, themeContext(nodeLabel, themes), nodeLabel, childArrayShape)
}

// GiveExamples asks for 2-3 concrete examples of a node.
func GiveExamples(nodeLabel, themes string) string {
	return fmt.Sprintf(`You are an AI assistant providing concrete examples for a mind map node.
Node: %q. %s
Generate 2-3 distinct, concrete examples that illustrate or clarify %q. These become new child nodes.
%s`, nodeLabel, themeContext(nodeLabel, themes), nodeLabel, childArrayShape)
}

// Pros asks for 2-3 advantages of a node.
func Pros(nodeLabel, themes string) string {
	return fmt.Sprintf(`You are an AI assistant elaborating on the positive aspects (pros) of a mind map node.
Node: %q. %s
Generate 2-3 distinct pros or advantages related to %q (e.g., "Pro: Increased Efficiency"). These become new child nodes.
%s`, nodeLabel, themeContext(nodeLabel, themes), nodeLabel, childArrayShape)
}

// Cons asks for 2-3 disadvantages of a node.
func Cons(nodeLabel, themes string) string {
	return fmt.Sprintf(`You are an AI assistant elaborating on the negative aspects (cons) of a mind map node.
Node: %q. %s
Generate 2-3 distinct cons or disadvantages related to %q (e.g., "Con: Higher Initial Cost"). These become new child nodes.
%s`, nodeLabel, themeContext(nodeLabel, themes), nodeLabel, childArrayShape)
}

// Explain asks for a single clarifying child node. kind selects a specific
// aspect ("what", "who", "when", "why", "how") or, when empty, a general
// simplification.
func Explain(nodeLabel, themes, kind string) string {
	task := fmt.Sprintf("Generate a SINGLE, clear, concise explanation for %q, suitable as a new child node clarifying the parent.", nodeLabel)
	switch kind {
	case "what":
		task = fmt.Sprintf("Explain WHAT %q is or means. Focus on its definition, nature, or core identity.", nodeLabel)
	case "who":
		task = fmt.Sprintf("Explain WHO is associated with, responsible for, or relevant to %q.", nodeLabel)
	case "when":
		task = fmt.Sprintf("Explain WHEN %q occurred or is relevant. Focus on the temporal context.", nodeLabel)
	case "why":
		task = fmt.Sprintf("Explain WHY %q is important, occurs, or exists. Focus on reasons and significance.", nodeLabel)
	case "how":
		task = fmt.Sprintf("Explain HOW %q works, functions, or is achieved. Focus on the process or mechanism.", nodeLabel)
	}
	return fmt.Sprintf(`You are an AI assistant clarifying a mind map concept.
Node: %q. %s
%s
Response MUST be a VALID JSON object (NOT an array) with:
  - "label": concise explanation label (max 7-10 words).
  - "description": (optional) a 1-2 sentence tooltip.
  - "relationshipLabel": short edge label from %q (e.g., "explains", "clarifies").
Provide ONLY the JSON object, without any surrounding text or markdown fences.`,
		nodeLabel, themeContext(nodeLabel, themes), task, nodeLabel)
}

// Chat builds the free-form question prompt over the current map. history is
// already bounded by the caller.
func Chat(mapContext string, history []domain.ChatMessage, query string, useSearch bool) string {
	var sb strings.Builder
	sb.WriteString("Conversation History (Recent):\n")
	if len(history) == 0 {
		sb.WriteString("No recent history.\n")
	}
	for _, msg := range history {
		who := "AI"
		if msg.Role == "user" {
			who = "User"
		}
		fmt.Fprintf(&sb, "%s: %s\n", who, msg.Text)
	}

	guidance := "You are in offline mode. Answer based ONLY on the provided Mind Map Context and Chat History. Do not use external knowledge."
	if useSearch {
		guidance = "You have internet access enabled. Prefer the Mind Map Context when it fully answers the query, but actively use your general knowledge and search capabilities when the query goes beyond the map."
	}

	return fmt.Sprintf(`You are a helpful AI assistant answering questions about a mind map.
Be concise and direct. Bold important named entities using double asterisks.

Mind Map Context:
---
%s
---

%s
%s

Based on all the above, answer the following user query:
User Query: %q
AI Response:
`, mapContext, sb.String(), guidance, query)
}

// ExpandNode asks for n sub-nodes under one parent during Expand Map.
func ExpandNode(parentLabel string, n int, mapContext string, useSearch bool) string {
	guidance := "Generate sub-topics based ONLY on the provided map context and the parent node's theme."
	if useSearch {
		guidance = "You may use general knowledge and web search to find relevant sub-topics not in the current map context."
	}
	return fmt.Sprintf(`You are an AI tasked with expanding a node in a mind map.
The parent node is labeled: %q.
Current Mind Map Context:
---
%s
---

Generate %d distinct, relevant sub-nodes that elaborate on or break down %q. %s
Avoid reformulations of the parent label; each sub-node should introduce a new aspect, detail, example, or related concept. Prefix research ideas with "Research: ".

%s`, parentLabel, mapContext, n, parentLabel, guidance, childArrayShape)
}

// FindParentAndDefine asks, for a term clicked in the chat transcript, which
// existing node should parent it and how to define it.
func FindParentAndDefine(entity, chatContext, mapContext string) string {
	return fmt.Sprintf(`You are an AI assistant integrating information from a chat conversation into an existing mind map.
The user clicked on the term %q from this chat message:
%q

The current mind map contains:
---
%s
---

Tasks:
1. Identify the single most contextually relevant existing node label to parent %q, or null when no existing node is a good parent. Do not invent new parent nodes.
2. Provide a concise definition of %q for the new node's description.

Respond with a VALID JSON object:
{
  "bestParentNodeLabel": "label of the most relevant existing node OR null",
  "entityDefinition": "concise definition of the term"
}
Provide ONLY the JSON object, without any surrounding text or markdown fences.`,
		entity, chatContext, mapContext, entity, entity)
}

// AddDescription asks for a tooltip description for one node.
func AddDescription(nodeLabel, mapContext string) string {
	return fmt.Sprintf(`You are an AI assistant enriching a mind map.
Generate a concise description (tooltip) for the node labeled %q, which exists within this map:
---
%s
---

Aim for 1-2 clear sentences relevant to the node's context.
Respond with a VALID JSON object containing a single key "description".
Provide ONLY the JSON object, without any surrounding text or markdown fences.`, nodeLabel, mapContext)
}

// EnhanceDescription asks for supplementary prose to append to an existing
// description. The reply is plain text, not JSON.
func EnhanceDescription(nodeLabel, current string) string {
	return fmt.Sprintf(`You are an AI assistant enhancing the description of a mind map node.
The node is labeled %q. Its current description is:
---
%s
---

Expand on the existing description with concise, concrete details. Output ONLY the new, additional text to append; do NOT repeat the original description. Aim for 1-3 sentences of purely supplementary text. Plain text only, no JSON or formatting.`, nodeLabel, current)
}

// ParseContentForMerge asks the model to structure new content as a
// standalone subgraph ready to merge into the current map.
func ParseContentForMerge(obsidianStyle bool) string {
	valueNote := ""
	if obsidianStyle {
		valueNote = `Include a "value" field (integer 1-5, default 2) per node. `
	}
	return fmt.Sprintf(`You are an AI tasked with parsing new content and structuring it as a set of nodes and edges for an existing mind map.

Output MUST be a VALID JSON object: { "nodes": [], "edges": [] }.
Each node MUST have a unique STRING "id" with a "merge_" prefix, a concise "label" (max 5-7 words), and optionally a "description". %sDo not set a "group"; the application assigns it later.
Each edge connects two nodes within this newly parsed content only, via "from" and "to", with an optional short "label".

Provide ONLY the JSON object, without any surrounding text or markdown fences.
The content to parse follows.`, valueNote)
}

// SubgraphNode is the minimal node view the merge-reconciliation prompt
// needs.
type SubgraphNode struct {
	ID          string
	Label       string
	Description string
}

// MergeConnections asks where one new top-level node should attach in the
// existing map: a named node, the root (via the ROOT_NODE sentinel), or
// nowhere.
func MergeConnections(existingMapContext string, subgraph []SubgraphNode, target SubgraphNode, rootLabel string) string {
	var sb strings.Builder
	for _, n := range subgraph {
		fmt.Fprintf(&sb, "- %q (ID: %s)", n.Label, n.ID)
		if n.Description != "" {
			fmt.Fprintf(&sb, ": %s", n.Description)
		}
		sb.WriteByte('\n')
	}
	rootHint := "There is no specific root node identified in the existing map."
	if rootLabel != "" {
		rootHint = fmt.Sprintf("The main root node of the existing map is labeled %q. You can suggest connecting to it by using \"ROOT_NODE\" as the target label.", rootLabel)
	}
	return fmt.Sprintf(`You are an AI assistant determining how a new top-level node from recently merged content should connect to an existing mind map.

Existing Mind Map Context:
---
%s
---

Newly Added Subgraph Content:
---
%s---

The node to connect is labeled %q (ID: %s). Description: %q.

Determine the BEST connection point: a specific existing node's label, the root node, or no connection when the node should stay top-level in its own subgraph. Also suggest a concise relationship label (1-3 words).
%s

Respond with a VALID JSON object:
{
  "connectToExistingNodeLabel": "label of an existing node OR 'ROOT_NODE' OR null",
  "relationshipLabel": "concise relationship label"
}
Provide ONLY the JSON object, without any surrounding text or markdown fences.`,
		existingMapContext, sb.String(), target.Label, target.ID, target.Description, rootHint)
}

// MakeConnection asks for one connector concept tying the selected nodes
// together.
func MakeConnection(nodeLabels []string) string {
	quoted := make([]string, len(nodeLabels))
	for i, l := range nodeLabels {
		quoted[i] = fmt.Sprintf("%q", l)
	}
	return fmt.Sprintf(`You are an AI assistant creating a conceptual link between multiple nodes in a mind map.
The user has selected the following nodes: %s.

Generate a concise label for a NEW connector node that conceptually ties these topics together, plus an optional short description.

The response MUST be a VALID JSON object:
{
  "connectorNodeLabel": "a concise label (max 5-7 words) for the new connector node",
  "connectorNodeDescription": "(optional) a 1-2 sentence description"
}
Provide ONLY the JSON object, without any surrounding text or markdown fences.`,
		strings.Join(quoted, ", "))
}
