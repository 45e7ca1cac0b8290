package session

import (
	"fmt"
	"strings"
)

// MapContext serializes the whole graph into the textual form embedded in
// prompts: a node list with descriptions, dates and eras, then an edge list
// expressed through labels so the model never sees internal IDs.
func (s *Session) MapContext() string {
	nodes := s.store.Nodes()
	if len(nodes) == 0 {
		return "No mind map data loaded."
	}

	labels := make(map[string]string, len(nodes))
	var b strings.Builder
	b.WriteString("Mind Map Content:\nNodes:\n")
	for _, n := range nodes {
		labels[n.ID] = n.Label
		fmt.Fprintf(&b, "- %q", n.Label)
		if n.Description != "" && n.Description != n.Label {
			b.WriteString(": " + n.Description)
		}
		if n.Date != "" {
			fmt.Fprintf(&b, " (Date: %s)", n.Date)
		}
		if n.Era != "" {
			fmt.Fprintf(&b, " (Era: %s)", n.Era)
		}
		b.WriteByte('\n')
	}

	b.WriteString("\nEdges (Relationships):\n")
	for _, e := range s.store.Edges() {
		from, okFrom := labels[e.From]
		to, okTo := labels[e.To]
		if !okFrom || !okTo {
			continue
		}
		if e.Label != "" {
			fmt.Fprintf(&b, "- %q (%s) %q\n", from, e.Label, to)
		} else {
			fmt.Fprintf(&b, "- %q -> %q\n", from, to)
		}
	}
	return b.String()
}

// themes returns up to ten distinct node labels joined for prompt context.
func (s *Session) themes() string {
	seen := make(map[string]struct{})
	var out []string
	for _, n := range s.store.Nodes() {
		if n.Label == "" {
			continue
		}
		if _, ok := seen[n.Label]; ok {
			continue
		}
		seen[n.Label] = struct{}{}
		out = append(out, n.Label)
		if len(out) == 10 {
			break
		}
	}
	return strings.Join(out, ", ")
}
