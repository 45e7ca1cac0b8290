// Package store owns the in-memory mind-map graph for a session. It is the
// single shared mutable resource every mutation operation reads and writes;
// all access goes through its methods and batch inserts are validated before
// anything becomes visible.
package store

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"mindmap-backend/internal/domain"
	"mindmap-backend/pkg/errors"
)

// Store holds the node and edge collections keyed by id.
type Store struct {
	mu     sync.RWMutex
	nodes  map[string]*domain.Node
	edges  map[string]*domain.Edge
	ids    *domain.IDGenerator
	logger *zap.Logger
}

// New creates an empty store with its own identifier generator.
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		nodes:  make(map[string]*domain.Node),
		edges:  make(map[string]*domain.Edge),
		ids:    domain.NewIDGenerator(),
		logger: logger,
	}
}

// IDs exposes the session identifier generator.
func (s *Store) IDs() *domain.IDGenerator {
	return s.ids
}

// Reset discards all nodes and edges and resets the identifier counter.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = make(map[string]*domain.Node)
	s.edges = make(map[string]*domain.Edge)
	s.ids.Reset()
}

// LoadInitial bulk-inserts a generated or preloaded data set on top of a
// fresh graph. Nodes without ids are assigned one; the identifier counter is
// advanced past any numeric suffixes carried in. Edges whose endpoints do
// not exist are dropped with a warning rather than failing the load.
func (s *Store) LoadInitial(data domain.MindMapData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = make(map[string]*domain.Node)
	s.edges = make(map[string]*domain.Edge)
	s.ids.Reset()

	incoming := make([]string, 0, len(data.Nodes)+len(data.Edges))
	for _, n := range data.Nodes {
		if n.ID != "" {
			incoming = append(incoming, n.ID)
		}
	}
	for _, e := range data.Edges {
		if e.ID != "" {
			incoming = append(incoming, e.ID)
		}
	}
	s.ids.AdvancePast(incoming...)

	// Validate the whole batch before inserting anything, so a bad entry
	// leaves the store empty rather than half-loaded.
	staged := make([]domain.Node, len(data.Nodes))
	seen := make(map[string]bool, len(data.Nodes))
	for i := range data.Nodes {
		n := data.Nodes[i]
		if n.ID == "" {
			n.ID = s.ids.Next("node_init_")
		}
		if n.Label == "" {
			return errors.NewValidation(fmt.Sprintf("node %s has no label", n.ID))
		}
		if seen[n.ID] {
			return errors.NewValidation(fmt.Sprintf("duplicate node id %s in initial data", n.ID))
		}
		seen[n.ID] = true
		staged[i] = n
	}
	for i := range staged {
		s.nodes[staged[i].ID] = &staged[i]
	}

	for i := range data.Edges {
		e := data.Edges[i]
		if e.ID == "" {
			e.ID = s.ids.Next("edge_init_")
		}
		if _, ok := s.nodes[e.From]; !ok {
			s.logger.Warn("dropping edge with missing source node",
				zap.String("edge_id", e.ID), zap.String("from", e.From))
			continue
		}
		if _, ok := s.nodes[e.To]; !ok {
			s.logger.Warn("dropping edge with missing target node",
				zap.String("edge_id", e.ID), zap.String("to", e.To))
			continue
		}
		s.edges[e.ID] = &e
	}

	return nil
}

// AddNodes appends a batch of nodes. The whole batch is validated first, so
// either every node becomes visible or none does.
func (s *Store) AddNodes(nodes []domain.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			return errors.NewValidation("node with empty id in batch")
		}
		if n.Label == "" {
			return errors.NewValidation(fmt.Sprintf("node %s has no label", n.ID))
		}
		if _, exists := s.nodes[n.ID]; exists || seen[n.ID] {
			return errors.NewValidation(fmt.Sprintf("node %s already exists", n.ID))
		}
		seen[n.ID] = true
	}

	for i := range nodes {
		n := nodes[i]
		s.nodes[n.ID] = &n
	}
	return nil
}

// AddEdges appends a batch of edges. Every endpoint must already exist
// (nodes added in the same logical operation are inserted first); the batch
// is validated before any edge becomes visible.
func (s *Store) AddEdges(edges []domain.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(edges))
	for _, e := range edges {
		if e.ID == "" {
			return errors.NewValidation("edge with empty id in batch")
		}
		if _, exists := s.edges[e.ID]; exists || seen[e.ID] {
			return errors.NewValidation(fmt.Sprintf("edge %s already exists", e.ID))
		}
		if _, ok := s.nodes[e.From]; !ok {
			return errors.NewNotFound(fmt.Sprintf("edge %s references missing node %s", e.ID, e.From))
		}
		if _, ok := s.nodes[e.To]; !ok {
			return errors.NewNotFound(fmt.Sprintf("edge %s references missing node %s", e.ID, e.To))
		}
		seen[e.ID] = true
	}

	for i := range edges {
		e := edges[i]
		s.edges[e.ID] = &e
	}
	return nil
}

// NodeUpdate carries the fields UpdateNode may change. Nil pointers leave
// the current value in place.
type NodeUpdate struct {
	Label       *string
	Description *string
	Group       *domain.Group
	Value       *int
	Position    *domain.Position
	Pinned      *bool
}

// UpdateNode merges the given fields into an existing node.
func (s *Store) UpdateNode(id string, update NodeUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok {
		return errors.NewNotFound(fmt.Sprintf("node %s not found", id))
	}
	if update.Label != nil {
		n.Label = *update.Label
	}
	if update.Description != nil {
		n.Description = *update.Description
	}
	if update.Group != nil {
		n.Group = *update.Group
	}
	if update.Value != nil {
		n.Value = *update.Value
	}
	if update.Position != nil {
		pos := *update.Position
		n.Position = &pos
	}
	if update.Pinned != nil {
		n.Pinned = *update.Pinned
	}
	return nil
}

// GetNode returns a copy of the node with the given id.
func (s *Store) GetNode(id string) (domain.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return domain.Node{}, errors.NewNotFound(fmt.Sprintf("node %s not found", id))
	}
	return *n, nil
}

// HasNode reports whether a node with the given id exists.
func (s *Store) HasNode(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[id]
	return ok
}

// Nodes returns copies of all nodes, ordered by id for deterministic output.
func (s *Store) Nodes() []domain.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns copies of all edges, ordered by id.
func (s *Store) Edges() []domain.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Edge, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EdgesInto returns copies of all edges whose target is the given node.
func (s *Store) EdgesInto(nodeID string) []domain.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Edge
	for _, e := range s.edges {
		if e.To == nodeID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EdgesFrom returns copies of all edges whose source is the given node.
func (s *Store) EdgesFrom(nodeID string) []domain.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Edge
	for _, e := range s.edges {
		if e.From == nodeID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NodeCount returns the number of nodes.
func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// EdgeCount returns the number of edges.
func (s *Store) EdgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edges)
}

// Validate checks referential integrity: every edge endpoint resolves to an
// existing node. Used by tests and as a consistency probe.
func (s *Store) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.edges {
		if _, ok := s.nodes[e.From]; !ok {
			return errors.NewInternal(fmt.Sprintf("edge %s has dangling source %s", e.ID, e.From), nil)
		}
		if _, ok := s.nodes[e.To]; !ok {
			return errors.NewInternal(fmt.Sprintf("edge %s has dangling target %s", e.ID, e.To), nil)
		}
	}
	return nil
}
