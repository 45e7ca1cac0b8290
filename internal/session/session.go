// Package session drives the AI-assisted mutation operations over one mind
// map: it builds prompts from the current graph, calls the generation
// provider, validates the reply and applies the resulting mutations to the
// store and the layout.
package session

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"mindmap-backend/internal/ai"
	"mindmap-backend/internal/domain"
	"mindmap-backend/internal/layout"
	"mindmap-backend/internal/observability"
	"mindmap-backend/internal/parse"
	"mindmap-backend/internal/prompts"
	"mindmap-backend/internal/store"
	"mindmap-backend/pkg/errors"
)

// Config fixes per-map options chosen when a session is created.
type Config struct {
	MapType       domain.MapType     `json:"map_type"`
	ObsidianStyle bool               `json:"obsidian_style"`
	Complexity    prompts.Complexity `json:"complexity"`
	ArrowsEnabled bool               `json:"arrows_enabled"`
}

// Session owns a single mind map: its store, its layout controller and the
// AI provider used to mutate it. One mutating operation runs at a time;
// concurrent attempts are rejected with a conflict error.
type Session struct {
	store    *store.Store
	layout   *layout.Controller
	provider ai.Provider
	parser   *parse.Parser
	metrics  *observability.Collector
	logger   *zap.Logger

	cfg Config

	inFlight atomic.Bool
	current  atomic.Value // Kind

	// stabilized flips once per loaded map; the first settle pins the root.
	stabilized atomic.Bool

	chatMu sync.Mutex
	chat   []domain.ChatMessage

	sourceMu   sync.Mutex
	lastSource Source
}

// LastSource reports the source the current map was generated from. Zero
// for preloaded maps.
func (s *Session) LastSource() Source {
	s.sourceMu.Lock()
	defer s.sourceMu.Unlock()
	return s.lastSource
}

func (s *Session) setLastSource(src Source) {
	s.sourceMu.Lock()
	s.lastSource = src
	s.sourceMu.Unlock()
}

// New assembles a session from its collaborators. A nil logger is replaced
// with a no-op one.
func New(st *store.Store, lc *layout.Controller, provider ai.Provider, metrics *observability.Collector, cfg Config, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Complexity == "" {
		cfg.Complexity = prompts.ComplexityAuto
	}
	return &Session{
		store:    st,
		layout:   lc,
		provider: provider,
		parser:   parse.NewParser(logger),
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
	}
}

// Config returns the per-map options this session was created with.
func (s *Session) Config() Config { return s.cfg }

// Store exposes the graph store, e.g. for read-only HTTP handlers.
func (s *Session) Store() *store.Store { return s.store }

// Layout exposes the layout controller.
func (s *Session) Layout() *layout.Controller { return s.layout }

// Busy reports whether a mutating operation is running and which one.
func (s *Session) Busy() (bool, Kind) {
	if !s.inFlight.Load() {
		return false, ""
	}
	k, _ := s.current.Load().(Kind)
	return true, k
}

// begin claims the single operation slot. It returns a finish function that
// must be called exactly once with the operation's final error; on failure
// the pre-operation physics state is restored and metrics record the
// outcome either way.
func (s *Session) begin(kind Kind) (func(err error), error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		cur, _ := s.current.Load().(Kind)
		return nil, errors.NewConflict(fmt.Sprintf("another operation (%s) is already in progress", cur))
	}
	s.current.Store(kind)
	start := time.Now()
	wasFrozen := s.layout.PhysicsFrozen()

	return func(err error) {
		status := "success"
		if err != nil {
			status = "error"
			s.layout.RestoreFrozen(wasFrozen)
			s.logger.Warn("operation failed",
				zap.String("kind", string(kind)),
				zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.ObserveOperation(string(kind), status, time.Since(start))
		}
		s.inFlight.Store(false)
	}, nil
}

// recordGrowth updates the graph growth counters.
func (s *Session) recordGrowth(nodes, edges int) {
	if s.metrics != nil {
		s.metrics.ObserveGraphGrowth(nodes, edges)
	}
}

// LoadPreloaded replaces the map with previously exported data, skipping
// generation. Dangling edges are dropped by the store; the layout is rebuilt
// from scratch.
func (s *Session) LoadPreloaded(data domain.MindMapData) error {
	finish, err := s.begin(KindGeneration)
	if err != nil {
		return err
	}
	defer func() { finish(err) }()

	if err = s.store.LoadInitial(data); err != nil {
		return err
	}
	s.stabilized.Store(false)
	nodes, edges := s.store.Nodes(), s.store.Edges()
	s.layout.DestroyAndRebuild(s.displayConfig(), nodes, edges)
	s.syncBackPositions(nodes)
	s.recordGrowth(len(nodes), len(edges))
	return nil
}

// Data snapshots the current map.
func (s *Session) Data() domain.MindMapData {
	return domain.MindMapData{Nodes: s.store.Nodes(), Edges: s.store.Edges()}
}

func (s *Session) displayConfig() layout.DisplayConfig {
	cfg := s.layout.Config()
	cfg.MapType = s.cfg.MapType
	cfg.ObsidianStyle = s.cfg.ObsidianStyle
	cfg.ArrowsEnabled = s.cfg.ArrowsEnabled
	return cfg
}

// syncBackPositions writes layout-assigned positions (historical timeline
// placement pins nodes) back into the store so exports and reloads see them.
func (s *Session) syncBackPositions(nodes []domain.Node) {
	if s.cfg.MapType != domain.MapTypeHistorical {
		return
	}
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	pinned := true
	for id, pos := range s.layout.Positions(ids) {
		p := pos
		if err := s.store.UpdateNode(id, store.NodeUpdate{Position: &p, Pinned: &pinned}); err != nil {
			s.logger.Warn("position sync failed", zap.String("node", id), zap.Error(err))
		}
	}
}

// FreezeNode toggles the pinned state of one node and reports the new state.
// Purely local, no AI involved.
func (s *Session) FreezeNode(nodeID string) (bool, error) {
	node, err := s.store.GetNode(nodeID)
	if err != nil {
		return false, err
	}
	pinned := !node.Pinned
	if err := s.store.UpdateNode(nodeID, store.NodeUpdate{Pinned: &pinned}); err != nil {
		return false, err
	}
	node.Pinned = pinned
	s.layout.ApplyNode(node)
	return pinned, nil
}

// IsNodeFrozen reports whether the node is pinned. Unknown nodes are not
// frozen.
func (s *Session) IsNodeFrozen(nodeID string) bool {
	node, err := s.store.GetNode(nodeID)
	return err == nil && node.Pinned
}

// ImportantNodes selects the nodes worth studying: center and main nodes
// always, era and event nodes on historical maps, and any node at or above
// importance 6 when the obsidian style (which carries importance values) is
// active. Used by the flashcard export.
func (s *Session) ImportantNodes() []domain.Node {
	const obsidianValueThreshold = 6

	var out []domain.Node
	for _, n := range s.store.Nodes() {
		if n.Label == "" {
			continue
		}
		important := n.Group == domain.GroupCenter || n.Group == domain.GroupMain
		if !important && s.cfg.MapType == domain.MapTypeHistorical {
			important = n.Group == domain.GroupHistoricalEra || n.Group == domain.GroupHistoricalEvent
		}
		if !important && s.cfg.ObsidianStyle {
			important = n.Value >= obsidianValueThreshold
		}
		if important {
			out = append(out, n)
		}
	}
	return out
}
