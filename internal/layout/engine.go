// Package layout wraps the force-directed rendering engine: styling, physics
// freezing, camera control, selection, and the historical timeline placement
// policy. The engine itself is consumed behind the Engine interface.
package layout

import (
	"sync"

	"mindmap-backend/internal/domain"
)

// Engine is the rendering/physics surface the controller drives. The real
// implementation lives in the UI client; the backend ships a headless
// implementation that tracks the same state.
type Engine interface {
	SetOptions(opts Options)
	AddNodes(nodes []domain.Node)
	AddEdges(edges []domain.Edge)
	ApplyNode(node domain.Node)
	Fit()
	Focus(nodeID string)
	GetPositions(nodeIDs []string) map[string]domain.Position
	Destroy()
}

// HeadlessEngine implements Engine without a rendering surface. It mirrors
// the graph and the last applied options so camera and position queries have
// answers, and lets a client push simulated positions back in.
type HeadlessEngine struct {
	mu        sync.RWMutex
	opts      Options
	nodes     map[string]domain.Node
	physicsOn bool
	destroyed bool

	// FitCalls and FocusCalls record camera requests for tests.
	FitCalls   int
	FocusCalls []string
}

// NewHeadlessEngine creates an empty headless engine.
func NewHeadlessEngine() *HeadlessEngine {
	return &HeadlessEngine{nodes: make(map[string]domain.Node)}
}

func (e *HeadlessEngine) SetOptions(opts Options) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts = opts
	e.physicsOn = opts.Physics.Enabled
}

// Options returns the last applied options.
func (e *HeadlessEngine) Options() Options {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.opts
}

func (e *HeadlessEngine) AddNodes(nodes []domain.Node) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, n := range nodes {
		e.nodes[n.ID] = n
	}
}

func (e *HeadlessEngine) AddEdges(edges []domain.Edge) {}

func (e *HeadlessEngine) ApplyNode(node domain.Node) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nodes[node.ID] = node
}

func (e *HeadlessEngine) Fit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.FitCalls++
}

func (e *HeadlessEngine) Focus(nodeID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.FocusCalls = append(e.FocusCalls, nodeID)
}

// GetPositions returns positions for the nodes that have one.
func (e *HeadlessEngine) GetPositions(nodeIDs []string) map[string]domain.Position {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]domain.Position)
	for _, id := range nodeIDs {
		if n, ok := e.nodes[id]; ok && n.Position != nil {
			out[id] = *n.Position
		}
	}
	return out
}

// SetPosition records a simulated position reported by the client.
func (e *HeadlessEngine) SetPosition(nodeID string, pos domain.Position) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n, ok := e.nodes[nodeID]; ok {
		n.Position = &pos
		e.nodes[nodeID] = n
	}
}

func (e *HeadlessEngine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.destroyed = true
	e.nodes = make(map[string]domain.Node)
}

// Destroyed reports whether Destroy has been called.
func (e *HeadlessEngine) Destroyed() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.destroyed
}
