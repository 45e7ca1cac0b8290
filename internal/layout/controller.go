package layout

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"mindmap-backend/internal/domain"
)

// Settle durations before physics is re-frozen after a transient unfreeze.
// New nodes need a moment of simulation so they are not dropped on top of
// existing ones; connector nodes get longer because they pull several
// neighborhoods at once.
const (
	SettleStandard  = 700 * time.Millisecond
	SettleConnector = 1500 * time.Millisecond
	SettleNoop      = 50 * time.Millisecond
)

// Controller owns the engine: styling, physics state, camera, selection
// modes, and the historical placement policy.
type Controller struct {
	mu     sync.Mutex
	engine Engine
	cfg    DisplayConfig
	logger *zap.Logger

	frozen      bool
	settleTimer *time.Timer

	// Selection is one of two mutually exclusive modes: a single selected
	// node, or an ordered multi-selection while connection mode is active.
	selectedNode        string
	connectionMode      bool
	connectionSelection []string
}

// NewController creates a controller over the given engine and applies the
// initial configuration. Historical maps start permanently frozen.
func NewController(engine Engine, cfg DisplayConfig, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{engine: engine, cfg: cfg, logger: logger}
	if cfg.MapType == domain.MapTypeHistorical {
		c.frozen = true
	}
	c.cfg.PhysicsFrozen = c.frozen
	c.engine.SetOptions(StyleFor(c.cfg))
	return c
}

// Configure re-applies styling and physics configuration. Safe at any time;
// node positions are not touched.
func (c *Controller) Configure(cfg DisplayConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cfg.PhysicsFrozen = c.frozen
	cfg.ConnectionMode = c.connectionMode
	c.cfg = cfg
	c.engine.SetOptions(StyleFor(c.cfg))
}

// Config returns the current display configuration.
func (c *Controller) Config() DisplayConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// SetPhysicsEnabled toggles the simulation. Historical maps stay frozen
// regardless.
func (c *Controller) SetPhysicsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setPhysicsLocked(enabled)
}

func (c *Controller) setPhysicsLocked(enabled bool) {
	if c.cfg.MapType == domain.MapTypeHistorical {
		c.frozen = true
		return
	}
	c.frozen = !enabled
	c.cfg.PhysicsFrozen = c.frozen
	c.engine.SetOptions(StyleFor(c.cfg))
}

// PhysicsFrozen reports whether the simulation is currently disabled.
func (c *Controller) PhysicsFrozen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.MapType == domain.MapTypeHistorical || c.frozen
}

// TransientSettle re-enables physics for the given duration and then
// re-freezes, so freshly added nodes settle visually. No-op when physics is
// already running or the map is historical. A second call resets the timer.
func (c *Controller) TransientSettle(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg.MapType == domain.MapTypeHistorical || !c.frozen {
		return
	}
	c.setPhysicsLocked(true)
	if c.settleTimer != nil {
		c.settleTimer.Stop()
	}
	c.settleTimer = time.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.setPhysicsLocked(false)
	})
}

// RestoreFrozen puts physics back into the given pre-operation state
// immediately, cancelling any pending settle timer. Used on failure paths.
func (c *Controller) RestoreFrozen(frozen bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settleTimer != nil {
		c.settleTimer.Stop()
		c.settleTimer = nil
	}
	c.setPhysicsLocked(!frozen)
}

// SyncAdd pushes new nodes and edges into the engine. Historical maps get
// timeline placement applied first.
func (c *Controller) SyncAdd(nodes []domain.Node, edges []domain.Edge) []domain.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg.MapType == domain.MapTypeHistorical {
		nodes = PlaceTimeline(nodes, 0)
	}
	c.engine.AddNodes(nodes)
	c.engine.AddEdges(edges)
	return nodes
}

// ApplyNode pushes a single updated node into the engine.
func (c *Controller) ApplyNode(node domain.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.ApplyNode(node)
}

// Fit animates the camera to contain the whole graph.
func (c *Controller) Fit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.Fit()
}

// Focus animates the camera to one node.
func (c *Controller) Focus(nodeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.Focus(nodeID)
}

// Positions returns the current simulated coordinates for the given nodes.
// Nodes without a known position are absent from the result.
func (c *Controller) Positions(nodeIDs []string) map[string]domain.Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.GetPositions(nodeIDs)
}

// Centroid computes the mean position of the given nodes. ok is false when
// none of them has a known position.
func (c *Controller) Centroid(nodeIDs []string) (domain.Position, bool) {
	c.mu.Lock()
	positions := c.engine.GetPositions(nodeIDs)
	c.mu.Unlock()
	if len(positions) == 0 {
		return domain.Position{}, false
	}
	var sum domain.Position
	for _, p := range positions {
		sum.X += p.X
		sum.Y += p.Y
	}
	n := float64(len(positions))
	return domain.Position{X: sum.X / n, Y: sum.Y / n}, true
}

// DestroyAndRebuild tears the engine state down and re-applies configuration
// and content. Needed when a theme switch cannot be expressed incrementally.
func (c *Controller) DestroyAndRebuild(cfg DisplayConfig, nodes []domain.Node, edges []domain.Edge) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.Destroy()
	c.cfg = cfg
	if cfg.MapType == domain.MapTypeHistorical {
		c.frozen = true
		nodes = PlaceTimeline(nodes, 0)
	}
	c.cfg.PhysicsFrozen = c.frozen
	c.engine.SetOptions(StyleFor(c.cfg))
	c.engine.AddNodes(nodes)
	c.engine.AddEdges(edges)
	c.engine.Fit()
}

// ClickNode applies click semantics for the current mode: in connection mode
// the node toggles in the ordered multi-selection, otherwise it becomes the
// single selection. An empty id clears the single selection.
func (c *Controller) ClickNode(nodeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connectionMode {
		if nodeID != "" {
			c.toggleConnectionLocked(nodeID)
		}
		return
	}
	c.selectedNode = nodeID
}

func (c *Controller) toggleConnectionLocked(nodeID string) {
	for i, id := range c.connectionSelection {
		if id == nodeID {
			c.connectionSelection = append(c.connectionSelection[:i], c.connectionSelection[i+1:]...)
			return
		}
	}
	c.connectionSelection = append(c.connectionSelection, nodeID)
}

// SelectedNode returns the single selection, empty when none or when
// connection mode is active.
func (c *Controller) SelectedNode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedNode
}

// SetConnectionMode enters or leaves connection mode. Entering clears the
// single selection; leaving clears the multi-selection.
func (c *Controller) SetConnectionMode(active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if active == c.connectionMode {
		return
	}
	c.connectionMode = active
	if active {
		c.selectedNode = ""
	} else {
		c.connectionSelection = nil
	}
	c.cfg.ConnectionMode = active
	c.engine.SetOptions(StyleFor(c.cfg))
}

// ConnectionMode reports whether connection mode is active.
func (c *Controller) ConnectionMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectionMode
}

// ConnectionSelection returns the ordered multi-selection.
func (c *Controller) ConnectionSelection() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.connectionSelection))
	copy(out, c.connectionSelection)
	return out
}
