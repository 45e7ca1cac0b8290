package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mindmap-backend/internal/domain"
)

func newTestController(cfg DisplayConfig) (*Controller, *HeadlessEngine) {
	engine := NewHeadlessEngine()
	return NewController(engine, cfg, zap.NewNop()), engine
}

func TestStyleFor_ObsidianUsesDotsAndNoArrows(t *testing.T) {
	cfg := DefaultDisplayConfig()
	cfg.ObsidianStyle = true
	cfg.TextFadeThreshold = 12

	opts := StyleFor(cfg)

	assert.Equal(t, "dot", opts.Nodes.Shape)
	assert.False(t, opts.Edges.ArrowsEnabled)
	assert.Equal(t, 12.0, opts.Nodes.DrawThreshold)
}

func TestStyleFor_PhysicsConstantsFromSliders(t *testing.T) {
	cfg := DefaultDisplayConfig()
	cfg.RepelForce = 9000
	cfg.CenterForce = 0.3
	cfg.LinkDistance = 200
	cfg.LinkForce = 0.05

	opts := StyleFor(cfg)

	assert.Equal(t, -9000.0, opts.Physics.GravitationalConstant)
	assert.Equal(t, 0.3, opts.Physics.CentralGravity)
	assert.Equal(t, 200.0, opts.Physics.SpringLength)
	assert.Equal(t, 0.05, opts.Physics.SpringConstant)
}

func TestStyleFor_HistoricalDisablesPhysicsAndDragging(t *testing.T) {
	cfg := DefaultDisplayConfig()
	cfg.MapType = domain.MapTypeHistorical

	opts := StyleFor(cfg)

	assert.False(t, opts.Physics.Enabled)
	assert.False(t, opts.Interaction.DragNodes)
}

func TestStyleFor_CoversEveryGroup(t *testing.T) {
	opts := StyleFor(DefaultDisplayConfig())

	for _, g := range []domain.Group{
		domain.GroupCenter, domain.GroupMain, domain.GroupDetail,
		domain.GroupResearch, domain.GroupElaboration, domain.GroupExampleNode,
		domain.GroupProsNode, domain.GroupConsNode, domain.GroupChatAdded,
		domain.GroupHistoricalEvent, domain.GroupHistoricalEra,
		domain.GroupMergedDefault, domain.GroupMergedAlternate,
		domain.GroupConnectorNode, domain.ExplanationGroup(""),
		domain.ExplanationGroup("why"),
	} {
		assert.Contains(t, opts.Groups, g)
	}
}

func TestController_TransientSettleRefreezes(t *testing.T) {
	cfg := DefaultDisplayConfig()
	c, _ := newTestController(cfg)
	c.SetPhysicsEnabled(false)
	require.True(t, c.PhysicsFrozen())

	c.TransientSettle(20 * time.Millisecond)
	assert.False(t, c.PhysicsFrozen(), "physics should run during the settle window")

	assert.Eventually(t, c.PhysicsFrozen, time.Second, 5*time.Millisecond,
		"physics should re-freeze after the settle window")
}

func TestController_TransientSettleNoopWhenRunning(t *testing.T) {
	c, _ := newTestController(DefaultDisplayConfig())
	require.False(t, c.PhysicsFrozen())

	c.TransientSettle(10 * time.Millisecond)

	assert.False(t, c.PhysicsFrozen())
}

func TestController_HistoricalAlwaysFrozen(t *testing.T) {
	cfg := DefaultDisplayConfig()
	cfg.MapType = domain.MapTypeHistorical
	c, _ := newTestController(cfg)

	c.SetPhysicsEnabled(true)

	assert.True(t, c.PhysicsFrozen())
}

func TestController_SelectionModesAreExclusive(t *testing.T) {
	c, _ := newTestController(DefaultDisplayConfig())

	c.ClickNode("n1")
	assert.Equal(t, "n1", c.SelectedNode())

	c.SetConnectionMode(true)
	assert.Empty(t, c.SelectedNode(), "entering connection mode clears single selection")

	c.ClickNode("n2")
	c.ClickNode("n3")
	c.ClickNode("n2") // toggle off
	assert.Equal(t, []string{"n3"}, c.ConnectionSelection())

	c.SetConnectionMode(false)
	assert.Empty(t, c.ConnectionSelection(), "leaving connection mode clears the set")
}

func TestController_Centroid(t *testing.T) {
	c, engine := newTestController(DefaultDisplayConfig())
	engine.AddNodes([]domain.Node{
		{ID: "a", Label: "A", Position: &domain.Position{X: 0, Y: 0}},
		{ID: "b", Label: "B", Position: &domain.Position{X: 100, Y: 50}},
	})

	pos, ok := c.Centroid([]string{"a", "b"})

	require.True(t, ok)
	assert.Equal(t, 50.0, pos.X)
	assert.Equal(t, 25.0, pos.Y)
}

func TestController_CentroidUnknownPositions(t *testing.T) {
	c, engine := newTestController(DefaultDisplayConfig())
	engine.AddNodes([]domain.Node{{ID: "a", Label: "A"}})

	_, ok := c.Centroid([]string{"a"})

	assert.False(t, ok)
}

func TestPlaceTimeline_ProjectsDatesOntoX(t *testing.T) {
	nodes := []domain.Node{
		{ID: "mid", Label: "Mid", Date: "1950"},
		{ID: "first", Label: "First", Date: "1900"},
		{ID: "last", Label: "Last", Date: "2000"},
		{ID: "undated", Label: "Undated", Date: "sometime"},
	}

	placed := PlaceTimeline(nodes, 1000)

	byID := map[string]domain.Node{}
	for _, n := range placed {
		require.NotNil(t, n.Position, "%s must be positioned", n.ID)
		assert.True(t, n.Pinned)
		byID[n.ID] = n
	}

	assert.Equal(t, 100.0, byID["first"].Position.X)
	assert.Equal(t, 900.0, byID["last"].Position.X)
	assert.Greater(t, byID["mid"].Position.X, byID["first"].Position.X)
	assert.Less(t, byID["mid"].Position.X, byID["last"].Position.X)

	assert.Greater(t, byID["undated"].Position.Y, byID["first"].Position.Y,
		"undated nodes land in the overflow row below the timeline")
}

func TestPlaceTimeline_SameDateStaggered(t *testing.T) {
	nodes := []domain.Node{
		{ID: "a", Label: "A", Date: "1900"},
		{ID: "b", Label: "B", Date: "1900"},
	}

	placed := PlaceTimeline(nodes, 1000)

	assert.Equal(t, 500.0, placed[0].Position.X, "zero time range centers the timeline")
	assert.NotEqual(t, placed[0].Position.Y, placed[1].Position.Y)
}

func TestHeadlessEngine_DestroyAndRebuild(t *testing.T) {
	cfg := DefaultDisplayConfig()
	c, engine := newTestController(cfg)
	c.SyncAdd([]domain.Node{{ID: "a", Label: "A"}}, nil)

	cfg.ObsidianStyle = true
	c.DestroyAndRebuild(cfg, []domain.Node{{ID: "a", Label: "A"}}, nil)

	assert.True(t, engine.Destroyed())
	assert.Equal(t, "dot", engine.Options().Nodes.Shape)
	assert.Equal(t, 1, engine.FitCalls)
}
