package layout

import (
	"mindmap-backend/internal/domain"
)

// Base sizing constants for the rendering options.
const (
	baseObsidianScalingMin = 10
	baseObsidianScalingMax = 30
	baseObsidianNodeSize   = 15
	baseNodeSize           = 20
	maxNodeSize            = 50
	baseEdgeWidth          = 1
)

// DisplayConfig is the user-adjustable styling and physics configuration.
// Every field maps to a UI control; StyleFor turns it into engine options.
type DisplayConfig struct {
	ObsidianStyle  bool           `json:"obsidian_style"`
	MapType        domain.MapType `json:"map_type"`
	ArrowsEnabled  bool           `json:"arrows_enabled"`
	ConnectionMode bool           `json:"connection_mode"`

	TextFadeThreshold       float64 `json:"text_fade_threshold"`
	NodeSizeMultiplier      float64 `json:"node_size_multiplier"`
	LinkThicknessMultiplier float64 `json:"link_thickness_multiplier"`

	CenterForce  float64 `json:"center_force"`
	RepelForce   float64 `json:"repel_force"`
	LinkForce    float64 `json:"link_force"`
	LinkDistance float64 `json:"link_distance"`

	PhysicsFrozen bool `json:"physics_frozen"`
}

// DefaultDisplayConfig returns the configuration the UI starts with.
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		MapType:                 domain.MapTypeStandard,
		ArrowsEnabled:           true,
		TextFadeThreshold:       5,
		NodeSizeMultiplier:      1,
		LinkThicknessMultiplier: 1,
		CenterForce:             0.1,
		RepelForce:              12000,
		LinkForce:               0.04,
		LinkDistance:            120,
	}
}

// NodeOptions is the node-level portion of the engine options.
type NodeOptions struct {
	Shape         string  `json:"shape"`
	Size          float64 `json:"size"`
	ScalingMin    float64 `json:"scaling_min,omitempty"`
	ScalingMax    float64 `json:"scaling_max,omitempty"`
	DrawThreshold float64 `json:"draw_threshold"`
}

// EdgeOptions is the edge-level portion of the engine options.
type EdgeOptions struct {
	Width         float64 `json:"width"`
	ArrowsEnabled bool    `json:"arrows_enabled"`
	Smooth        bool    `json:"smooth"`
}

// PhysicsOptions carries the barnes-hut constants.
type PhysicsOptions struct {
	Enabled                bool    `json:"enabled"`
	GravitationalConstant  float64 `json:"gravitational_constant"`
	CentralGravity         float64 `json:"central_gravity"`
	SpringLength           float64 `json:"spring_length"`
	SpringConstant         float64 `json:"spring_constant"`
	Damping                float64 `json:"damping"`
	AvoidOverlap           float64 `json:"avoid_overlap"`
	StabilizationIters     int     `json:"stabilization_iterations"`
	StabilizationFitOnDone bool    `json:"stabilization_fit"`
}

// InteractionOptions controls click semantics.
type InteractionOptions struct {
	DragNodes   bool `json:"drag_nodes"`
	Multiselect bool `json:"multiselect"`
}

// GroupStyle is the per-category visual treatment.
type GroupStyle struct {
	Shape      string  `json:"shape"`
	Background string  `json:"background"`
	Border     string  `json:"border"`
	FontSize   float64 `json:"font_size"`
	Value      int     `json:"value,omitempty"`
}

// Options is the full declarative configuration handed to the engine.
type Options struct {
	Nodes       NodeOptions                 `json:"nodes"`
	Edges       EdgeOptions                 `json:"edges"`
	Physics     PhysicsOptions              `json:"physics"`
	Interaction InteractionOptions          `json:"interaction"`
	Groups      map[domain.Group]GroupStyle `json:"groups"`
}

// StyleFor builds engine options from a display configuration. It is pure so
// styling can be tested without an engine, and re-appliable at any time
// without destroying node positions.
func StyleFor(cfg DisplayConfig) Options {
	historical := cfg.MapType == domain.MapTypeHistorical

	nodes := NodeOptions{
		Shape:         "box",
		Size:          min(baseNodeSize*cfg.NodeSizeMultiplier, maxNodeSize),
		DrawThreshold: 5,
	}
	if cfg.ObsidianStyle {
		nodes = NodeOptions{
			Shape:         "dot",
			Size:          baseObsidianNodeSize,
			ScalingMin:    baseObsidianScalingMin * cfg.NodeSizeMultiplier,
			ScalingMax:    baseObsidianScalingMax * cfg.NodeSizeMultiplier,
			DrawThreshold: cfg.TextFadeThreshold,
		}
	}

	opts := Options{
		Nodes: nodes,
		Edges: EdgeOptions{
			Width:         baseEdgeWidth * cfg.LinkThicknessMultiplier,
			ArrowsEnabled: cfg.ArrowsEnabled && !cfg.ObsidianStyle,
			Smooth:        !cfg.ObsidianStyle && !historical,
		},
		Physics: PhysicsOptions{
			Enabled:                !cfg.PhysicsFrozen && !historical,
			GravitationalConstant:  -cfg.RepelForce,
			CentralGravity:         cfg.CenterForce,
			SpringLength:           cfg.LinkDistance,
			SpringConstant:         cfg.LinkForce,
			Damping:                0.15,
			AvoidOverlap:           0.7,
			StabilizationIters:     1000,
			StabilizationFitOnDone: true,
		},
		Interaction: InteractionOptions{
			DragNodes:   !historical,
			Multiselect: cfg.ConnectionMode,
		},
		Groups: groupStyles(cfg.ObsidianStyle),
	}
	return opts
}

func groupStyles(obsidian bool) map[domain.Group]GroupStyle {
	dotOr := func(alt string) string {
		if obsidian {
			return "dot"
		}
		return alt
	}
	styles := map[domain.Group]GroupStyle{
		domain.GroupCenter:          {Shape: "ellipse", Background: "#FFBF00", Border: "#A0D2DB", FontSize: 18},
		domain.GroupMain:            {Shape: dotOr("box"), Background: "#2A6460", Border: "#4A8480", FontSize: 14},
		domain.GroupDetail:          {Shape: dotOr("text"), Background: "#4A4D6A", Border: "#6C709A", FontSize: 12},
		domain.GroupResearch:        {Shape: "star", Background: "#28a745", Border: "#1e7e34", FontSize: 13},
		domain.GroupElaboration:     {Shape: "dot", Background: "#b48ead", Border: "#886a7b", FontSize: 12},
		domain.GroupExampleNode:     {Shape: "dot", Background: "#FFD700", Border: "#B8860B", FontSize: 12},
		domain.GroupProsNode:        {Shape: "dot", Background: "#90EE90", Border: "#3CB371", FontSize: 12},
		domain.GroupConsNode:        {Shape: "dot", Background: "#F08080", Border: "#CD5C5C", FontSize: 12},
		domain.GroupChatAdded:       {Shape: dotOr("box"), Background: "#5e81ac", Border: "#81a1c1", FontSize: 13, Value: 4},
		domain.GroupHistoricalEvent: {Shape: dotOr("box"), Background: "#D2B48C", Border: "#A0522D", FontSize: 12},
		domain.GroupHistoricalEra:   {Shape: dotOr("ellipse"), Background: "#C19A6B", Border: "#8B4513", FontSize: 14},
		domain.GroupMergedDefault:   {Shape: dotOr("box"), Background: "#6a5acd", Border: "#483d8b", FontSize: 12, Value: 2},
		domain.GroupMergedAlternate: {Shape: dotOr("box"), Background: "#3cb371", Border: "#2e8b57", FontSize: 12, Value: 2},
		domain.GroupConnectorNode:   {Shape: dotOr("hexagon"), Background: "#FFB300", Border: "#E65100", FontSize: 13, Value: 6},
	}
	if obsidian {
		styles[domain.GroupConnectorNode] = GroupStyle{Shape: "diamond", Background: "#FFB300", Border: "#E65100", FontSize: 12, Value: 6}
	}
	for _, kind := range []string{"", "what", "who", "when", "why", "how"} {
		bg := map[string]string{
			"":     "#76c7c0",
			"what": "#6BAED6",
			"who":  "#FD8D3C",
			"when": "#74C476",
			"why":  "#9E9AC8",
			"how":  "#8B5A2B",
		}[kind]
		styles[domain.ExplanationGroup(kind)] = GroupStyle{Shape: "dot", Background: bg, Border: "#5a9a94", FontSize: 12}
	}
	return styles
}
