package session

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mindmap-backend/internal/ai"
	"mindmap-backend/internal/domain"
	"mindmap-backend/internal/layout"
	"mindmap-backend/internal/store"
	apperrors "mindmap-backend/pkg/errors"
)

func newTestSession(t *testing.T, cfg Config) (*Session, *ai.MockProvider, *layout.HeadlessEngine) {
	t.Helper()
	engine := layout.NewHeadlessEngine()
	dcfg := layout.DefaultDisplayConfig()
	dcfg.MapType = cfg.MapType
	dcfg.ObsidianStyle = cfg.ObsidianStyle
	lc := layout.NewController(engine, dcfg, zap.NewNop())
	mock := ai.NewMockProvider()
	st := store.New(zap.NewNop())
	return New(st, lc, mock, nil, cfg, zap.NewNop()), mock, engine
}

func seedMap(t *testing.T, s *Session, data domain.MindMapData) {
	t.Helper()
	require.NoError(t, s.LoadPreloaded(data))
}

func standardSeed() domain.MindMapData {
	return domain.MindMapData{
		Nodes: []domain.Node{
			{ID: "c1", Label: "Central Topic", Group: domain.GroupCenter, Value: 10, Description: "The core idea."},
			{ID: "m1", Label: "Topic B", Group: domain.GroupMain, Value: 7, Description: "First branch."},
			{ID: "m2", Label: "Topic C", Group: domain.GroupMain, Value: 6, Description: "Second branch."},
		},
		Edges: []domain.Edge{
			{ID: "e1", From: "c1", To: "m1", Label: "covers"},
			{ID: "e2", From: "c1", To: "m2", Label: "covers"},
		},
	}
}

func TestGenerate_FromTranscript(t *testing.T) {
	s, _, _ := newTestSession(t, Config{MapType: domain.MapTypeStandard, ObsidianStyle: true})

	data, err := s.Generate(context.Background(), Source{Type: SourceTranscript, Text: "some lecture notes"})

	require.NoError(t, err)
	assert.Len(t, data.Nodes, 3)
	assert.Len(t, data.Edges, 2)
	var center domain.Node
	for _, n := range data.Nodes {
		if n.Group == domain.GroupCenter {
			center = n
		}
	}
	assert.Equal(t, 10, center.Value)
}

func TestGenerate_EmptyTranscriptRejected(t *testing.T) {
	s, mock, _ := newTestSession(t, Config{})

	_, err := s.Generate(context.Background(), Source{Type: SourceTranscript})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, mock.Prompts, "no AI call should be made for invalid input")
}

func TestSingleFlight_ConcurrentOperationRejected(t *testing.T) {
	s, _, _ := newTestSession(t, Config{})
	seedMap(t, s, standardSeed())

	finish, err := s.begin(KindExpansion)
	require.NoError(t, err)
	defer finish(nil)

	_, err = s.Elaborate(context.Background(), "m1")

	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	busy, kind := s.Busy()
	assert.True(t, busy)
	assert.Equal(t, KindExpansion, kind)
}

func TestSingleFlight_SlotFreedAfterFinish(t *testing.T) {
	s, _, _ := newTestSession(t, Config{ObsidianStyle: true})
	seedMap(t, s, standardSeed())

	finish, err := s.begin(KindExpansion)
	require.NoError(t, err)
	finish(nil)

	_, err = s.Elaborate(context.Background(), "m1")
	assert.NoError(t, err)
}

func TestElaborate_AttachesChildren(t *testing.T) {
	s, _, _ := newTestSession(t, Config{ObsidianStyle: true})
	seedMap(t, s, standardSeed())

	added, err := s.Elaborate(context.Background(), "m1")

	require.NoError(t, err)
	require.Len(t, added, 2)
	for _, n := range added {
		assert.Equal(t, domain.GroupElaboration, n.Group)
		assert.Equal(t, 2, n.Value)
	}
	edges := s.Store().EdgesFrom("m1")
	require.Len(t, edges, 2)
	for _, e := range edges {
		assert.True(t, e.Directed, "direction is data; arrowheads are a display toggle")
	}
}

func TestElaborate_UnknownNode(t *testing.T) {
	s, _, _ := newTestSession(t, Config{})
	seedMap(t, s, standardSeed())

	_, err := s.Elaborate(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestExplain_SingleChildWithVariantGroup(t *testing.T) {
	s, _, _ := newTestSession(t, Config{ObsidianStyle: true})
	seedMap(t, s, standardSeed())

	node, err := s.Explain(context.Background(), "m1", "why")

	require.NoError(t, err)
	assert.Equal(t, domain.ExplanationGroup("why"), node.Group)
	assert.NotEmpty(t, node.Label)
	require.Len(t, s.Store().EdgesInto(node.ID), 1)
}

func TestExpandMap_PartialFailureKeepsCommittedBatches(t *testing.T) {
	s, mock, _ := newTestSession(t, Config{ObsidianStyle: true})
	seedMap(t, s, standardSeed())
	before := s.Store().NodeCount()
	// Only the expansion call for Topic B carries this phrase; the map
	// context mentions the label everywhere, so match the prompt header.
	mock.FailContaining = `The parent node is labeled: "Topic B"`

	total, err := s.ExpandMap(context.Background(), 3, false)

	require.NoError(t, err)
	assert.Equal(t, 6, total, "two of three parents should succeed with three nodes each")
	assert.Equal(t, before+6, s.Store().NodeCount())
}

func TestExpandMap_EmptyMapRejected(t *testing.T) {
	s, _, _ := newTestSession(t, Config{})

	_, err := s.ExpandMap(context.Background(), 3, false)

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestAddMissingDescriptions_NoTargetsIsNoop(t *testing.T) {
	s, mock, _ := newTestSession(t, Config{})
	seedMap(t, s, standardSeed())

	updated, err := s.AddMissingDescriptions(context.Background())

	require.NoError(t, err)
	assert.Zero(t, updated)
	assert.Empty(t, mock.Prompts)
}

func TestAddMissingDescriptions_FillsEmptyOnes(t *testing.T) {
	s, _, _ := newTestSession(t, Config{})
	data := standardSeed()
	data.Nodes[1].Description = ""
	data.Nodes[2].Description = "Topic C" // repeats the label, needs a real one
	seedMap(t, s, data)

	updated, err := s.AddMissingDescriptions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, updated)
	n, err := s.Store().GetNode("m1")
	require.NoError(t, err)
	assert.NotEmpty(t, n.Description)
	assert.NotEqual(t, n.Label, n.Description)
}

func TestEnhanceDescription_AppendsSupplement(t *testing.T) {
	s, _, _ := newTestSession(t, Config{})
	seedMap(t, s, standardSeed())

	newDesc, err := s.EnhanceDescription(context.Background(), "m1")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(newDesc, "First branch.\n\n"))
	n, err := s.Store().GetNode("m1")
	require.NoError(t, err)
	assert.Equal(t, newDesc, n.Description)
}

func TestChat_RecordsTranscript(t *testing.T) {
	s, _, _ := newTestSession(t, Config{})
	seedMap(t, s, standardSeed())

	reply, err := s.Chat(context.Background(), "What does the map cover?", false)

	require.NoError(t, err)
	assert.Equal(t, "model", reply.Role)
	assert.NotEmpty(t, reply.Text)
	history := s.ChatHistory()
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
}

func TestAddNodeFromChat_NoParentSuggested(t *testing.T) {
	s, _, _ := newTestSession(t, Config{ObsidianStyle: true})
	seedMap(t, s, standardSeed())

	res, err := s.AddNodeFromChat(context.Background(), "Quantum Tunneling", "as mentioned earlier")

	require.NoError(t, err)
	assert.NotEmpty(t, res.NodeID)
	assert.Empty(t, res.ParentID)
	n, err := s.Store().GetNode(res.NodeID)
	require.NoError(t, err)
	assert.Equal(t, domain.GroupChatAdded, n.Group)
	assert.Equal(t, 4, n.Value)
	assert.Empty(t, s.Store().EdgesInto(res.NodeID))
}

func TestAddNodeFromChat_ParentMatchedCaseInsensitively(t *testing.T) {
	s, mock, _ := newTestSession(t, Config{})
	seedMap(t, s, standardSeed())
	mock.Canned = map[string]string{
		"integrating information from a chat conversation": `{"bestParentNodeLabel": "tOpIc b", "entityDefinition": "A thing."}`,
	}

	res, err := s.AddNodeFromChat(context.Background(), "New Term", "context")

	require.NoError(t, err)
	assert.Equal(t, "m1", res.ParentID)
	assert.Equal(t, "Topic B", res.ParentLabel)
	edges := s.Store().EdgesInto(res.NodeID)
	require.Len(t, edges, 1)
	assert.Equal(t, "related (from chat)", edges[0].Label)
}

func TestMergeContent_PromotesTopLevelNodes(t *testing.T) {
	s, _, _ := newTestSession(t, Config{ObsidianStyle: true})
	seedMap(t, s, standardSeed())

	res, err := s.MergeContent(context.Background(), MergeOptions{
		Source:           Source{Type: SourceTranscript, Text: "fresh material"},
		MakeTopNodesMain: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, res.NodesAdded)
	assert.Equal(t, 1, res.EdgesAdded)
	require.Len(t, res.TopLevelNodeIDs, 1)

	top, err := s.Store().GetNode(res.TopLevelNodeIDs[0])
	require.NoError(t, err)
	assert.Equal(t, domain.GroupMain, top.Group)
	assert.GreaterOrEqual(t, top.Value, domain.MainImportanceFloor)

	for _, n := range s.Store().Nodes() {
		if strings.HasPrefix(n.ID, "merge_") && n.ID != top.ID {
			assert.Equal(t, domain.GroupMergedDefault, n.Group)
		}
	}
}

func TestMergeContent_ReconciliationConnectsToRoot(t *testing.T) {
	s, mock, _ := newTestSession(t, Config{ObsidianStyle: true})
	seedMap(t, s, standardSeed())
	mock.Canned = map[string]string{
		"determining how a new top-level node": `{"connectToExistingNodeLabel": "ROOT_NODE", "relationshipLabel": "builds on"}`,
	}

	res, err := s.MergeContent(context.Background(), MergeOptions{
		Source:           Source{Type: SourceTranscript, Text: "fresh material"},
		MakeTopNodesMain: true,
		AttemptMerge:     true,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, res.EdgesAdded, "internal edge plus the root connection")

	top := res.TopLevelNodeIDs[0]
	incoming := s.Store().EdgesInto(top)
	require.Len(t, incoming, 1)
	assert.Equal(t, "c1", incoming[0].From, "the center node anchors the merge")
	assert.Equal(t, "builds on", incoming[0].Label)
	assert.True(t, strings.HasPrefix(incoming[0].ID, "aiconnect_"))
}

func TestMergeContent_ReconciliationFailureTolerated(t *testing.T) {
	s, mock, _ := newTestSession(t, Config{ObsidianStyle: true})
	seedMap(t, s, standardSeed())
	mock.FailContaining = "determining how a new top-level node"

	res, err := s.MergeContent(context.Background(), MergeOptions{
		Source:       Source{Type: SourceTranscript, Text: "fresh material"},
		AttemptMerge: true,
	})

	require.NoError(t, err, "a failed connection attempt must not fail the merge")
	assert.Equal(t, 2, res.NodesAdded)
	assert.Equal(t, 1, res.EdgesAdded)
}

func TestMakeConnection_CentroidAndDashedEdges(t *testing.T) {
	s, _, engine := newTestSession(t, Config{ObsidianStyle: true})
	seedMap(t, s, standardSeed())
	engine.SetPosition("m1", domain.Position{X: 0, Y: 0})
	engine.SetPosition("m2", domain.Position{X: 100, Y: 50})

	node, err := s.MakeConnection(context.Background(), []string{"m1", "m2"})

	require.NoError(t, err)
	assert.Equal(t, domain.GroupConnectorNode, node.Group)
	assert.Equal(t, 6, node.Value)
	require.NotNil(t, node.Position)
	assert.InDelta(t, 50, node.Position.X, 0.001)
	assert.InDelta(t, 25, node.Position.Y, 0.001)

	edges := s.Store().EdgesFrom(node.ID)
	require.Len(t, edges, 2)
	for _, e := range edges {
		assert.True(t, e.Dashed)
		assert.Equal(t, "connects", e.Label)
	}
	assert.False(t, s.Layout().ConnectionMode())
}

func TestMakeConnection_RequiresTwoNodes(t *testing.T) {
	s, _, _ := newTestSession(t, Config{})
	seedMap(t, s, standardSeed())

	_, err := s.MakeConnection(context.Background(), []string{"m1"})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestFreezeNode_Toggles(t *testing.T) {
	s, _, _ := newTestSession(t, Config{})
	seedMap(t, s, standardSeed())

	pinned, err := s.FreezeNode("m1")
	require.NoError(t, err)
	assert.True(t, pinned)
	assert.True(t, s.IsNodeFrozen("m1"))

	pinned, err = s.FreezeNode("m1")
	require.NoError(t, err)
	assert.False(t, pinned)
	assert.False(t, s.IsNodeFrozen("m1"))
}

func TestImportantNodes_Selection(t *testing.T) {
	s, _, _ := newTestSession(t, Config{ObsidianStyle: true})
	data := standardSeed()
	data.Nodes = append(data.Nodes,
		domain.Node{ID: "d1", Label: "Minor Detail", Group: domain.GroupDetail, Value: 2},
		domain.Node{ID: "d2", Label: "Big Detail", Group: domain.GroupDetail, Value: 6},
	)
	seedMap(t, s, data)

	important := s.ImportantNodes()

	labels := make([]string, 0, len(important))
	for _, n := range important {
		labels = append(labels, n.Label)
	}
	assert.ElementsMatch(t, []string{"Central Topic", "Topic B", "Topic C", "Big Detail"}, labels)
}

func TestMapContext_Format(t *testing.T) {
	s, _, _ := newTestSession(t, Config{})
	seedMap(t, s, domain.MindMapData{
		Nodes: []domain.Node{
			{ID: "a", Label: "Alpha", Group: domain.GroupCenter, Description: "The start.", Date: "1914-07-28", Era: "War"},
			{ID: "b", Label: "Beta", Group: domain.GroupMain},
		},
		Edges: []domain.Edge{
			{ID: "e1", From: "a", To: "b", Label: "leads to"},
			{ID: "e2", From: "b", To: "a"},
		},
	})

	ctx := s.MapContext()

	assert.Contains(t, ctx, "Mind Map Content:\nNodes:\n")
	assert.Contains(t, ctx, `- "Alpha": The start. (Date: 1914-07-28) (Era: War)`)
	assert.Contains(t, ctx, `- "Beta"`)
	assert.Contains(t, ctx, `- "Alpha" (leads to) "Beta"`)
	assert.Contains(t, ctx, `- "Beta" -> "Alpha"`)
}

func TestReplacePlaceholderLabel(t *testing.T) {
	cases := []struct {
		name        string
		label, desc string
		want        string
	}{
		{"real label kept", "Photosynthesis", "How plants make food.", "Photosynthesis"},
		{"placeholder replaced", "Node3", "Energy conversion, in plants.", "Energy conversion"},
		{"description too long", "Node3", strings.Repeat("x", 60), "Node3"},
		{"clause too short", "Node3", "Ab. Something else here", "Node3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, replacePlaceholderLabel(tc.label, tc.desc))
		})
	}
}

func TestEnablement_TracksStateAndStyle(t *testing.T) {
	s, _, _ := newTestSession(t, Config{MapType: domain.MapTypeStandard, ObsidianStyle: true})

	e := s.Enablement()
	assert.False(t, e.CanMutate)
	assert.False(t, e.CanChat)
	assert.False(t, e.CanExport)

	seedMap(t, s, standardSeed())
	e = s.Enablement()
	assert.True(t, e.CanMutate)
	assert.True(t, e.CanChat)
	assert.True(t, e.CanExport)
	assert.False(t, e.CanActOnNode, "no node selected yet")

	s.Layout().ClickNode("m1")
	assert.True(t, s.Enablement().CanActOnNode)

	finish, err := s.begin(KindExpansion)
	require.NoError(t, err)
	e = s.Enablement()
	assert.False(t, e.CanMutate)
	assert.False(t, e.CanExport)
	assert.True(t, e.CanChat, "chat stays available while an operation runs")
	finish(nil)
}

func TestEnablement_ExportNeedsObsidianStyle(t *testing.T) {
	s, _, _ := newTestSession(t, Config{MapType: domain.MapTypeStandard})
	seedMap(t, s, standardSeed())

	assert.False(t, s.Enablement().CanExport)
}

func TestHandleStabilized_PinsRootOnce(t *testing.T) {
	s, _, _ := newTestSession(t, Config{MapType: domain.MapTypeStandard})
	seedMap(t, s, standardSeed())

	pinnedID, err := s.HandleStabilized()
	require.NoError(t, err)
	assert.Equal(t, "c1", pinnedID)
	assert.True(t, s.IsNodeFrozen("c1"))

	pinnedID, err = s.HandleStabilized()
	require.NoError(t, err)
	assert.Empty(t, pinnedID, "only the first settle pins")
}

func TestHandleStabilized_ObsidianFallsBackToHighestValue(t *testing.T) {
	s, _, _ := newTestSession(t, Config{MapType: domain.MapTypeStandard, ObsidianStyle: true})
	seedMap(t, s, domain.MindMapData{
		Nodes: []domain.Node{
			{ID: "a", Label: "Alpha", Group: domain.GroupMain, Value: 4},
			{ID: "b", Label: "Beta", Group: domain.GroupMain, Value: 9},
		},
	})

	pinnedID, err := s.HandleStabilized()

	require.NoError(t, err)
	assert.Equal(t, "b", pinnedID)
}
