package parse

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mindmap-backend/pkg/errors"
)

func TestParse_WellFormedInputUnchanged(t *testing.T) {
	p := NewParser(zap.NewNop())
	raw := `{"label":"Mitochondria","value":7}`

	var got map[string]interface{}
	require.NoError(t, p.Parse(raw, &got))

	var want map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &want))
	assert.Equal(t, want, got)
}

func TestParse_FenceStripping(t *testing.T) {
	p := NewParser(zap.NewNop())
	payload := `[{"id":"a"},{"id":"b"}]`

	tests := []struct {
		name string
		raw  string
	}{
		{"json tag", "```json\n" + payload + "\n```"},
		{"no tag", "```\n" + payload + "\n```"},
		{"leading whitespace", "  ```json\n" + payload + "\n```  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fenced, bare []map[string]string
			require.NoError(t, p.Parse(tt.raw, &fenced))
			require.NoError(t, p.Parse(payload, &bare))
			assert.Equal(t, bare, fenced)
		})
	}
}

func TestParse_JunkWordRepair(t *testing.T) {
	p := NewParser(zap.NewNop())
	raw := `[{"id":"n1","label":"first value" Node2 {"id":"n2","label":"second"}]`

	var got []map[string]string
	require.NoError(t, p.Parse(raw, &got))

	require.Len(t, got, 2)
	assert.Equal(t, "n1", got[0]["id"])
	assert.Equal(t, "n2", got[1]["id"])

	var direct []map[string]string
	assert.Error(t, json.Unmarshal([]byte(raw), &direct), "input should be invalid without the repair")
}

func TestParse_ObjectRescueFromProse(t *testing.T) {
	p := NewParser(zap.NewNop())
	raw := `Here is the result you asked for: {"label":"Photosynthesis"} hope that helps`

	var got map[string]string
	require.NoError(t, p.Parse(raw, &got))
	assert.Equal(t, "Photosynthesis", got["label"])
}

func TestClean_ValidArrayNeverSliced(t *testing.T) {
	p := NewParser(zap.NewNop())
	raw := `[{"a":1},{"b":2}]`

	assert.Equal(t, raw, p.Clean(raw))
}

func TestParse_FailureIsMalformedResponseWithPreview(t *testing.T) {
	p := NewParser(zap.NewNop())

	var got map[string]interface{}
	err := p.Parse("this is not json at all", &got)

	require.Error(t, err)
	assert.True(t, errors.IsMalformedResponse(err))
	assert.Contains(t, err.Error(), "preview")
}

func TestParse_PreviewIsBounded(t *testing.T) {
	p := NewParser(zap.NewNop())
	long := "{" + strings.Repeat("oops ", 200)

	var got map[string]interface{}
	err := p.Parse(long, &got)

	require.Error(t, err)
	assert.LessOrEqual(t, len(err.Error()), 400)
}
