// Package parse normalizes raw model output into JSON values, tolerating the
// malformations models commonly produce: markdown code fences, stray words
// between array elements, and JSON embedded in surrounding prose.
package parse

import (
	"encoding/json"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"mindmap-backend/pkg/errors"
)

// junkWordPattern matches a bare word wedged between a closing string quote
// and the next object's opening brace.
var junkWordPattern = regexp.MustCompile(`(")\s*([A-Za-z][A-Za-z0-9]*)\s*(\{)`)

// Parser cleans and decodes model responses. It is stateless apart from the
// logger used for repair diagnostics.
type Parser struct {
	logger *zap.Logger
}

// NewParser creates a parser. A nil logger is replaced with a no-op one.
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger}
}

const previewLimit = 200

// Parse cleans the text and decodes it into v, which must be a pointer the
// way json.Unmarshal expects. Failures carry a bounded preview of the cleaned
// text for diagnostics.
func (p *Parser) Parse(text string, v interface{}) error {
	cleaned := p.Clean(text)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		p.logger.Error("failed to parse model response",
			zap.String("cleaned", preview(cleaned)),
			zap.Error(err))
		return errors.NewMalformedResponse(
			"invalid JSON in model response, preview: "+preview(cleaned), err)
	}
	return nil
}

// Clean applies the normalization heuristics without decoding: fence
// stripping, junk-word repair, and the object rescue slice. Well-formed
// input passes through unchanged.
func (p *Parser) Clean(text string) string {
	s := strings.TrimSpace(text)

	if inner, ok := stripFence(s); ok {
		s = inner
	}

	s = p.repairJunkWords(s)

	// A payload that is neither a complete array nor a complete object may
	// be an object embedded in prose. Rescue by slicing from the first "{"
	// to the last "}". Arrays are never sliced this way, so valid arrays
	// cannot be mutilated.
	if !(strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")) &&
		!(strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) {
		start := strings.Index(s, "{")
		end := strings.LastIndex(s, "}")
		if start != -1 && end > start {
			s = s[start : end+1]
		}
	}

	return s
}

// stripFence removes a surrounding markdown code fence, with or without a
// language tag. Returns ok=false when the text is not fully fenced.
func stripFence(s string) (string, bool) {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s, false
	}
	inner := strings.TrimPrefix(s, "```")
	inner = strings.TrimSuffix(inner, "```")
	// Drop the language tag on the opening line, if any.
	if i := strings.IndexByte(inner, '\n'); i != -1 {
		first := strings.TrimSpace(inner[:i])
		if first == "" || isWord(first) {
			inner = inner[i+1:]
		}
	} else if isWord(strings.TrimSpace(inner)) {
		return "", true
	}
	return strings.TrimSpace(inner), true
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// repairJunkWords fixes the pattern where a bare word appears between a
// closing string quote and the opening brace of the next array element,
// i.e. `"...value" JunkWord { ...` which should have been `"...value"}, { ...`.
func (p *Parser) repairJunkWords(s string) string {
	if !junkWordPattern.MatchString(s) {
		return s
	}
	p.logger.Warn("correcting junk word between JSON elements")
	return junkWordPattern.ReplaceAllString(s, "$1},\n$3")
}

func preview(s string) string {
	if len(s) > previewLimit {
		return s[:previewLimit] + "..."
	}
	return s
}
