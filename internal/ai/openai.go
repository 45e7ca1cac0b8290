package ai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"mindmap-backend/pkg/errors"
)

const systemPrompt = "You are a mind-mapping assistant. Follow the output format the user asks for exactly."

// OpenAIProvider implements Provider on the OpenAI chat completion API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIProvider creates a provider for the given API key and model.
func NewOpenAIProvider(apiKey, model string, logger *zap.Logger) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.NewValidation("openai api key is required")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}, nil
}

// IsAvailable reports whether the provider can serve requests.
func (p *OpenAIProvider) IsAvailable() bool {
	return p.client != nil
}

func useJSONObjectMode(f Format) bool {
	return f == FormatJSON
}

// Generate performs one chat completion. Search-augmented requests are sent
// as plain text per Request.Normalize; the chat API carries no separate
// grounding channel, so citations stay empty here.
func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (Result, error) {
	req = req.Normalize()

	prompt := req.Prompt
	if req.SourceURI != "" {
		prompt = fmt.Sprintf("Content source: %s\n\n%s", req.SourceURI, prompt)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature:         float32(req.Temperature),
		MaxCompletionTokens: req.MaxTokens,
	}
	// JSON mode guarantees an object, so array-shaped requests must rely on
	// the prompt alone and skip it.
	if useJSONObjectMode(req.Format) {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		p.logger.Error("chat completion failed", zap.String("model", p.model), zap.Error(err))
		return Result{}, errors.NewAIRequest("chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, errors.NewAIRequest("model returned no candidates", nil)
	}

	p.logger.Debug("chat completion ok",
		zap.String("model", p.model),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)))
	return Result{Text: resp.Choices[0].Message.Content}, nil
}
