package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ZaguanLabs/pagetl"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider using an OpenAI-compatible chat API.
// The whole markup is sent in one message and returned in one JSON field.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.2)
	BaseURL     string  // Custom base URL for compatible gateways (optional)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Translate translates the request text with a single chat completion.
func (p *OpenAIProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	payload, err := json.Marshal(map[string]string{"text": req.Text})
	if err != nil {
		return "", &pagetl.TranslationError{Message: "encoding request", Cause: err}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &pagetl.StructuralError{Message: "no choices in completion"}
	}

	return p.parseResponse(resp.Choices[0].Message.Content)
}

func (p *OpenAIProvider) buildSystemPrompt(req TranslateRequest) string {
	targetName := pagetl.GetLanguageName(req.TargetLang)

	source := "Detect the source language."
	if req.SourceLang != "" {
		source = fmt.Sprintf("The source language is %s.", pagetl.GetLanguageName(req.SourceLang))
	}

	content := "The text is an HTML document or fragment."
	if req.Format == pagetl.FormatText {
		content = "The text is plain text."
	}

	return fmt.Sprintf(`# Role
You are a professional translator. Translate into %s.

# Input
%s %s
You receive a JSON object {"text": "..."}.

# Rules
- Translate only human-readable text. Keep every tag, attribute name, id, class, URL and script exactly as it is.
- Keep the document structure and whitespace.
- Do not add commentary.

# Format
Return a JSON object with a single key "translation" holding the translated text.
Example: {"translation": "..."}`, targetName, content, source)
}

func (p *OpenAIProvider) parseResponse(content string) (string, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(content), &obj); err != nil {
		return "", &pagetl.StructuralError{Message: "completion is not a JSON object", Cause: err}
	}

	if s, ok := obj["translation"].(string); ok {
		return s, nil
	}

	// Some models pick their own key; take the only string value.
	var found []string
	for _, v := range obj {
		if s, ok := v.(string); ok {
			found = append(found, s)
		}
	}
	if len(found) == 1 {
		return found[0], nil
	}

	return "", &pagetl.StructuralError{Message: "completion has no translation field"}
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &pagetl.APIError{Code: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &pagetl.HTTPError{StatusCode: reqErr.HTTPStatusCode}
	}

	return &pagetl.TransportError{Message: "OpenAI request failed", Cause: err}
}

// Verify OpenAIProvider implements Provider
var _ Provider = (*OpenAIProvider)(nil)
