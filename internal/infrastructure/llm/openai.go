package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"LectureIndexer/internal/config"
	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/ports"
)

// ErrNoFields is returned when the reply carries no JSON object.
var ErrNoFields = errors.New("llm reply has no json object")

const defaultPrompt = `You extract metadata from Arabic Islamic lecture announcements.
Reply with one JSON object and nothing else, using these keys:
"type" (one of "Khutba", "Lecture", "Series"), "series_name" (book or series title),
"topic", "serial" (lesson number as digits), "location" ("onsite" or "online").
Use an empty string for anything the text does not state.`

// OpenAIExtractor implements ports.FallbackExtractor backed by OpenAI-compatible APIs.
type OpenAIExtractor struct {
	client       *openai.Client
	model        string
	systemPrompt string
}

var _ ports.FallbackExtractor = (*OpenAIExtractor)(nil)

// NewOpenAIExtractor builds a client from configuration.
func NewOpenAIExtractor(cfg config.LLMConfig) *OpenAIExtractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		clientCfg.BaseURL = strings.TrimRight(endpoint, "/")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIExtractor{
		client:       openai.NewClientWithConfig(clientCfg),
		model:        cfg.Model,
		systemPrompt: safePrompt(cfg.SystemPrompt),
	}
}

// Extract sends the message text and decodes the suggested fields.
func (c *OpenAIExtractor) Extract(ctx context.Context, text string) (domain.ExternalFields, error) {
	if c == nil || c.client == nil {
		return domain.ExternalFields{}, fmt.Errorf("llm client is nil")
	}
	if c.model == "" {
		return domain.ExternalFields{}, fmt.Errorf("llm client misconfigured")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
	})
	if err != nil {
		return domain.ExternalFields{}, fmt.Errorf("llm completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.ExternalFields{}, ErrNoFields
	}
	return ParseFields(resp.Choices[0].Message.Content)
}

// ParseFields decodes the first JSON object embedded in a reply.
func ParseFields(reply string) (domain.ExternalFields, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return domain.ExternalFields{}, ErrNoFields
	}

	var fields domain.ExternalFields
	if err := json.Unmarshal([]byte(reply[start:end+1]), &fields); err != nil {
		return domain.ExternalFields{}, fmt.Errorf("decode llm reply: %w", err)
	}
	fields.Type = strings.TrimSpace(fields.Type)
	fields.SeriesName = strings.TrimSpace(fields.SeriesName)
	fields.Topic = strings.TrimSpace(fields.Topic)
	fields.Serial = strings.TrimSpace(fields.Serial)
	fields.Location = strings.TrimSpace(fields.Location)
	return fields, nil
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return defaultPrompt
	}
	return prompt
}
