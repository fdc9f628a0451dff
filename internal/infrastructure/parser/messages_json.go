package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/source"
)

// MessagesJSONReader loads the intermediate JSON message dump.
type MessagesJSONReader struct{}

var _ source.Reader = (*MessagesJSONReader)(nil)

type jsonMessage struct {
	FileName   string `json:"filename"`
	Text       string `json:"message_text"`
	ClipLength string `json:"clip_length"`
	Date       string `json:"greg_date"`
}

// NewMessagesJSONReader builds the reader.
func NewMessagesJSONReader() *MessagesJSONReader {
	return &MessagesJSONReader{}
}

// Name identifies the format inside the registry.
func (j *MessagesJSONReader) Name() string {
	return "messages-json"
}

// Read decodes an array of {filename, message_text, clip_length, greg_date} objects.
func (j *MessagesJSONReader) Read(ctx context.Context, req source.Request) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(req.Path)
	if err != nil {
		return nil, fmt.Errorf("read messages %s: %w", req.Path, err)
	}

	var items []jsonMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode messages %s: %w", req.Path, err)
	}

	messages := make([]domain.Message, 0, len(items))
	for _, item := range items {
		messages = append(messages, domain.Message{
			Text:          item.Text,
			FileName:      strings.TrimSpace(item.FileName),
			ClipLength:    blankUnavailable(item.ClipLength),
			GregorianDate: blankUnavailable(item.Date),
		})
	}
	return messages, nil
}

// blankUnavailable folds the placeholders older dumps used for missing values.
func blankUnavailable(value string) string {
	value = strings.TrimSpace(value)
	switch value {
	case "N/A", domain.Unavailable, "Not Found":
		return ""
	}
	return value
}
