package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LectureIndexer/internal/config"
)

func TestParseFields(t *testing.T) {
	t.Parallel()

	fields, err := ParseFields("Sure:\n```json\n{\"type\": \"Series\", \"series_name\": \" الملخص الفقهي \", \"serial\": \"12\", \"location\": \"online\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Series", fields.Type)
	assert.Equal(t, "الملخص الفقهي", fields.SeriesName)
	assert.Equal(t, "12", fields.Serial)
	assert.Equal(t, "online", fields.Location)
	assert.Empty(t, fields.Topic)
}

func TestParseFieldsErrors(t *testing.T) {
	t.Parallel()

	_, err := ParseFields("no object here")
	assert.True(t, errors.Is(err, ErrNoFields))

	_, err = ParseFields("{broken")
	assert.Error(t, err)

	_, err = ParseFields("{\"type\": 5}")
	assert.Error(t, err)
}

func TestOpenAIExtractor(t *testing.T) {
	t.Parallel()

	var gotModel, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"type\":\"Khutba\",\"topic\":\"التقوى\"}"}}]}`))
	}))
	defer server.Close()

	extractor := NewOpenAIExtractor(config.LLMConfig{
		Endpoint: server.URL + "/v1",
		Model:    "test-model",
		APIKey:   "secret",
	})

	fields, err := extractor.Extract(context.Background(), "خطبة الجمعة")
	require.NoError(t, err)
	assert.Equal(t, "Khutba", fields.Type)
	assert.Equal(t, "التقوى", fields.Topic)
	assert.Equal(t, "test-model", gotModel)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestOpenAIExtractorServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	extractor := NewOpenAIExtractor(config.LLMConfig{Endpoint: server.URL, Model: "m", APIKey: "k"})
	_, err := extractor.Extract(context.Background(), "x")
	assert.Error(t, err)
}
