package verse

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appcfg "github.com/sacred-word/core/internal/config"
)

func openAICompatibleProvider(endpoint string) *appcfg.AIProvider {
	return &appcfg.AIProvider{
		ID:           "p1",
		Type:         "OpenAI-Compatible",
		APIKey:       "test-key",
		Endpoint:     endpoint,
		DefaultModel: "gpt-4o-mini",
		Enabled:      true,
	}
}

func lookupDescriptor() RequestDescriptor {
	sys, prompt := buildLookupPrompt(StyleModern, "ভয় লাগছে")
	return RequestDescriptor{
		SystemInstruction: sys,
		UserContent:       prompt,
		Schema:            lookupSchema(),
		MaxOutputTokens:   lookupMaxOutputTokens,
		JSONResponse:      true,
	}
}

func TestOpenAICompatibleSuccess(t *testing.T) {
	content := `{"reference":"গীত ১:১","text":"ধন্য সেই ব্যক্তি","explanation":{` +
		`"theologicalMeaning":"ঈশ্বরের পথে চলার আশীর্বাদ",` +
		`"historicalContext":"গীতসংহিতার সূচনা গীত",` +
		`"practicalApplication":"প্রতিদিন বাক্য ধ্যান করুন"},` +
		`"keyThemes":["আশীর্বাদ"]}`
	body, err := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"content": content}},
		},
	})
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer server.Close()

	transport := NewTransport()
	raw, err := transport.Generate(context.Background(), openAICompatibleProvider(server.URL), lookupDescriptor())
	require.NoError(t, err)

	v, err := extractVerse(raw, StyleModern)
	require.NoError(t, err)
	assert.Equal(t, "গীত ১:১", v.Reference)
	assert.Equal(t, "গীতসংহিতার সূচনা গীত", v.Explanation.HistoricalContext)
}

func TestOpenAICompatibleUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer server.Close()

	transport := NewTransport()
	_, err := transport.Generate(context.Background(), openAICompatibleProvider(server.URL), lookupDescriptor())
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestOpenAICompatibleForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	transport := NewTransport()
	_, err := transport.Generate(context.Background(), openAICompatibleProvider(server.URL), lookupDescriptor())
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestOpenAICompatibleServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	transport := NewTransport()
	_, err := transport.Generate(context.Background(), openAICompatibleProvider(server.URL), lookupDescriptor())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestOpenAICompatibleConnectionRefused(t *testing.T) {
	transport := NewTransport()
	_, err := transport.Generate(context.Background(), openAICompatibleProvider("http://127.0.0.1:1"), lookupDescriptor())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestOpenAICompatibleTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The request body must be consumed before the context observes
		// the client going away.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	transport := NewTransport()
	_, err := transport.Generate(ctx, openAICompatibleProvider(server.URL), lookupDescriptor())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestOpenAICompatibleEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	transport := NewTransport()
	_, err := transport.Generate(context.Background(), openAICompatibleProvider(server.URL), lookupDescriptor())
	assert.ErrorIs(t, err, ErrResponseFormat)
}

func TestGenerateMissingAPIKey(t *testing.T) {
	transport := NewTransport()
	provider := openAICompatibleProvider("http://example.invalid")
	provider.APIKey = "  "
	_, err := transport.Generate(context.Background(), provider, lookupDescriptor())
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestSelectProvider(t *testing.T) {
	cfg := appcfg.AIConfig{
		Providers: []appcfg.AIProvider{
			{ID: "a", Enabled: false},
			{ID: "b", Enabled: true, DefaultModel: "model-b"},
			{ID: "c", Enabled: true, DefaultModel: "model-c"},
		},
	}

	picked := SelectProvider(cfg, nil)
	require.NotNil(t, picked)
	assert.Equal(t, "b", picked.ID)

	picked = SelectProvider(cfg, &appcfg.AIModelAssignment{ProviderID: "c"})
	require.NotNil(t, picked)
	assert.Equal(t, "c", picked.ID)

	picked = SelectProvider(cfg, &appcfg.AIModelAssignment{ProviderID: "c", Model: "override"})
	require.NotNil(t, picked)
	assert.Equal(t, "override", picked.DefaultModel)

	// Disabled providers are never selected, even when assigned.
	picked = SelectProvider(cfg, &appcfg.AIModelAssignment{ProviderID: "a"})
	require.NotNil(t, picked)
	assert.Equal(t, "b", picked.ID)

	assert.Nil(t, SelectProvider(appcfg.AIConfig{}, nil))
}

func TestNormalizeOpenAICompatibleEndpoint(t *testing.T) {
	assert.Equal(t, "https://api.openai.com", normalizeOpenAICompatibleEndpoint(""))
	assert.Equal(t, "https://example.com", normalizeOpenAICompatibleEndpoint("https://example.com/v1/"))
	assert.Equal(t, "https://example.com/api", normalizeOpenAICompatibleEndpoint("https://example.com/api/v1"))
}
