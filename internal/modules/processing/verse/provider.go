package verse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	neturl "net/url"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	appcfg "github.com/sacred-word/core/internal/config"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"
	"google.golang.org/genai"
)

// SchemaField describes one property of the expected response object.
// Type is "string", "array" (of strings) or "object"; Fields holds the
// nested properties of an object.
type SchemaField struct {
	Name     string
	Type     string
	Required bool
	Fields   []SchemaField
}

// RequestDescriptor is a provider-neutral generation request.
type RequestDescriptor struct {
	Model             string
	SystemInstruction string
	UserContent       string
	Schema            []SchemaField
	MaxOutputTokens   int
	JSONResponse      bool
}

// Transport sends a generation request to a configured provider and returns
// the raw text response.
type Transport interface {
	Generate(ctx context.Context, provider *appcfg.AIProvider, req RequestDescriptor) (string, error)
}

// HTTPTransport dispatches requests to the concrete provider SDK based on
// the provider type string.
type HTTPTransport struct {
	// Client overrides the HTTP client used for openai-compatible calls.
	Client *http.Client
}

func NewTransport() *HTTPTransport {
	return &HTTPTransport{}
}

func normalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t
}

func (t *HTTPTransport) Generate(ctx context.Context, provider *appcfg.AIProvider, req RequestDescriptor) (string, error) {
	if provider == nil {
		return "", ErrLookupDisabled
	}
	if strings.TrimSpace(provider.APIKey) == "" {
		return "", fmt.Errorf("%w: api key is empty", ErrAuthentication)
	}

	switch pt := normalizeProviderType(provider.Type); pt {
	case "gemini", "google":
		return t.callGemini(ctx, provider, req)
	case "openai-compatible", "openaicompatible":
		return t.callOpenAICompatible(ctx, provider, req)
	default:
		return t.callLanguageModel(ctx, provider, req)
	}
}

func (t *HTTPTransport) callGemini(ctx context.Context, provider *appcfg.AIProvider, req RequestDescriptor) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(provider.APIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", classifyProviderError(err)
	}

	model := resolveModel(provider, req, "gemini-2.5-flash")
	cfg := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxOutputTokens)
	}
	if req.JSONResponse {
		cfg.ResponseMIMEType = "application/json"
		if len(req.Schema) > 0 {
			cfg.ResponseSchema = buildGenaiSchema(req.Schema)
		}
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(req.UserContent), cfg)
	if err != nil {
		return "", classifyProviderError(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response", ErrResponseFormat)
	}
	return text, nil
}

func buildGenaiSchema(fields []SchemaField) *genai.Schema {
	props := make(map[string]*genai.Schema, len(fields))
	required := make([]string, 0, len(fields))
	for _, f := range fields {
		props[f.Name] = genaiFieldSchema(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   required,
	}
}

func genaiFieldSchema(f SchemaField) *genai.Schema {
	switch f.Type {
	case "object":
		return buildGenaiSchema(f.Fields)
	case "array":
		return &genai.Schema{
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		}
	default:
		return &genai.Schema{Type: genai.TypeString}
	}
}

func (t *HTTPTransport) callOpenAICompatible(ctx context.Context, provider *appcfg.AIProvider, req RequestDescriptor) (string, error) {
	endpoint := normalizeOpenAICompatibleEndpoint(provider.Endpoint)
	model := resolveModel(provider, req, "gpt-4o-mini")

	messages := make([]map[string]string, 0, 2)
	if strings.TrimSpace(req.SystemInstruction) != "" {
		messages = append(messages, map[string]string{
			"role":    "system",
			"content": req.SystemInstruction,
		})
	}
	messages = append(messages, map[string]string{
		"role":    "user",
		"content": req.UserContent,
	})

	payload := map[string]interface{}{
		"model":    model,
		"messages": messages,
	}
	if req.MaxOutputTokens > 0 {
		payload["max_tokens"] = req.MaxOutputTokens
	}
	if req.JSONResponse {
		payload["response_format"] = map[string]string{"type": "json_object"}
	}
	body, _ := json.Marshal(payload)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+strings.TrimSpace(provider.APIKey))
	httpReq.Header.Set("Content-Type", "application/json")

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", classifyProviderError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyProviderError(err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("%w: status %d", ErrAuthentication, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("%w: status %d: %s", ErrNetwork, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrResponseFormat, err)
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return "", fmt.Errorf("%w: %s", ErrNetwork, result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrResponseFormat)
	}
	return result.Choices[0].Message.Content, nil
}

func (t *HTTPTransport) callLanguageModel(ctx context.Context, provider *appcfg.AIProvider, req RequestDescriptor) (string, error) {
	model, err := buildLanguageModel(provider, req)
	if err != nil {
		return "", err
	}

	resp, err := jetai.GenerateText(
		ctx,
		buildPromptMessages(req.SystemInstruction, req.UserContent),
		jetai.WithModel(model),
		jetai.WithMaxOutputTokens(req.MaxOutputTokens),
	)
	if err != nil {
		return "", classifyProviderError(err)
	}
	return textFromResponse(resp)
}

func buildPromptMessages(systemPrompt, prompt string) []jetapi.Message {
	messages := make([]jetapi.Message, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, &jetapi.SystemMessage{Content: systemPrompt})
	}
	messages = append(messages, &jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)})
	return messages
}

func textFromResponse(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: empty response", ErrResponseFormat)
	}

	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}

	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response", ErrResponseFormat)
	}
	return text, nil
}

func buildLanguageModel(provider *appcfg.AIProvider, req RequestDescriptor) (jetapi.LanguageModel, error) {
	apiKey := strings.TrimSpace(provider.APIKey)
	endpoint := strings.TrimSpace(provider.Endpoint)

	if normalizeProviderType(provider.Type) == "anthropic" {
		modelID := resolveModel(provider, req, "claude-haiku-4-5-20251001")
		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		}
		if endpoint != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
		}
		client := anthropicclient.NewClient(opts...)
		return jetanthropic.NewLanguageModel(modelID, jetanthropic.WithClient(client)), nil
	}

	modelID := resolveModel(provider, req, "gpt-4o-mini")
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	if normalized := normalizeOpenAIBaseURL(endpoint); normalized != "" {
		opts = append(opts, openaioption.WithBaseURL(normalized))
	}
	client := openaiclient.NewClient(opts...)
	return jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client)), nil
}

func resolveModel(provider *appcfg.AIProvider, req RequestDescriptor, fallback string) string {
	if m := strings.TrimSpace(req.Model); m != "" {
		return m
	}
	if m := strings.TrimSpace(provider.DefaultModel); m != "" {
		return m
	}
	return fallback
}

// classifyProviderError maps transport-level failures onto the lookup error
// taxonomy. Credential rejections become ErrAuthentication, timeouts and
// connection failures become ErrNetwork.
func classifyProviderError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrAuthentication) || errors.Is(err, ErrNetwork) || errors.Is(err, ErrResponseFormat) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
			return fmt.Errorf("%w: %v", ErrAuthentication, err)
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401"), strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "403"), strings.Contains(msg, "forbidden"),
		strings.Contains(msg, "invalid api key"), strings.Contains(msg, "permission denied"):
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	default:
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
}

// SelectProvider picks the provider assigned to verse lookup, or the first
// enabled one.
func SelectProvider(cfg appcfg.AIConfig, assignment *appcfg.AIModelAssignment) *appcfg.AIProvider {
	var providerID string
	var overrideModel string
	if assignment != nil {
		providerID = strings.TrimSpace(assignment.ProviderID)
		overrideModel = strings.TrimSpace(assignment.Model)
	}

	pick := func(provider appcfg.AIProvider) *appcfg.AIProvider {
		selected := provider
		if overrideModel != "" {
			selected.DefaultModel = overrideModel
		}
		return &selected
	}

	if providerID != "" {
		for _, provider := range cfg.Providers {
			if !provider.Enabled {
				continue
			}
			if strings.TrimSpace(provider.ID) != providerID {
				continue
			}
			return pick(provider)
		}
	}

	for _, provider := range cfg.Providers {
		if !provider.Enabled {
			continue
		}
		return pick(provider)
	}

	return nil
}

func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		if path == "" {
			path = "/v1"
		} else {
			path += "/v1"
		}
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

func normalizeOpenAICompatibleEndpoint(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "https://api.openai.com"
	}

	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		cleaned := strings.TrimRight(base, "/")
		cleaned = strings.TrimSuffix(cleaned, "/v1")
		return cleaned
	}

	path := strings.TrimRight(parsed.Path, "/")
	path = strings.TrimSuffix(path, "/v1")
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}
