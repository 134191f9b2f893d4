package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appcfg "github.com/sacred-word/core/internal/config"
	"github.com/sacred-word/core/internal/modules/processing/verse"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

var (
	// ErrAudioUnavailable means the provider answered without audio data.
	ErrAudioUnavailable = errors.New("audio unavailable")
	// ErrSpeechDisabled is returned when synthesis is switched off or no
	// Gemini provider is configured.
	ErrSpeechDisabled = errors.New("speech disabled")
)

const (
	MsgAudioUnavailable = "অডিও পাওয়া যাচ্ছে না।"
	MsgSpeechDisabled   = "অডিও সুবিধাটি এখন বন্ধ আছে।"
)

const (
	defaultSpeechModel   = "gemini-2.5-flash-preview-tts"
	defaultVoice         = "Kore"
	defaultSpeechTimeout = 30 * time.Second
	maxSpeechTextRunes   = 2000
)

// Voices supported by the synthesis endpoint.
var Voices = []string{"Kore", "Zephyr", "Charon", "Puck"}

// NormalizeVoice maps a requested voice onto the supported set, falling
// back to the given default.
func NormalizeVoice(raw, fallback string) string {
	requested := strings.TrimSpace(raw)
	for _, v := range Voices {
		if strings.EqualFold(v, requested) {
			return v
		}
	}
	for _, v := range Voices {
		if strings.EqualFold(v, fallback) {
			return v
		}
	}
	return defaultVoice
}

// Synthesizer produces raw s16le PCM audio for a text.
type Synthesizer interface {
	Synthesize(ctx context.Context, apiKey, model, voice, text string) ([]byte, error)
}

// GeminiSynthesizer calls the Gemini TTS API.
type GeminiSynthesizer struct{}

func (GeminiSynthesizer) Synthesize(ctx context.Context, apiKey, model, voice, text string) ([]byte, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(text), cfg)
	if err != nil {
		return nil, err
	}

	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, ErrAudioUnavailable
}

// ConfigSource provides the current runtime configuration.
type ConfigSource interface {
	Get() (*appcfg.FullConfig, error)
}

// Service synthesizes verse audio. Responses are never cached; every call
// reaches the provider.
type Service struct {
	cfgSvc ConfigSource
	synth  Synthesizer
	log    *zap.Logger
}

func NewService(cfgSvc ConfigSource, synth Synthesizer, log *zap.Logger) *Service {
	if synth == nil {
		synth = GeminiSynthesizer{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{cfgSvc: cfgSvc, synth: synth, log: log}
}

// Speak synthesizes the text with the requested voice and returns the
// decoded audio buffer.
func (s *Service) Speak(ctx context.Context, text, voiceRaw string) (*AudioBuffer, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}
	if runes := []rune(text); len(runes) > maxSpeechTextRunes {
		text = string(runes[:maxSpeechTextRunes])
	}

	cfg, err := s.cfgSvc.Get()
	if err != nil {
		return nil, err
	}
	if !cfg.SpeechOptions.Enable {
		return nil, ErrSpeechDisabled
	}

	provider := selectGeminiProvider(cfg.AI)
	if provider == nil {
		return nil, ErrSpeechDisabled
	}

	model := strings.TrimSpace(cfg.SpeechOptions.Model)
	if model == "" {
		model = defaultSpeechModel
	}
	voice := NormalizeVoice(voiceRaw, cfg.SpeechOptions.DefaultVoice)

	timeout := defaultSpeechTimeout
	if cfg.AI.RequestTimeoutSeconds > 0 {
		timeout = time.Duration(cfg.AI.RequestTimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	data, err := s.synth.Synthesize(ctx, strings.TrimSpace(provider.APIKey), model, voice, text)
	if err != nil {
		if errors.Is(err, ErrAudioUnavailable) {
			return nil, err
		}
		s.log.Warn("speech synthesis failed", zap.String("voice", voice), zap.Error(err))
		return nil, classifySpeechError(err)
	}
	if len(data) == 0 {
		return nil, ErrAudioUnavailable
	}

	return DecodePCM(data)
}

// Transport failures share the lookup error taxonomy.
func classifySpeechError(err error) error {
	if errors.Is(err, verse.ErrAuthentication) || errors.Is(err, verse.ErrNetwork) {
		return err
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 401 || apiErr.Code == 403 {
			return fmt.Errorf("%w: %v", verse.ErrAuthentication, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", verse.ErrNetwork, err)
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unauthorized") || strings.Contains(msg, "api key") || strings.Contains(msg, "permission denied") {
		return fmt.Errorf("%w: %v", verse.ErrAuthentication, err)
	}
	return fmt.Errorf("%w: %v", verse.ErrNetwork, err)
}

func selectGeminiProvider(cfg appcfg.AIConfig) *appcfg.AIProvider {
	for _, provider := range cfg.Providers {
		if !provider.Enabled {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(provider.Type)) {
		case "gemini", "google":
			p := provider
			return &p
		}
	}
	return nil
}
