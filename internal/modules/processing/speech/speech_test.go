package speech

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appcfg "github.com/sacred-word/core/internal/config"
	"github.com/sacred-word/core/internal/modules/processing/verse"
)

type staticConfig struct {
	cfg appcfg.FullConfig
}

func (s *staticConfig) Get() (*appcfg.FullConfig, error) {
	return &s.cfg, nil
}

func speechConfig() *staticConfig {
	cfg := appcfg.DefaultFullConfig()
	cfg.AI.Providers = []appcfg.AIProvider{
		{ID: "g1", Name: "Gemini", Type: "Gemini", APIKey: "test-key", Enabled: true},
	}
	return &staticConfig{cfg: cfg}
}

type fakeSynth struct {
	data      []byte
	err       error
	lastVoice string
	lastModel string
	calls     int
}

func (f *fakeSynth) Synthesize(ctx context.Context, apiKey, model, voice, text string) ([]byte, error) {
	f.calls++
	f.lastVoice = voice
	f.lastModel = model
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func tone() []byte {
	out := make([]byte, 0, 8)
	for _, s := range []int16{0, 16384, -16384, 32767} {
		out = binary.LittleEndian.AppendUint16(out, uint16(s))
	}
	return out
}

func TestSpeakDecodesAudio(t *testing.T) {
	synth := &fakeSynth{data: tone()}
	svc := NewService(speechConfig(), synth, nil)

	buf, err := svc.Speak(context.Background(), "সদাপ্রভু আমার পালক", "")
	require.NoError(t, err)
	assert.Equal(t, 4, buf.FrameCount())
	assert.Equal(t, 24000, buf.SampleRate)
	assert.Equal(t, "Kore", synth.lastVoice)
	assert.Equal(t, "gemini-2.5-flash-preview-tts", synth.lastModel)
}

func TestSpeakVoiceSelection(t *testing.T) {
	synth := &fakeSynth{data: tone()}
	svc := NewService(speechConfig(), synth, nil)

	_, err := svc.Speak(context.Background(), "পাঠ", "zephyr")
	require.NoError(t, err)
	assert.Equal(t, "Zephyr", synth.lastVoice)

	_, err = svc.Speak(context.Background(), "পাঠ", "unknown-voice")
	require.NoError(t, err)
	assert.Equal(t, "Kore", synth.lastVoice)
}

func TestSpeakNoCaching(t *testing.T) {
	synth := &fakeSynth{data: tone()}
	svc := NewService(speechConfig(), synth, nil)

	_, err := svc.Speak(context.Background(), "একই পাঠ", "")
	require.NoError(t, err)
	_, err = svc.Speak(context.Background(), "একই পাঠ", "")
	require.NoError(t, err)
	assert.Equal(t, 2, synth.calls)
}

func TestSpeakEmptyAudioIsUnavailable(t *testing.T) {
	svc := NewService(speechConfig(), &fakeSynth{data: nil}, nil)

	_, err := svc.Speak(context.Background(), "পাঠ", "")
	assert.ErrorIs(t, err, ErrAudioUnavailable)
}

func TestSpeakSynthFailureIsUnavailable(t *testing.T) {
	svc := NewService(speechConfig(), &fakeSynth{err: ErrAudioUnavailable}, nil)

	_, err := svc.Speak(context.Background(), "পাঠ", "")
	assert.ErrorIs(t, err, ErrAudioUnavailable)
}

func TestSpeakTimeoutIsNetworkError(t *testing.T) {
	svc := NewService(speechConfig(), &fakeSynth{err: context.DeadlineExceeded}, nil)

	_, err := svc.Speak(context.Background(), "পাঠ", "")
	assert.ErrorIs(t, err, verse.ErrNetwork)
}

func TestSpeakDisabled(t *testing.T) {
	cfgSrc := speechConfig()
	cfgSrc.cfg.SpeechOptions.Enable = false
	svc := NewService(cfgSrc, &fakeSynth{data: tone()}, nil)

	_, err := svc.Speak(context.Background(), "পাঠ", "")
	assert.ErrorIs(t, err, ErrSpeechDisabled)
}

func TestSpeakRequiresGeminiProvider(t *testing.T) {
	cfgSrc := speechConfig()
	cfgSrc.cfg.AI.Providers = []appcfg.AIProvider{
		{ID: "o1", Type: "OpenAI", APIKey: "k", Enabled: true},
	}
	svc := NewService(cfgSrc, &fakeSynth{data: tone()}, nil)

	_, err := svc.Speak(context.Background(), "পাঠ", "")
	assert.ErrorIs(t, err, ErrSpeechDisabled)
}

func TestSpeakEmptyText(t *testing.T) {
	svc := NewService(speechConfig(), &fakeSynth{data: tone()}, nil)

	_, err := svc.Speak(context.Background(), "   ", "")
	assert.Error(t, err)
}
