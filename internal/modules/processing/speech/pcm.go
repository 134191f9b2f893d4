package speech

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

const (
	// Gemini TTS output format: 16-bit little-endian PCM, 24 kHz, mono.
	DefaultSampleRate = 24000
	DefaultChannels   = 1

	bytesPerSample = 2
	pcmScale       = 32768.0
)

// AudioBuffer holds decoded audio as normalized float samples in [-1, 1].
type AudioBuffer struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

// FrameCount returns the number of sample frames.
func (b *AudioBuffer) FrameCount() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Duration returns the buffer length in seconds.
func (b *AudioBuffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.FrameCount()) / float64(b.SampleRate)
}

// DecodePCM converts raw s16le PCM bytes into an AudioBuffer. A trailing
// odd byte is dropped.
func DecodePCM(data []byte) (*AudioBuffer, error) {
	if len(data) < bytesPerSample {
		return nil, fmt.Errorf("%w: empty audio payload", ErrAudioUnavailable)
	}

	n := len(data) / bytesPerSample
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		raw := int16(binary.LittleEndian.Uint16(data[i*bytesPerSample:]))
		samples[i] = float32(raw) / pcmScale
	}

	return &AudioBuffer{
		SampleRate: DefaultSampleRate,
		Channels:   DefaultChannels,
		Samples:    samples,
	}, nil
}

// DecodeBase64PCM decodes a base64-encoded s16le PCM payload.
func DecodeBase64PCM(encoded string) (*AudioBuffer, error) {
	if encoded == "" {
		return nil, fmt.Errorf("%w: empty audio payload", ErrAudioUnavailable)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAudioUnavailable, err)
	}
	return DecodePCM(data)
}

// EncodeWAV renders the buffer as a RIFF/WAV file with 16-bit PCM data.
func EncodeWAV(buf *AudioBuffer) []byte {
	sampleRate := buf.SampleRate
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	channels := buf.Channels
	if channels <= 0 {
		channels = DefaultChannels
	}

	dataSize := len(buf.Samples) * bytesPerSample
	byteRate := sampleRate * channels * bytesPerSample
	blockAlign := channels * bytesPerSample

	out := make([]byte, 0, 44+dataSize)
	out = append(out, 'R', 'I', 'F', 'F')
	out = binary.LittleEndian.AppendUint32(out, uint32(36+dataSize))
	out = append(out, 'W', 'A', 'V', 'E')
	out = append(out, 'f', 'm', 't', ' ')
	out = binary.LittleEndian.AppendUint32(out, 16)
	out = binary.LittleEndian.AppendUint16(out, 1) // PCM
	out = binary.LittleEndian.AppendUint16(out, uint16(channels))
	out = binary.LittleEndian.AppendUint32(out, uint32(sampleRate))
	out = binary.LittleEndian.AppendUint32(out, uint32(byteRate))
	out = binary.LittleEndian.AppendUint16(out, uint16(blockAlign))
	out = binary.LittleEndian.AppendUint16(out, 16) // bits per sample
	out = append(out, 'd', 'a', 't', 'a')
	out = binary.LittleEndian.AppendUint32(out, uint32(dataSize))

	for _, s := range buf.Samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * (pcmScale - 1))
		out = binary.LittleEndian.AppendUint16(out, uint16(v))
	}
	return out
}
