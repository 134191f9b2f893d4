package speech

import (
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pcmBytes(samples ...int16) []byte {
	out := make([]byte, 0, len(samples)*2)
	for _, s := range samples {
		out = binary.LittleEndian.AppendUint16(out, uint16(s))
	}
	return out
}

func TestDecodePCM(t *testing.T) {
	buf, err := DecodePCM(pcmBytes(0, 16384, -16384, 32767))
	require.NoError(t, err)

	assert.Equal(t, 24000, buf.SampleRate)
	assert.Equal(t, 1, buf.Channels)
	assert.Equal(t, 4, buf.FrameCount())

	require.Len(t, buf.Samples, 4)
	assert.InDelta(t, 0.0, buf.Samples[0], 1e-6)
	assert.InDelta(t, 0.5, buf.Samples[1], 1e-6)
	assert.InDelta(t, -0.5, buf.Samples[2], 1e-6)
	assert.InDelta(t, 0.99997, buf.Samples[3], 1e-4)
}

func TestDecodePCMRange(t *testing.T) {
	buf, err := DecodePCM(pcmBytes(-32768, 32767))
	require.NoError(t, err)
	for _, s := range buf.Samples {
		assert.GreaterOrEqual(t, s, float32(-1))
		assert.LessOrEqual(t, s, float32(1))
	}
}

func TestDecodePCMEmpty(t *testing.T) {
	_, err := DecodePCM(nil)
	assert.ErrorIs(t, err, ErrAudioUnavailable)

	_, err = DecodePCM([]byte{0x01})
	assert.ErrorIs(t, err, ErrAudioUnavailable)
}

func TestDecodePCMDropsTrailingByte(t *testing.T) {
	data := append(pcmBytes(100, 200), 0x7f)
	buf, err := DecodePCM(data)
	require.NoError(t, err)
	assert.Equal(t, 2, buf.FrameCount())
}

func TestDecodeBase64PCM(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(pcmBytes(16384))
	buf, err := DecodeBase64PCM(encoded)
	require.NoError(t, err)
	require.Len(t, buf.Samples, 1)
	assert.InDelta(t, 0.5, buf.Samples[0], 1e-6)
}

func TestDecodeBase64PCMInvalid(t *testing.T) {
	_, err := DecodeBase64PCM("!!! not base64 !!!")
	assert.ErrorIs(t, err, ErrAudioUnavailable)

	_, err = DecodeBase64PCM("")
	assert.ErrorIs(t, err, ErrAudioUnavailable)
}

func TestAudioBufferDuration(t *testing.T) {
	buf := &AudioBuffer{SampleRate: 24000, Channels: 1, Samples: make([]float32, 24000)}
	assert.InDelta(t, 1.0, buf.Duration(), 1e-9)
}

func TestEncodeWAVHeader(t *testing.T) {
	buf, err := DecodePCM(pcmBytes(0, 16384, -16384, 32767))
	require.NoError(t, err)

	wav := EncodeWAV(buf)
	require.GreaterOrEqual(t, len(wav), 44)

	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, "data", string(wav[36:40]))

	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[20:22]))  // PCM format
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]))  // mono
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36])) // bits per sample

	dataSize := binary.LittleEndian.Uint32(wav[40:44])
	assert.Equal(t, uint32(8), dataSize)
	assert.Len(t, wav, 44+int(dataSize))
}

func TestNormalizeVoice(t *testing.T) {
	assert.Equal(t, "Kore", NormalizeVoice("", ""))
	assert.Equal(t, "Zephyr", NormalizeVoice("zephyr", ""))
	assert.Equal(t, "Charon", NormalizeVoice("CHARON", "Kore"))
	assert.Equal(t, "Puck", NormalizeVoice("nonsense", "Puck"))
	assert.Equal(t, "Kore", NormalizeVoice("nonsense", "also-bad"))
}
