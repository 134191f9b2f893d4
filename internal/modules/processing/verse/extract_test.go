package verse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullExplanation = `{"theologicalMeaning":"ঈশ্বর যত্ন নেন","theologicalReference":"গীত ২৩","historicalContext":"রাখালের জীবন থেকে","historicalReference":"দায়ূদের সময়কাল","practicalApplication":"নির্ভর করতে শেখা","practicalReference":"গীত ২৩:১"}`

func TestExtractVerse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "plain json",
			raw:  `{"reference":"গীতসংহিতা ২৩:১","text":"সদাপ্রভু আমার পালক","explanation":` + fullExplanation + `,"prayer":"আমেন","keyThemes":["আশ্রয়","যত্ন"]}`,
		},
		{
			name: "fenced json",
			raw: "```json\n" +
				`{"reference":"যোহন ৩:১৬","text":"ঈশ্বর জগৎকে এমন প্রেম করলেন","explanation":` + fullExplanation + `,"keyThemes":["প্রেম"]}` +
				"\n```",
		},
		{
			name: "json embedded in prose",
			raw:  `Here is the verse: {"reference":"রোমীয় ৮:২৮","text":"সব কিছু মঙ্গলের জন্য","explanation":` + fullExplanation + `,"keyThemes":[]} hope this helps`,
		},
		{
			name:    "missing reference",
			raw:     `{"text":"কিছু লেখা","explanation":` + fullExplanation + `}`,
			wantErr: true,
		},
		{
			name:    "blank text",
			raw:     `{"reference":"গীত ১:১","text":"   ","explanation":` + fullExplanation + `}`,
			wantErr: true,
		},
		{
			name:    "missing explanation",
			raw:     `{"reference":"গীত ১:১","text":"ধন্য সেই ব্যক্তি"}`,
			wantErr: true,
		},
		{
			name:    "explanation missing historical context",
			raw:     `{"reference":"গীত ১:১","text":"ধন্য","explanation":{"theologicalMeaning":"অর্থ","practicalApplication":"প্রয়োগ"}}`,
			wantErr: true,
		},
		{
			name:    "not json at all",
			raw:     "sorry, I cannot help with that",
			wantErr: true,
		},
		{
			name:    "empty response",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := extractVerse(tt.raw, StyleModern)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrResponseFormat)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, v.Reference)
			assert.NotEmpty(t, v.Text)
			assert.NotEmpty(t, v.Explanation.TheologicalMeaning)
			assert.NotEmpty(t, v.Explanation.HistoricalContext)
			assert.NotEmpty(t, v.Explanation.PracticalApplication)
			assert.Equal(t, StyleModern, v.Style)
		})
	}
}

func TestExtractVerseOptionalFields(t *testing.T) {
	raw := `{"reference":"গীত ১:১","text":"ধন্য","explanation":{"theologicalMeaning":"অর্থ","historicalContext":"পটভূমি","practicalApplication":"প্রয়োগ"},"keyThemes":[" আশা ","","বিশ্বাস"]}`
	v, err := extractVerse(raw, StyleClassical)
	require.NoError(t, err)
	assert.Empty(t, v.Prayer)
	assert.Empty(t, v.Explanation.TheologicalReference)
	assert.Equal(t, []string{"আশা", "বিশ্বাস"}, v.KeyThemes)
	assert.Equal(t, StyleClassical, v.Style)
}

func TestUnmarshalModelJSONStripsFences(t *testing.T) {
	var out map[string]string
	err := unmarshalModelJSON("```JSON\n{\"a\":\"b\"}\n```", &out)
	require.NoError(t, err)
	assert.Equal(t, "b", out["a"])
}

func TestCacheKeyNormalization(t *testing.T) {
	assert.Equal(t, CacheKey("  ভয় লাগছে  ", StyleModern), CacheKey("ভয় লাগছে", StyleModern))
	assert.Equal(t, CacheKey("Fear", StyleModern), CacheKey("fear", StyleModern))
	assert.NotEqual(t, CacheKey("fear", StyleModern), CacheKey("fear", StyleClassical))
}

func TestParseStyle(t *testing.T) {
	assert.Equal(t, StyleModern, ParseStyle(""))
	assert.Equal(t, StyleModern, ParseStyle("unknown"))
	assert.Equal(t, StyleClassical, ParseStyle("classical"))
	assert.Equal(t, StyleModern, ParseStyle("modern"))
}
