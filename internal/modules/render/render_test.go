package render

import (
	"testing"

	"github.com/sacred-word/core/internal/modules/processing/verse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleVerse() verse.Verse {
	return verse.Verse{
		ID:        "abc123def",
		Reference: "যোহন ৩:১৬",
		Text:      "কারণ ঈশ্বর জগৎকে এমন প্রেম করলেন।",
		Explanation: verse.Explanation{
			TheologicalMeaning:   "ঈশ্বরের প্রেমের কথা।",
			TheologicalReference: "যোহন ৩",
			HistoricalContext:    "নীকদীমের সাথে কথোপকথন।",
			PracticalApplication: "প্রেমে সাড়া দেওয়া।",
		},
		Prayer:    "হে প্রভু, ধন্যবাদ।",
		KeyThemes: []string{"প্রেম", "অনন্ত জীবন"},
	}
}

func TestBuildMarkdown(t *testing.T) {
	md := BuildMarkdown(sampleVerse())
	assert.Contains(t, md, "# যোহন ৩:১৬")
	assert.Contains(t, md, "> কারণ ঈশ্বর জগৎকে এমন প্রেম করলেন।")
	assert.Contains(t, md, "## ব্যাখ্যা")
	assert.Contains(t, md, "সূত্র: যোহন ৩")
	assert.Contains(t, md, "## পটভূমি")
	assert.Contains(t, md, "*হে প্রভু, ধন্যবাদ।*")
	assert.Contains(t, md, "`প্রেম` `অনন্ত জীবন`")
}

func TestBuildMarkdownWithoutPrayer(t *testing.T) {
	v := sampleVerse()
	v.Prayer = ""
	v.KeyThemes = nil
	md := BuildMarkdown(v)
	assert.NotContains(t, md, "*হে")
	assert.NotContains(t, md, "`")
}

func TestRenderHTML(t *testing.T) {
	page, err := RenderHTML(sampleVerse(), "Sacred Word")
	require.NoError(t, err)
	assert.Contains(t, page, "<!DOCTYPE html>")
	assert.Contains(t, page, "<blockquote>")
	assert.Contains(t, page, "যোহন ৩:১৬")
	assert.Contains(t, page, "<title>যোহন ৩:১৬ · Sacred Word</title>")
}

func TestRenderHTMLDefaultTitle(t *testing.T) {
	page, err := RenderHTML(sampleVerse(), "")
	require.NoError(t, err)
	assert.Contains(t, page, "Sacred Word")
}
