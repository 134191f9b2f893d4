package verse

import (
	"encoding/json"
	"fmt"
	"strings"
)

// unmarshalModelJSON decodes a model response that may arrive wrapped in
// markdown fences or surrounded by prose. Tries a direct parse first, then
// the outermost brace-delimited substring.
func unmarshalModelJSON(raw string, out interface{}) error {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), out); err == nil {
			return nil
		}
	}

	return fmt.Errorf("%w: not valid JSON", ErrResponseFormat)
}

type versePayload struct {
	Reference   string      `json:"reference"`
	Text        string      `json:"text"`
	Explanation Explanation `json:"explanation"`
	Prayer      string      `json:"prayer"`
	KeyThemes   []string    `json:"keyThemes"`
}

// extractVerse parses and validates a raw model response. Reference, text
// and the three explanation parts must all be non-blank; the per-part source
// citations and the prayer are optional.
func extractVerse(raw string, style Style) (*Verse, error) {
	var payload versePayload
	if err := unmarshalModelJSON(raw, &payload); err != nil {
		return nil, err
	}

	reference := strings.TrimSpace(payload.Reference)
	text := strings.TrimSpace(payload.Text)
	expl := Explanation{
		TheologicalMeaning:   strings.TrimSpace(payload.Explanation.TheologicalMeaning),
		TheologicalReference: strings.TrimSpace(payload.Explanation.TheologicalReference),
		HistoricalContext:    strings.TrimSpace(payload.Explanation.HistoricalContext),
		HistoricalReference:  strings.TrimSpace(payload.Explanation.HistoricalReference),
		PracticalApplication: strings.TrimSpace(payload.Explanation.PracticalApplication),
		PracticalReference:   strings.TrimSpace(payload.Explanation.PracticalReference),
	}
	if reference == "" || text == "" {
		return nil, fmt.Errorf("%w: missing required field", ErrResponseFormat)
	}
	if expl.TheologicalMeaning == "" || expl.HistoricalContext == "" || expl.PracticalApplication == "" {
		return nil, fmt.Errorf("%w: incomplete explanation", ErrResponseFormat)
	}

	themes := make([]string, 0, len(payload.KeyThemes))
	for _, theme := range payload.KeyThemes {
		if t := strings.TrimSpace(theme); t != "" {
			themes = append(themes, t)
		}
	}

	return &Verse{
		Reference:   reference,
		Text:        text,
		Explanation: expl,
		Prayer:      strings.TrimSpace(payload.Prayer),
		KeyThemes:   themes,
		Style:       style,
	}, nil
}
