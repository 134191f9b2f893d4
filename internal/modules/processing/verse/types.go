package verse

// Style selects the rendering voice of the explanation.
type Style string

const (
	// StyleModern is plain contemporary Bengali.
	StyleModern Style = "modern"
	// StyleClassical follows the register of the Carey-era translation.
	StyleClassical Style = "classical"
)

// ParseStyle normalizes a raw style string, falling back to StyleModern.
func ParseStyle(raw string) Style {
	switch Style(raw) {
	case StyleClassical:
		return StyleClassical
	default:
		return StyleModern
	}
}

// Explanation is the fixed triple of commentary a lookup returns. Each part
// may carry a short source citation.
type Explanation struct {
	TheologicalMeaning   string `json:"theologicalMeaning"`
	TheologicalReference string `json:"theologicalReference,omitempty"`
	HistoricalContext    string `json:"historicalContext"`
	HistoricalReference  string `json:"historicalReference,omitempty"`
	PracticalApplication string `json:"practicalApplication"`
	PracticalReference   string `json:"practicalReference,omitempty"`
}

// Verse is a resolved scripture lookup. Tags are user-assigned after save;
// they never come from the model.
type Verse struct {
	ID          string      `json:"id"`
	Reference   string      `json:"reference"`
	Text        string      `json:"text"`
	Prayer      string      `json:"prayer,omitempty"`
	Explanation Explanation `json:"explanation"`
	KeyThemes   []string    `json:"keyThemes"`
	Tags        []string    `json:"tags,omitempty"`
	Style       Style       `json:"style"`
	Timestamp   int64       `json:"timestamp"` // unix milliseconds
}

type lookupDTO struct {
	Query string `json:"query" binding:"required"`
	Style string `json:"style"`
}

type lookupResponse struct {
	Verse  Verse `json:"verse"`
	Cached bool  `json:"cached"`
}

type toggleSaveResponse struct {
	Saved bool    `json:"saved"`
	Items []Verse `json:"items"`
}

type updateTagsDTO struct {
	Tags []string `json:"tags"`
}
