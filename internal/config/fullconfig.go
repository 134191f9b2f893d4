package config

// FullConfig is the runtime configuration persisted as JSON in the options
// table and editable through the admin API.
type FullConfig struct {
	App           AppOptions    `json:"app"`
	AI            AIConfig      `json:"ai"`
	SpeechOptions SpeechOptions `json:"speech_options"`
	BackupOptions BackupOptions `json:"backup_options"`
	S3Options     S3Options     `json:"s3_options"`
}

type AppOptions struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	WebURL      string `json:"web_url"`
}

type AIConfig struct {
	Providers             []AIProvider       `json:"providers"`
	VerseModel            *AIModelAssignment `json:"verse_model,omitempty"`
	EnableLookup          bool               `json:"enable_lookup"`
	DefaultStyle          string             `json:"default_style"` // modern | classical
	RequestTimeoutSeconds int                `json:"request_timeout_seconds"`
}

type AIProvider struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"` // Gemini | OpenAI | OpenAI-Compatible | Anthropic
	APIKey       string `json:"api_key"`
	Endpoint     string `json:"endpoint,omitempty"`
	DefaultModel string `json:"default_model"`
	Enabled      bool   `json:"enabled"`
}

type AIModelAssignment struct {
	ProviderID string `json:"provider_id"`
	Model      string `json:"model"`
}

type SpeechOptions struct {
	Enable       bool   `json:"enable"`
	Model        string `json:"model"`
	DefaultVoice string `json:"default_voice"`
}

type BackupOptions struct {
	Enable bool   `json:"enable"`
	Path   string `json:"path"`
}

type S3Options struct {
	Endpoint        string `json:"endpoint"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	Bucket          string `json:"bucket"`
	Region          string `json:"region"`
}

// DefaultFullConfig returns the config used before the owner saves anything.
func DefaultFullConfig() FullConfig {
	return FullConfig{
		App: AppOptions{
			Title: "Sacred Word",
		},
		AI: AIConfig{
			Providers:             []AIProvider{},
			EnableLookup:          true,
			DefaultStyle:          "modern",
			RequestTimeoutSeconds: 30,
		},
		SpeechOptions: SpeechOptions{
			Enable:       true,
			Model:        "gemini-2.5-flash-preview-tts",
			DefaultVoice: "Kore",
		},
	}
}
