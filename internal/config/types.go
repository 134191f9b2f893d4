package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	DSN            string                `yaml:"dsn"` // MySQL DSN
	RedisURL       string                `yaml:"redis_url"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Env            string                `yaml:"env"` // "development" | "production"
	Paths          RuntimePathsConfig    `yaml:"paths"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	JWTSecret      string                `yaml:"jwt_secret"`
	Timezone       string                `yaml:"timezone"`
}

type DatabaseRuntimeConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
}

type RuntimePathsConfig struct {
	Logs    string `yaml:"logs"`
	Exports string `yaml:"exports"`
}

// rawAppConfig tolerates the key aliases that have appeared in deployment
// files over time; Load normalizes it into AppConfig.
type rawAppConfig struct {
	Port           int                   `yaml:"port"`
	DSN            string                `yaml:"dsn"`
	DatabaseURL    string                `yaml:"database_url"`
	RedisURL       string                `yaml:"redis_url"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Env            string                `yaml:"env"`
	NodeEnv        string                `yaml:"node_env"`
	Paths          RuntimePathsConfig    `yaml:"paths"`
	LogDir         string                `yaml:"log_dir"`
	ExportDir      string                `yaml:"export_dir"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	CORSOrigins    []string              `yaml:"cors_allowed_origins"`
	JWTSecret      string                `yaml:"jwt_secret"`
	Timezone       string                `yaml:"timezone"`
	TZ             string                `yaml:"tz"`
}
