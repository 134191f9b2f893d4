package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when -config is not given.
	DefaultConfigPath = "config.yml"

	defaultPort    = 2388
	defaultCharset = "utf8mb4"
)

// Load reads, parses and normalizes the YAML config file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw rawAppConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := normalize(&raw)
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database is not configured (set dsn or database.*)")
	}
	return cfg, nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development")
}

func normalize(raw *rawAppConfig) *AppConfig {
	cfg := &AppConfig{
		Port:           raw.Port,
		DSN:            firstNonEmpty(raw.DSN, raw.Database.DSN, raw.DatabaseURL),
		RedisURL:       raw.RedisURL,
		Database:       raw.Database,
		Env:            firstNonEmpty(raw.Env, raw.NodeEnv, "production"),
		Paths:          raw.Paths,
		AllowedOrigins: raw.AllowedOrigins,
		JWTSecret:      raw.JWTSecret,
		Timezone:       firstNonEmpty(raw.Timezone, raw.TZ),
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = raw.CORSOrigins
	}
	if cfg.Paths.Logs == "" {
		cfg.Paths.Logs = raw.LogDir
	}
	if cfg.Paths.Exports == "" {
		cfg.Paths.Exports = raw.ExportDir
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = "redis://localhost:6379/0"
	}

	if cfg.DSN == "" {
		cfg.DSN = buildDSN(&cfg.Database)
	}
	return cfg
}

func buildDSN(db *DatabaseRuntimeConfig) string {
	if db.Host == "" || db.Name == "" {
		return ""
	}
	port := db.Port
	if port == 0 {
		port = 3306
	}
	charset := db.Charset
	if charset == "" {
		charset = defaultCharset
	}
	user := db.User
	if user == "" {
		user = "root"
	}
	auth := user
	if db.Password != "" {
		auth += ":" + db.Password
	}
	return fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		auth, db.Host, port, db.Name, charset)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
