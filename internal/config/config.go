// Package config loads and validates application configuration from an
// optional YAML file and environment variables. Environment variables win.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store kinds selected by DatabaseURL.
const (
	StoreText     = "text"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config holds all configuration values for the server and the CLI.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `yaml:"port"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	CORSOrigins []string `yaml:"cors_origins"`

	// DatabaseURL selects the word store: postgres://… uses Postgres,
	// sqlite://path uses a SQLite file, empty uses the text file VocabFile.
	DatabaseURL string `yaml:"database_url"`

	// DataDir is the directory relative paths below are resolved against.
	DataDir string `yaml:"data_dir"`

	VocabFile     string `yaml:"vocab_file"`
	RepeatLogFile string `yaml:"repeat_log_file"`

	// ReadOnly rejects appends to the word store.
	ReadOnly bool `yaml:"read_only"`

	// WatchVocab reloads the vocabulary when the text store changes on disk.
	WatchVocab bool `yaml:"watch_vocab"`

	// BackupDir is where the directory drive keeps uploaded copies.
	BackupDir string `yaml:"backup_dir"`

	// BackupPatterns are doublestar globs, relative to DataDir, of the files to back up.
	BackupPatterns []string `yaml:"backup_patterns"`

	CorpusURL   string `yaml:"corpus_url"`
	SynonymsURL string `yaml:"synonyms_url"`

	// QuizChoices is the number of answer options per question.
	QuizChoices int `yaml:"quiz_choices"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:           "8080",
		LogLevel:       "info",
		CORSOrigins:    []string{"http://localhost:5173"},
		DataDir:        ".",
		VocabFile:      "vocabulary.txt",
		RepeatLogFile:  "repeat_log.json",
		WatchVocab:     true,
		BackupDir:      "backup",
		BackupPatterns: []string{"*.txt", "*.json", "*.db"},
		QuizChoices:    6,
		MaxBodyBytes:   1 << 20,
	}
}

// Load reads configuration from environment variables over the defaults.
func Load() (Config, error) {
	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// LoadFile reads the YAML file at path over the defaults, then applies
// environment variables on top. Keys missing from the file keep their defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config.LoadFile: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config.LoadFile: parse %s: %w", path, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate reports every invalid value in one error.
func (c Config) Validate() error {
	var problems []string
	if _, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("port %q is not a number", c.Port))
	}
	if c.QuizChoices < 2 {
		problems = append(problems, fmt.Sprintf("quiz_choices must be at least 2, got %d", c.QuizChoices))
	}
	if c.MaxBodyBytes <= 0 {
		problems = append(problems, "max_body_bytes must be positive")
	}
	if _, _, err := c.Store(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.textStore() && c.VocabFile == "" {
		problems = append(problems, "vocab_file is required without database_url")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Store returns the store kind and its data source: the Postgres URL, the
// SQLite file path or the vocabulary text file.
func (c Config) Store() (kind, source string, err error) {
	switch {
	case c.DatabaseURL == "":
		return StoreText, c.Path(c.VocabFile), nil
	case strings.HasPrefix(c.DatabaseURL, "postgres://"), strings.HasPrefix(c.DatabaseURL, "postgresql://"):
		return StorePostgres, c.DatabaseURL, nil
	case strings.HasPrefix(c.DatabaseURL, "sqlite://"):
		p := strings.TrimPrefix(c.DatabaseURL, "sqlite://")
		if p == "" {
			return "", "", fmt.Errorf("database_url %q has no file path", c.DatabaseURL)
		}
		if p == ":memory:" {
			return StoreSQLite, p, nil
		}
		return StoreSQLite, c.Path(p), nil
	default:
		return "", "", fmt.Errorf("database_url %q must start with postgres:// or sqlite://", c.DatabaseURL)
	}
}

// textStore reports whether the text file is the word store.
func (c Config) textStore() bool { return c.DatabaseURL == "" }

// Path resolves p against DataDir unless it is absolute.
func (c Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitCSV(v)
	}
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.VocabFile = getEnv("VOCAB_FILE", c.VocabFile)
	c.RepeatLogFile = getEnv("REPEAT_LOG_FILE", c.RepeatLogFile)
	c.BackupDir = getEnv("BACKUP_DIR", c.BackupDir)
	if v := os.Getenv("BACKUP_PATTERNS"); v != "" {
		c.BackupPatterns = splitCSV(v)
	}
	c.CorpusURL = getEnv("CORPUS_URL", c.CorpusURL)
	c.SynonymsURL = getEnv("SYNONYMS_URL", c.SynonymsURL)

	var err error
	if c.ReadOnly, err = getBool("VOCAB_READ_ONLY", c.ReadOnly); err != nil {
		return err
	}
	if c.WatchVocab, err = getBool("WATCH_VOCAB", c.WatchVocab); err != nil {
		return err
	}
	if v := os.Getenv("QUIZ_CHOICES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QUIZ_CHOICES: %q is not a number", v)
		}
		c.QuizChoices = n
	}
	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_BODY_BYTES: %q is not a number", v)
		}
		c.MaxBodyBytes = n
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %q is not a boolean", key, v)
	}
	return b, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
