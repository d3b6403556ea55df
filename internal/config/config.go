package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the truthguard API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	Extract   ExtractConfig   `yaml:"extract"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
// Tokens maps bearer token -> user id.
type AuthConfig struct {
	Tokens map[string]string `yaml:"tokens"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
// An empty APIKey disables the knowledge base entirely.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// KnowledgeConfig holds knowledge base retrieval settings.
type KnowledgeConfig struct {
	MatchThreshold  float64 `yaml:"match_threshold"`
	TopK            int     `yaml:"top_k"`
	HNSWM           int     `yaml:"hnsw_m"`
	HNSWEFConstruct int     `yaml:"hnsw_ef_construction"`
}

// AnalyzerConfig holds settings for the external analysis service.
type AnalyzerConfig struct {
	URL        string `yaml:"url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// ExtractConfig holds media content extraction settings.
type ExtractConfig struct {
	OCRFetchTimeoutSec   int     `yaml:"ocr_fetch_timeout_sec"`
	VideoFetchTimeoutSec int     `yaml:"video_fetch_timeout_sec"`
	MinConfidence        float64 `yaml:"min_confidence"`
	FFmpegPath           string  `yaml:"ffmpeg_path"`
	TmpDir               string  `yaml:"tmp_dir"`
	Simulated            bool    `yaml:"simulated"` // use deterministic transcripts instead of Whisper
}

// PipelineConfig holds claim processing settings.
type PipelineConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
}

// StorageConfig holds file storage and key layout settings.
type StorageConfig struct {
	FilesDir      string `yaml:"files_dir"`
	PublicBaseURL string `yaml:"public_base_url"`
	KeyPrefix     string `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 1536
	}
	if c.Knowledge.MatchThreshold <= 0 {
		c.Knowledge.MatchThreshold = 0.7
	}
	if c.Knowledge.TopK <= 0 {
		c.Knowledge.TopK = 5
	}
	if c.Knowledge.HNSWM <= 0 {
		c.Knowledge.HNSWM = 32
	}
	if c.Knowledge.HNSWEFConstruct <= 0 {
		c.Knowledge.HNSWEFConstruct = 400
	}
	if c.Analyzer.TimeoutSec <= 0 {
		c.Analyzer.TimeoutSec = 300
	}
	if c.Extract.OCRFetchTimeoutSec <= 0 {
		c.Extract.OCRFetchTimeoutSec = 30
	}
	if c.Extract.VideoFetchTimeoutSec <= 0 {
		c.Extract.VideoFetchTimeoutSec = 120
	}
	if c.Extract.MinConfidence <= 0 {
		c.Extract.MinConfidence = 0.4
	}
	if c.Extract.FFmpegPath == "" {
		c.Extract.FFmpegPath = "ffmpeg"
	}
	if c.Extract.TmpDir == "" {
		c.Extract.TmpDir = os.TempDir()
	}
	if c.Pipeline.Workers <= 0 {
		c.Pipeline.Workers = 4
	}
	if c.Pipeline.QueueSize <= 0 {
		c.Pipeline.QueueSize = 64
	}
	if c.Storage.FilesDir == "" {
		c.Storage.FilesDir = "data/uploads"
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "truthguard:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Analyzer.URL == "" {
		return fmt.Errorf("analyzer.url is required")
	}
	if c.Knowledge.MatchThreshold > 1 {
		return fmt.Errorf("knowledge.match_threshold must be within (0, 1], got %v", c.Knowledge.MatchThreshold)
	}
	for token, userID := range c.Auth.Tokens {
		if token == "" || userID == "" {
			return fmt.Errorf("auth.tokens entries must have non-empty token and user id")
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
