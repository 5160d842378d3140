package model

import "time"

// Config is the complete application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	LLM    LLMConfig    `yaml:"llm"`
	Policy PolicyConfig `yaml:"policy"`
	Cache  CacheConfig  `yaml:"cache"`
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
}

// LLMConfig configures the reasoning capability. The client is built once
// at startup and injected into each component; it is never mutated at runtime.
type LLMConfig struct {
	// Provider name: "openai" or an OpenAI-compatible endpoint via BaseURL
	Provider string `yaml:"provider"`

	// Model used for extraction and the adjudication agent
	Model string `yaml:"model"`

	// VisionModel used for image-to-text normalization (defaults to Model)
	VisionModel string `yaml:"vision_model"`

	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`

	// Timeout per API request, seconds
	Timeout int `yaml:"timeout"`

	MaxTokens int `yaml:"max_tokens"`

	// MaxToolRounds bounds the agent's tool-calling loop
	MaxToolRounds int `yaml:"max_tool_rounds"`

	// Outbound rate limiting (0 disables)
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// PolicyConfig configures the policy clause store and corpus ingestion.
type PolicyConfig struct {
	// IndexPath is the SQLite database holding the clause index
	IndexPath string `yaml:"index_path"`

	// CorpusDir is the directory of policy documents to ingest
	CorpusDir string `yaml:"corpus_dir"`

	// MaxPassages caps how many passages a retrieval returns
	MaxPassages int `yaml:"max_passages"`

	// IngestWorkers bounds concurrent document ingestion
	IngestWorkers int `yaml:"ingest_workers"`
}

// CacheConfig controls the retrieval cache. Disabled by default: policy
// queries are independent and idempotent, caching is an optimization only.
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8000,
			AllowedOrigins: []string{"*"},
			MaxUploadBytes: 20_000_000,
		},
		LLM: LLMConfig{
			Provider:          "openai",
			Model:             "gpt-4o-mini",
			VisionModel:       "gpt-4o",
			Timeout:           60,
			MaxTokens:         1500,
			MaxToolRounds:     6,
			RequestsPerSecond: 0,
			Burst:             5,
		},
		Policy: PolicyConfig{
			IndexPath:     "policy.db",
			CorpusDir:     "policies",
			MaxPassages:   4,
			IngestWorkers: 4,
		},
		Cache: CacheConfig{
			Enabled:         false,
			TTL:             5 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
	}
}
