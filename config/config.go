package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the legal QA service.
type Config struct {
	Chroma    ChromaConfig    `yaml:"chroma"`
	Resources ResourcesConfig `yaml:"resources"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ChromaConfig locates the vector store. Persistence is owned by the Chroma
// server; this side only needs its address and a collection name.
type ChromaConfig struct {
	URL        string `yaml:"url"`
	Collection string `yaml:"collection"`
}

// ResourcesConfig locates the ingestion inputs.
type ResourcesConfig struct {
	Dir    string `yaml:"dir"`    // directory scanned for *.txt files
	Bundle string `yaml:"bundle"` // structured bundle filename within Dir
	Ledger string `yaml:"ledger"` // ingest ledger path ("" = <dir>/.legalrag/ingest.db)
}

// EmbeddingConfig selects the embedding function attached to the collection.
// Vectors stay opaque to this repository.
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "ollama"
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
}

// LLMConfig selects the OpenAI-compatible chat endpoint used for answers.
type LLMConfig struct {
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	APIKeyEnv      string `yaml:"api_key_env"` // environment variable holding the API key
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK int `yaml:"top_k"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int  `yaml:"port"`
	CORS            bool `yaml:"cors"`
	ShutdownSeconds int  `yaml:"shutdown_seconds"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Chroma: ChromaConfig{
			URL:        "http://localhost:8000",
			Collection: "legal_documents",
		},
		Resources: ResourcesConfig{
			Dir:    "./resources",
			Bundle: "legal_dataset.json",
		},
		Embedding: EmbeddingConfig{
			Provider: "ollama",
			BaseURL:  "http://localhost:11434",
			Model:    "nomic-embed-text",
		},
		LLM: LLMConfig{
			BaseURL:        "http://localhost:11434/v1",
			Model:          "deepseek-r1:8b",
			APIKeyEnv:      "LEGALRAG_LLM_API_KEY",
			TimeoutSeconds: 120,
		},
		Retrieve: RetrieveConfig{
			TopK: 5,
		},
		Server: ServerConfig{
			Port:            5000,
			CORS:            true,
			ShutdownSeconds: 15,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, overlaying defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for legalrag.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "legalrag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".legalrag", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BundlePath returns the full path of the structured bundle file.
func (c *Config) BundlePath() string {
	return filepath.Join(c.Resources.Dir, c.Resources.Bundle)
}

// LedgerPath returns the ingest ledger path, defaulting under the resources dir.
func (c *Config) LedgerPath() string {
	if c.Resources.Ledger != "" {
		return c.Resources.Ledger
	}
	return filepath.Join(c.Resources.Dir, ".legalrag", "ingest.db")
}
