// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

// Package config loads service configuration. Configuration is
// environment-first: a .env file is loaded if present, then viper reads
// the environment (WEBRAG_-prefixed keys, with the bare variable names
// QDRANT_URL, QDRANT_API_KEY, GEMINI_API_KEY, COLLECTION_NAME, PORT and
// friends bound as aliases), then an optional config file fills the rest.
package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	wragerr "github.com/webrag-dev/webrag/pkg/errors"
)

// Config is the top-level Webrag configuration.
type Config struct {
	Server     ServerConfig    `mapstructure:"server"`
	Qdrant     QdrantConfig    `mapstructure:"qdrant"`
	Gemini     GeminiConfig    `mapstructure:"gemini"`
	OpenAI     OpenAIConfig    `mapstructure:"openai"`
	Embedding  EmbeddingConfig `mapstructure:"embedding"`
	Collection string          `mapstructure:"collection"`
	Chunk      ChunkConfig     `mapstructure:"chunk"`
	Search     SearchConfig    `mapstructure:"search"`
}

// ServerConfig controls how the service listens for connections.
type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	CORSOrigins string `mapstructure:"cors_origins"`
}

// ListenAddr returns the host:port the server binds to.
func (s ServerConfig) ListenAddr() string {
	return net.JoinHostPort(s.Host, fmt.Sprintf("%d", s.Port))
}

// Origins splits the comma-separated CORS allow-list.
func (s ServerConfig) Origins() []string {
	var origins []string
	for _, o := range strings.Split(s.CORSOrigins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// QdrantConfig holds credentials and endpoint for the vector store.
type QdrantConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// GeminiConfig holds the Google API key and generation model.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OpenAIConfig holds the OpenAI API key, used only when the openai
// embedding provider is selected.
type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// EmbeddingConfig selects the embedding adapter. The same adapter serves
// ingestion and querying; switching providers invalidates stored vectors.
type EmbeddingConfig struct {
	Provider  string `mapstructure:"provider"`
	Model     string `mapstructure:"model"`
	OllamaURL string `mapstructure:"ollama_url"`
}

// ChunkConfig controls text splitting.
type ChunkConfig struct {
	Size int `mapstructure:"size"`
}

// SearchConfig controls retrieval.
type SearchConfig struct {
	Limit int `mapstructure:"limit"`
}

// Embedding providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Load reads configuration from the environment (and an optional config
// file) and validates it. A .env file in the working directory is loaded
// first, matching how the service is deployed.
func Load(path string) (*Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, wragerr.Wrapf(err, wragerr.CodeConfigInvalidValue, "reading config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, wragerr.Wrap(err, wragerr.CodeConfigInvalidValue, "unmarshalling config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies configuration defaults to v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", "http://localhost:3000,http://127.0.0.1:3000")
	v.SetDefault("embedding.provider", ProviderGemini)
	v.SetDefault("chunk.size", 1000)
	v.SetDefault("search.limit", 3)
}

// SetupEnv wires environment variables into v, including the bare
// variable names the service has always been deployed with.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("WEBRAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("qdrant.url", "WEBRAG_QDRANT_URL", "QDRANT_URL")
	_ = v.BindEnv("qdrant.api_key", "WEBRAG_QDRANT_API_KEY", "QDRANT_API_KEY")
	_ = v.BindEnv("gemini.api_key", "WEBRAG_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("gemini.model", "WEBRAG_GEMINI_MODEL", "GEMINI_MODEL")
	_ = v.BindEnv("openai.api_key", "WEBRAG_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("collection", "WEBRAG_COLLECTION", "COLLECTION_NAME")
	_ = v.BindEnv("server.port", "WEBRAG_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.cors_origins", "WEBRAG_SERVER_CORS_ORIGINS", "ALLOWED_ORIGINS")
	_ = v.BindEnv("embedding.provider", "WEBRAG_EMBEDDING_PROVIDER", "EMBEDDING_PROVIDER")
	_ = v.BindEnv("embedding.model", "WEBRAG_EMBEDDING_MODEL", "EMBEDDING_MODEL")
	_ = v.BindEnv("embedding.ollama_url", "WEBRAG_EMBEDDING_OLLAMA_URL", "OLLAMA_URL")
}

// Validate checks that every required setting is present and coherent.
func (c *Config) Validate() error {
	if c.Qdrant.URL == "" {
		return wragerr.New(wragerr.CodeConfigInvalidValue, "qdrant url is required (QDRANT_URL)")
	}
	if c.Collection == "" {
		return wragerr.New(wragerr.CodeConfigInvalidValue, "collection name is required (COLLECTION_NAME)")
	}
	if c.Gemini.APIKey == "" {
		return wragerr.New(wragerr.CodeConfigInvalidValue, "gemini api key is required (GEMINI_API_KEY)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return wragerr.Errorf(wragerr.CodeConfigInvalidValue, "invalid port %d", c.Server.Port)
	}

	switch c.Embedding.Provider {
	case ProviderGemini, ProviderOllama:
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return wragerr.New(wragerr.CodeConfigInvalidValue,
				"openai api key is required for the openai embedding provider (OPENAI_API_KEY)")
		}
	default:
		return wragerr.Errorf(wragerr.CodeConfigInvalidValue,
			"unknown embedding provider %q (want gemini, openai, or ollama)", c.Embedding.Provider)
	}

	return nil
}
