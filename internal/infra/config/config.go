// Package config loads the portal configuration.
//
// Load order, later wins:
//  1. built-in defaults (Default)
//  2. YAML file at $AWAAZTWIN_CONFIG, or ./awaaztwin.yaml
//  3. AWAAZTWIN_* environment variables
//
// A missing file is fine; a malformed one is an error. The result is a plain value passed to
// components at startup, never a package-level singleton.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	Env     string        `yaml:"env"`
	Server  ServerConfig  `yaml:"server"`
	LLM     LLMConfig     `yaml:"llm"`
	TTS     TTSConfig     `yaml:"tts"`
	Storage StorageConfig `yaml:"storage"`
	Data    DataConfig    `yaml:"data"`
	Tests   TestsConfig   `yaml:"tests"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"staticDir"` // empty disables static file serving
}

// LLMConfig holds the backend the MCP test_llm_connection tool falls back to when a call
// leaves a field empty. HTTP requests always carry their own settings.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"apiKey"`
	MaxTokens   int     `yaml:"maxTokens"`
	Temperature float64 `yaml:"temperature"`
}

// TTSConfig is the fallback server for the MCP test_tts_connection tool.
type TTSConfig struct {
	ServerURL string `yaml:"serverUrl"`
}

// StorageConfig points at an S3-compatible bucket (MinIO locally) used to archive audio.
type StorageConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
}

type DataConfig struct {
	DBPath     string `yaml:"dbPath"`
	ContentDir string `yaml:"contentDir"`
}

// TestsConfig selects how /api/tests/run behaves: "stub" returns a canned result,
// "exec" runs the suite command in WorkDir.
type TestsConfig struct {
	Mode    string `yaml:"mode"`
	WorkDir string `yaml:"workDir"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | text
	File   string `yaml:"file"`   // empty means stderr
}

const (
	envKeyConfigPath = "AWAAZTWIN_CONFIG"
	defaultFilePath  = "./awaaztwin.yaml"

	envKeyEnv = "AWAAZTWIN_ENV"

	envKeyServerHost      = "AWAAZTWIN_SERVER_HOST"
	envKeyServerPort      = "AWAAZTWIN_SERVER_PORT"
	envKeyServerStaticDir = "AWAAZTWIN_SERVER_STATIC_DIR"

	envKeyLLMProvider    = "AWAAZTWIN_LLM_PROVIDER"
	envKeyLLMBaseURL     = "AWAAZTWIN_LLM_BASE_URL"
	envKeyLLMModel       = "AWAAZTWIN_LLM_MODEL"
	envKeyLLMAPIKey      = "AWAAZTWIN_LLM_API_KEY"
	envKeyLLMMaxTokens   = "AWAAZTWIN_LLM_MAX_TOKENS"
	envKeyLLMTemperature = "AWAAZTWIN_LLM_TEMPERATURE"

	envKeyTTSServerURL = "AWAAZTWIN_TTS_SERVER_URL"

	envKeyStorageEnabled   = "AWAAZTWIN_STORAGE_ENABLED"
	envKeyStorageEndpoint  = "AWAAZTWIN_STORAGE_ENDPOINT"
	envKeyStorageBucket    = "AWAAZTWIN_STORAGE_BUCKET"
	envKeyStoragePrefix    = "AWAAZTWIN_STORAGE_PREFIX"
	envKeyStorageRegion    = "AWAAZTWIN_STORAGE_REGION"
	envKeyStorageAccessKey = "AWAAZTWIN_STORAGE_ACCESS_KEY"
	envKeyStorageSecretKey = "AWAAZTWIN_STORAGE_SECRET_KEY"

	envKeyDBPath     = "AWAAZTWIN_DB_PATH"
	envKeyContentDir = "AWAAZTWIN_CONTENT_DIR"

	envKeyTestsMode    = "AWAAZTWIN_TESTS_MODE"
	envKeyTestsWorkDir = "AWAAZTWIN_TESTS_WORKDIR"

	envKeyLogLevel  = "AWAAZTWIN_LOG_LEVEL"
	envKeyLogFormat = "AWAAZTWIN_LOG_FORMAT"
	envKeyLogFile   = "AWAAZTWIN_LOG_FILE"
)

// Test runner modes.
const (
	TestsModeStub = "stub"
	TestsModeExec = "exec"
)

// Default returns the built-in configuration; the binary runs locally with nothing else set.
func Default() Config {
	return Config{
		Env: "local",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 3000,
		},
		LLM: LLMConfig{
			Provider:    "ollama",
			BaseURL:     "http://localhost:11434",
			Model:       "llama3.2",
			MaxTokens:   2048,
			Temperature: 0.7,
		},
		TTS: TTSConfig{
			ServerURL: "http://localhost:5002",
		},
		Storage: StorageConfig{
			Endpoint: "http://localhost:9000",
			Bucket:   "awaaztwin",
			Prefix:   "portal",
			Region:   "us-east-1",
		},
		Data: DataConfig{
			DBPath:     ".data/awaaztwin.db",
			ContentDir: "content",
		},
		Tests: TestsConfig{
			Mode:    TestsModeStub,
			WorkDir: ".",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// ProductionMode reports whether outbound URLs must pass the production host checks.
func (c Config) ProductionMode() bool {
	return c.Env == "production"
}

// Addr is the listen address derived from Server.Host and Server.Port.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Load applies the YAML file and environment layers on top of Default.
func Load() (Config, error) {
	cfg := Default()
	path := envOr(envKeyConfigPath, defaultFilePath)
	if err := mergeFile(&cfg, path); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

// mergeFile decodes path over cfg. Keys absent from the file keep their current value.
func mergeFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envOr(envKeyEnv, cfg.Env)

	cfg.Server.Host = envOr(envKeyServerHost, cfg.Server.Host)
	cfg.Server.Port = envInt(envKeyServerPort, cfg.Server.Port)
	cfg.Server.StaticDir = envOr(envKeyServerStaticDir, cfg.Server.StaticDir)

	cfg.LLM.Provider = envOr(envKeyLLMProvider, cfg.LLM.Provider)
	cfg.LLM.BaseURL = envOr(envKeyLLMBaseURL, cfg.LLM.BaseURL)
	cfg.LLM.Model = envOr(envKeyLLMModel, cfg.LLM.Model)
	cfg.LLM.APIKey = envOr(envKeyLLMAPIKey, cfg.LLM.APIKey)
	cfg.LLM.MaxTokens = envInt(envKeyLLMMaxTokens, cfg.LLM.MaxTokens)
	cfg.LLM.Temperature = envFloat(envKeyLLMTemperature, cfg.LLM.Temperature)

	cfg.TTS.ServerURL = envOr(envKeyTTSServerURL, cfg.TTS.ServerURL)

	cfg.Storage.Enabled = envBool(envKeyStorageEnabled, cfg.Storage.Enabled)
	cfg.Storage.Endpoint = envOr(envKeyStorageEndpoint, cfg.Storage.Endpoint)
	cfg.Storage.Bucket = envOr(envKeyStorageBucket, cfg.Storage.Bucket)
	cfg.Storage.Prefix = envOr(envKeyStoragePrefix, cfg.Storage.Prefix)
	cfg.Storage.Region = envOr(envKeyStorageRegion, cfg.Storage.Region)
	cfg.Storage.AccessKey = envOr(envKeyStorageAccessKey, cfg.Storage.AccessKey)
	cfg.Storage.SecretKey = envOr(envKeyStorageSecretKey, cfg.Storage.SecretKey)

	cfg.Data.DBPath = envOr(envKeyDBPath, cfg.Data.DBPath)
	cfg.Data.ContentDir = envOr(envKeyContentDir, cfg.Data.ContentDir)

	cfg.Tests.Mode = envOr(envKeyTestsMode, cfg.Tests.Mode)
	cfg.Tests.WorkDir = envOr(envKeyTestsWorkDir, cfg.Tests.WorkDir)

	cfg.Log.Level = envOr(envKeyLogLevel, cfg.Log.Level)
	cfg.Log.Format = envOr(envKeyLogFormat, cfg.Log.Format)
	cfg.Log.File = envOr(envKeyLogFile, cfg.Log.File)
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt parses key as an int; unset or unparsable keeps fallback.
func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return f
}

// envBool treats only "true" as true, any other non-empty value as false.
func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "true"
}
