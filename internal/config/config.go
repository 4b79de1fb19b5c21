// Package config provides configuration loading and validation for the
// ranking service. It uses koanf to merge an optional YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the server and the analyzer.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Auth
	APIKey string `koanf:"api_key"`

	// Worker pool
	WorkerCount            int `koanf:"worker_count"`
	MaxQueueSize           int `koanf:"max_queue_size"`
	MaxConcurrentParse     int `koanf:"max_concurrent_parse"`
	MaxConcurrentVectorize int `koanf:"max_concurrent_vectorize"`

	// Upload limits
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// Analysis output
	TopSections         int `koanf:"top_sections"`
	MaxExcerptSentences int `koanf:"max_excerpt_sentences"`

	// Optional calibration files
	LexiconPath string `koanf:"lexicon_path"`
	WeightsPath string `koanf:"weights_path"`

	// Job state
	JobTTL time.Duration `koanf:"job_ttl"`

	// PDF
	PDFFallbackPdftotext bool `koanf:"pdf_fallback_pdftotext"`
}

// Configuration validation errors.
var (
	ErrMissingAPIKey = errors.New("DOCRANK_API_KEY is required")
	ErrInvalidPort   = errors.New("DOCRANK_PORT must be between 1 and 65535")
)

// Default values.
const (
	DefaultPort                   = 8090
	DefaultEnv                    = "development"
	DefaultWorkerCount            = 4
	DefaultMaxQueueSize           = 100
	DefaultMaxConcurrentParse     = 4
	DefaultMaxConcurrentVectorize = 8
	DefaultMaxUploadBytes         = int64(52428800) // 50MB
	DefaultTopSections            = 5
	DefaultMaxExcerptSentences    = 5
	DefaultJobTTL                 = time.Hour
)

// Load reads configuration from an optional YAML file plus DOCRANK_*
// environment variables, with env taking precedence over the file.
// Returns the config and a slice of load/validation errors (empty if
// valid). A config file path that cannot be read is a hard error.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("load config file %s: %w", configFilePath, err)}
		}
	}

	collect := func(err error) {
		if err != nil {
			loadErrs = append(loadErrs, err)
		}
	}

	cfg := &Config{
		Env:         strVal("DOCRANK_ENV", k, "env", DefaultEnv),
		APIKey:      strVal("DOCRANK_API_KEY", k, "api_key", ""),
		LexiconPath: strVal("DOCRANK_LEXICON_PATH", k, "lexicon_path", ""),
		WeightsPath: strVal("DOCRANK_WEIGHTS_PATH", k, "weights_path", ""),
	}

	var err error
	cfg.Port, err = intVal("DOCRANK_PORT", k, "port", DefaultPort)
	collect(err)
	cfg.WorkerCount, err = intVal("DOCRANK_WORKER_COUNT", k, "worker_count", DefaultWorkerCount)
	collect(err)
	cfg.MaxQueueSize, err = intVal("DOCRANK_MAX_QUEUE_SIZE", k, "max_queue_size", DefaultMaxQueueSize)
	collect(err)
	cfg.MaxConcurrentParse, err = intVal("DOCRANK_MAX_CONCURRENT_PARSE", k, "max_concurrent_parse", DefaultMaxConcurrentParse)
	collect(err)
	cfg.MaxConcurrentVectorize, err = intVal("DOCRANK_MAX_CONCURRENT_VECTORIZE", k, "max_concurrent_vectorize", DefaultMaxConcurrentVectorize)
	collect(err)
	cfg.MaxUploadBytes, err = int64Val("DOCRANK_MAX_UPLOAD_BYTES", k, "max_upload_bytes", DefaultMaxUploadBytes)
	collect(err)
	cfg.TopSections, err = intVal("DOCRANK_TOP_SECTIONS", k, "top_sections", DefaultTopSections)
	collect(err)
	cfg.MaxExcerptSentences, err = intVal("DOCRANK_MAX_EXCERPT_SENTENCES", k, "max_excerpt_sentences", DefaultMaxExcerptSentences)
	collect(err)
	cfg.JobTTL, err = durVal("DOCRANK_JOB_TTL", k, "job_ttl", DefaultJobTTL)
	collect(err)
	cfg.PDFFallbackPdftotext, err = boolVal("DOCRANK_PDF_FALLBACK_PDFTOTEXT", k, "pdf_fallback_pdftotext", true)
	collect(err)

	cfg.clampPositives()

	errs := append(loadErrs, cfg.Validate()...)
	return cfg, errs
}

// clampPositives resets non-positive tunables to their defaults so a bad
// but parseable value cannot wedge the worker pool.
func (c *Config) clampPositives() {
	if c.WorkerCount <= 0 {
		c.WorkerCount = DefaultWorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = DefaultMaxQueueSize
	}
	if c.MaxConcurrentParse <= 0 {
		c.MaxConcurrentParse = DefaultMaxConcurrentParse
	}
	if c.MaxConcurrentVectorize <= 0 {
		c.MaxConcurrentVectorize = DefaultMaxConcurrentVectorize
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.TopSections <= 0 {
		c.TopSections = DefaultTopSections
	}
	if c.MaxExcerptSentences <= 0 {
		c.MaxExcerptSentences = DefaultMaxExcerptSentences
	}
	if c.JobTTL <= 0 {
		c.JobTTL = DefaultJobTTL
	}
}

// Validate checks hard requirements. Returns a slice of errors (empty if
// valid).
func (c *Config) Validate() []error {
	var errs []error
	if c.APIKey == "" {
		errs = append(errs, ErrMissingAPIKey)
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, ErrInvalidPort)
	}
	return errs
}

// LogSummary returns the configuration for startup logging with secrets
// masked.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":                     strconv.Itoa(c.Port),
		"env":                      c.Env,
		"api_key":                  maskSecret(c.APIKey),
		"worker_count":             strconv.Itoa(c.WorkerCount),
		"max_queue_size":           strconv.Itoa(c.MaxQueueSize),
		"max_concurrent_parse":     strconv.Itoa(c.MaxConcurrentParse),
		"max_concurrent_vectorize": strconv.Itoa(c.MaxConcurrentVectorize),
		"max_upload_bytes":         strconv.FormatInt(c.MaxUploadBytes, 10),
		"top_sections":             strconv.Itoa(c.TopSections),
		"max_excerpt_sentences":    strconv.Itoa(c.MaxExcerptSentences),
		"lexicon_path":             c.LexiconPath,
		"weights_path":             c.WeightsPath,
		"job_ttl":                  c.JobTTL.String(),
		"pdf_fallback_pdftotext":   strconv.FormatBool(c.PDFFallbackPdftotext),
	}
}

// maskSecret shows only the first 4 characters of a secret.
func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}

// strVal returns the env value if set, else the file value, else def.
func strVal(envKey string, k *koanf.Koanf, key, def string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if v := k.String(key); v != "" {
		return v
	}
	return def
}

func intVal(envKey string, k *koanf.Koanf, key string, def int) (int, error) {
	if v := os.Getenv(envKey); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return def, fmt.Errorf("%s must be an integer: %q", envKey, v)
		}
		return n, nil
	}
	if k.Exists(key) {
		return k.Int(key), nil
	}
	return def, nil
}

func int64Val(envKey string, k *koanf.Koanf, key string, def int64) (int64, error) {
	if v := os.Getenv(envKey); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return def, fmt.Errorf("%s must be an integer: %q", envKey, v)
		}
		return n, nil
	}
	if k.Exists(key) {
		return k.Int64(key), nil
	}
	return def, nil
}

func boolVal(envKey string, k *koanf.Koanf, key string, def bool) (bool, error) {
	if v := os.Getenv(envKey); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def, fmt.Errorf("%s must be a boolean: %q", envKey, v)
		}
		return b, nil
	}
	if k.Exists(key) {
		return k.Bool(key), nil
	}
	return def, nil
}

func durVal(envKey string, k *koanf.Koanf, key string, def time.Duration) (time.Duration, error) {
	if v := os.Getenv(envKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return def, fmt.Errorf("%s must be a duration like 30m or 1h: %q", envKey, v)
		}
		return d, nil
	}
	if k.Exists(key) {
		return k.Duration(key), nil
	}
	return def, nil
}
