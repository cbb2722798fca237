// Package llamaparse is a client for the LlamaParse cloud parsing API.
// It uploads a document, polls the parse job, and fetches the markdown or
// text result. The API credential comes from the process environment;
// absence is a deterministic, immediate failure with no network call.
package llamaparse

import (
	"errors"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// EnvAPIKey is the environment variable carrying the API credential.
const EnvAPIKey = "LLAMA_CLOUD_API_KEY"

// EnvBaseURL optionally overrides the API endpoint (used by tests).
const EnvBaseURL = "LLAMAPARSE_BASE_URL"

const defaultBaseURL = "https://api.cloud.llamaindex.ai"

// ErrMissingAPIKey is returned when the credential is absent from the
// environment. The message names the variable so callers can surface it.
var ErrMissingAPIKey = errors.New(EnvAPIKey + " environment variable not set")

// Config for the LlamaParse client.
type Config struct {
	APIKey      string        // if empty, falls back to env LLAMA_CLOUD_API_KEY
	BaseURL     string        // default https://api.cloud.llamaindex.ai
	TargetPages string        // page-range limit, default "0-1" (first two pages)
	Timeout     time.Duration // http client timeout per call
	PollEvery   time.Duration // interval between job status polls
	MaxPolls    int           // poll attempts before giving up
}

// Client calls the LlamaParse REST API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a LlamaParse client. It fails fast with
// ErrMissingAPIKey when no credential is configured or present in the
// environment.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(EnvAPIKey)
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv(EnvBaseURL)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.TargetPages == "" {
		cfg.TargetPages = "0-1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = 5 * time.Second
	}
	if cfg.MaxPolls <= 0 {
		cfg.MaxPolls = 24
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}
