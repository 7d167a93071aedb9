package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultDeploymentName = "computer-use-preview"
	DefaultAPIVersion     = "2024-12-01-preview"
	DefaultRootURL        = "https://learn.microsoft.com/en-us/rest/api/fabric/articles/api-structure"
	DefaultMaxTokens      = 4096
)

// DefaultTargets are the navigation entries summarized by the demo, in order
var DefaultTargets = []string{"Identity Scope", "Throttling"}

// ErrMissingEndpoint is returned when AZURE_OPENAI_ENDPOINT is not set
var ErrMissingEndpoint = errors.New("AZURE_OPENAI_ENDPOINT environment variable is not set")

// Config holds everything read from the environment at startup
type Config struct {
	Endpoint       string
	APIKey         string
	DeploymentName string
	APIVersion     string
	MaxTokens      int
	RequestTimeout time.Duration

	RootURL           string
	Targets           []string
	Headless          bool
	ViewportWidth     int
	ViewportHeight    int
	SettleDelay       time.Duration
	NavigationTimeout time.Duration
	ClickTimeout      time.Duration
	FullPage          bool

	LogLevel string
}

// UsesStaticKey reports whether requests authenticate with an API key
func (c *Config) UsesStaticKey() bool {
	return c.APIKey != ""
}

// New returns a viper instance with every key bound and defaulted.
// configFile is optional; an empty string means environment only.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("deployment_name", DefaultDeploymentName)
	v.SetDefault("api_version", DefaultAPIVersion)
	v.SetDefault("max_tokens", DefaultMaxTokens)
	v.SetDefault("request_timeout", time.Duration(0))
	v.SetDefault("root_url", DefaultRootURL)
	v.SetDefault("targets", DefaultTargets)
	v.SetDefault("headless", false)
	v.SetDefault("viewport_width", 1280)
	v.SetDefault("viewport_height", 720)
	v.SetDefault("settle_delay", 2*time.Second)
	v.SetDefault("navigation_timeout", 30*time.Second)
	v.SetDefault("click_timeout", 10*time.Second)
	v.SetDefault("full_page", false)
	v.SetDefault("log_level", "info")

	// Azure variables keep their well-known names, everything else uses DEMO_.
	azureEnv := map[string]string{
		"endpoint":        "AZURE_OPENAI_ENDPOINT",
		"api_key":         "AZURE_OPENAI_API_KEY",
		"deployment_name": "AZURE_OPENAI_DEPLOYMENT_NAME",
		"api_version":     "AZURE_OPENAI_API_VERSION",
	}
	for key, env := range azureEnv {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	v.SetEnvPrefix("DEMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return v, nil
}

// Load reads the configuration once. The only required value is the endpoint.
func Load(configFile string) (*Config, error) {
	v, err := New(configFile)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper builds a Config from an already prepared viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Endpoint:          strings.TrimSpace(v.GetString("endpoint")),
		APIKey:            strings.TrimSpace(v.GetString("api_key")),
		DeploymentName:    v.GetString("deployment_name"),
		APIVersion:        v.GetString("api_version"),
		MaxTokens:         v.GetInt("max_tokens"),
		RequestTimeout:    v.GetDuration("request_timeout"),
		RootURL:           v.GetString("root_url"),
		Targets:           targetsFrom(v),
		Headless:          v.GetBool("headless"),
		ViewportWidth:     v.GetInt("viewport_width"),
		ViewportHeight:    v.GetInt("viewport_height"),
		SettleDelay:       v.GetDuration("settle_delay"),
		NavigationTimeout: v.GetDuration("navigation_timeout"),
		ClickTimeout:      v.GetDuration("click_timeout"),
		FullPage:          v.GetBool("full_page"),
		LogLevel:          v.GetString("log_level"),
	}

	if cfg.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	if cfg.DeploymentName == "" {
		cfg.DeploymentName = DefaultDeploymentName
	}
	if cfg.MaxTokens <= 0 {
		return nil, fmt.Errorf("max_tokens must be positive, got %d", cfg.MaxTokens)
	}
	if cfg.ViewportWidth <= 0 || cfg.ViewportHeight <= 0 {
		return nil, fmt.Errorf("invalid viewport %dx%d", cfg.ViewportWidth, cfg.ViewportHeight)
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("at least one navigation target is required")
	}

	return cfg, nil
}

// targetsFrom accepts both a YAML list and a comma separated DEMO_TARGETS value.
// Labels contain spaces, so a plain string is never split on whitespace.
func targetsFrom(v *viper.Viper) []string {
	var raw []string
	if s, ok := v.Get("targets").(string); ok {
		raw = strings.Split(s, ",")
	} else {
		raw = v.GetStringSlice("targets")
	}

	targets := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			targets = append(targets, t)
		}
	}
	return targets
}
