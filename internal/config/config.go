package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"horse.fit/roamsift/internal/pipeline"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	IncludeThreshold    float64 `envconfig:"RS_INCLUDE_THRESHOLD" default:"30"`
	CompetitorThreshold float64 `envconfig:"RS_COMPETITOR_THRESHOLD" default:"20"`
	TitlePreviewRunes   int     `envconfig:"RS_TITLE_PREVIEW_RUNES" default:"60"`
	RulesFile           string  `envconfig:"RS_RULES_FILE" default:""`
	DetectOrigin        bool    `envconfig:"RS_DETECT_ORIGIN" default:"false"`

	HTTPHost            string `envconfig:"RS_HTTP_HOST" default:"0.0.0.0"`
	HTTPPort            int    `envconfig:"RS_HTTP_PORT" default:"8090"`
	HTTPReadTimeoutSec  int    `envconfig:"RS_HTTP_READ_TIMEOUT_SECONDS" default:"10"`
	HTTPWriteTimeoutSec int    `envconfig:"RS_HTTP_WRITE_TIMEOUT_SECONDS" default:"30"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.IncludeThreshold < 0 || c.IncludeThreshold > 100 {
		return fmt.Errorf("RS_INCLUDE_THRESHOLD must be within [0,100]")
	}
	if c.CompetitorThreshold < 0 || c.CompetitorThreshold > 100 {
		return fmt.Errorf("RS_COMPETITOR_THRESHOLD must be within [0,100]")
	}
	if c.TitlePreviewRunes < 1 {
		return fmt.Errorf("RS_TITLE_PREVIEW_RUNES must be >= 1")
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("RS_HTTP_PORT must be a valid port")
	}
	if c.HTTPReadTimeoutSec < 1 || c.HTTPWriteTimeoutSec < 1 {
		return fmt.Errorf("HTTP timeouts must be >= 1 second")
	}
	return nil
}

// Rules materializes the pipeline rule tables: the reference defaults,
// overlaid with an optional JSON rules file, then the scalar env
// overrides. The JSON file only needs the fields it wants to change, and
// a scalar env var takes precedence over the file only when it is
// actually set in the environment.
func (c *Config) Rules() (pipeline.Rules, error) {
	rules := pipeline.DefaultRules()

	if path := strings.TrimSpace(c.RulesFile); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return pipeline.Rules{}, fmt.Errorf("read rules file %s: %w", path, err)
		}
		if err := json.Unmarshal(raw, &rules); err != nil {
			return pipeline.Rules{}, fmt.Errorf("parse rules file %s: %w", path, err)
		}
	}

	if envSet("RS_INCLUDE_THRESHOLD") {
		rules.IncludeThreshold = c.IncludeThreshold
	}
	if envSet("RS_COMPETITOR_THRESHOLD") {
		rules.CompetitorThreshold = c.CompetitorThreshold
	}
	if envSet("RS_TITLE_PREVIEW_RUNES") {
		rules.TitlePreviewRunes = c.TitlePreviewRunes
	}
	return rules, nil
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}
