package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/ledgerlens/internal/common"
	"github.com/Veraticus/ledgerlens/internal/llm"
)

// Default values for settings that are not configured.
const (
	DefaultDatabasePath = "~/.local/share/ledgerlens/ledgerlens.db"
	DefaultVertical     = "restaurant"
	DefaultRateLimit    = 30
	DefaultMaxRetries   = 3
)

// Settings is the resolved configuration for a command.
type Settings struct {
	LLM                llm.Config
	DatabasePath       string
	Vertical           string
	ReferencePath      string
	TelemetryTextfile  string
	MaxRecommendations int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("analysis.vertical", DefaultVertical)
	v.SetDefault("analysis.max_recommendations", 0)
	v.SetDefault("llm.rate_limit", DefaultRateLimit)
	v.SetDefault("llm.max_retries", DefaultMaxRetries)
}

// Load resolves settings from v. Viper values (config file or LEDGERLENS_
// env vars) take precedence; provider API keys fall back to the
// conventional OPENAI_API_KEY and ANTHROPIC_API_KEY variables.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		DatabasePath:       ExpandPath(v.GetString("database.path")),
		Vertical:           strings.ToLower(strings.TrimSpace(v.GetString("analysis.vertical"))),
		ReferencePath:      ExpandPath(v.GetString("analysis.reference_path")),
		MaxRecommendations: v.GetInt("analysis.max_recommendations"),
		TelemetryTextfile:  ExpandPath(v.GetString("telemetry.textfile")),
		LLM: llm.Config{
			Provider:   strings.ToLower(strings.TrimSpace(v.GetString("llm.provider"))),
			APIKey:     v.GetString("llm.api_key"),
			Model:      v.GetString("llm.model"),
			BaseURL:    v.GetString("llm.base_url"),
			RateLimit:  v.GetInt("llm.rate_limit"),
			MaxRetries: v.GetInt("llm.max_retries"),
			RetryDelay: v.GetDuration("llm.retry_delay"),
		},
	}

	if s.LLM.APIKey == "" {
		switch s.LLM.Provider {
		case "openai":
			s.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			s.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if s.LLM.RetryDelay == 0 {
		s.LLM.RetryDelay = time.Second
	}
	if s.DatabasePath == "" {
		s.DatabasePath = ExpandPath(DefaultDatabasePath)
	}
	if s.Vertical == "" {
		s.Vertical = DefaultVertical
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks settings that would otherwise fail late.
func (s *Settings) Validate() error {
	if s.MaxRecommendations < 0 {
		return fmt.Errorf("%w: analysis.max_recommendations must be >= 0, got %d", common.ErrInvalidConfig, s.MaxRecommendations)
	}
	switch s.LLM.Provider {
	case "":
	case "openai", "anthropic":
		if s.LLM.APIKey == "" {
			return fmt.Errorf("%w: llm.api_key is required for provider %s", common.ErrMissingConfig, s.LLM.Provider)
		}
	default:
		return fmt.Errorf("%w: unsupported llm.provider %q", common.ErrInvalidConfig, s.LLM.Provider)
	}
	return nil
}

// NarrationEnabled reports whether an LLM provider is configured.
func (s *Settings) NarrationEnabled() bool {
	return s.LLM.Provider != ""
}
