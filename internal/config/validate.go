package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/forPelevin/hlshorts/internal/domain/subtitles"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateHighlights(); err != nil {
		return err
	}
	if err := c.validateScoring(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateHighlights() error {
	if c.Highlights.Clips <= 0 {
		return errors.New("clips must be > 0")
	}
	if err := c.Params().Validate(); err != nil {
		return errors.Wrap(err, "highlights")
	}
	if _, err := subtitles.ParseFormat(c.Highlights.CaptionFormat); err != nil {
		return errors.Wrap(err, "highlights.caption_format")
	}
	return nil
}

func (c *Config) validateScoring() error {
	s := c.Scoring
	for name, v := range map[string]float64{
		"power_weight":   s.PowerWeight,
		"exclaim_weight": s.ExclaimWeight,
		"unique_weight":  s.UniqueWeight,
		"word_weight":    s.WordWeight,
	} {
		if v < 0 {
			return fmt.Errorf("scoring.%s must be >= 0", name)
		}
	}
	if s.WordCap < 0 {
		return errors.New("scoring.word_cap must be >= 0")
	}
	if strings.TrimSpace(s.FallbackTitle) == "" {
		return errors.New("scoring.fallback_title must not be empty")
	}
	if strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s.FallbackHashtag), "#")) == "" {
		return errors.New("scoring.fallback_hashtag must not be empty")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
