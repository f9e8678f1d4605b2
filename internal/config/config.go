package config

import (
	_ "embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/forPelevin/hlshorts/internal/domain/highlights"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains output and state locations.
type Paths struct {
	OutDir    string `toml:"out_dir"`
	CacheDir  string `toml:"cache_dir"`
	LogDir    string `toml:"log_dir"`
	HistoryDB string `toml:"history_db"`
}

// Tools contains external binaries used by the pipeline.
type Tools struct {
	FFmpeg          string `toml:"ffmpeg"`
	FFprobe         string `toml:"ffprobe"`
	WhisperBin      string `toml:"whisper_bin"`
	WhisperModel    string `toml:"whisper_model"`
	WhisperLanguage string `toml:"whisper_language"`
}

// Highlights contains window construction and selection settings, in seconds.
type Highlights struct {
	Clips         int     `toml:"clips"`
	TargetLen     float64 `toml:"target_len"`
	MinLen        float64 `toml:"min_len"`
	MaxLen        float64 `toml:"max_len"`
	MinGap        float64 `toml:"min_gap"`
	CaptionFormat string  `toml:"caption_format"`
	BurnSubtitles bool    `toml:"burn_subtitles"`
	Compilation   bool    `toml:"compilation"`
}

// Scoring contains the interest score weights and vocabulary extensions.
type Scoring struct {
	PowerWeight     float64  `toml:"power_weight"`
	ExclaimWeight   float64  `toml:"exclaim_weight"`
	UniqueWeight    float64  `toml:"unique_weight"`
	WordWeight      float64  `toml:"word_weight"`
	WordCap         int      `toml:"word_cap"`
	ExtraPowerWords []string `toml:"extra_power_words"`
	ExtraStopWords  []string `toml:"extra_stop_words"`
	FallbackTitle   string   `toml:"fallback_title"`
	FallbackHashtag string   `toml:"fallback_hashtag"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for hlshorts.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Tools      Tools      `toml:"tools"`
	Highlights Highlights `toml:"highlights"`
	Scoring    Scoring    `toml:"scoring"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/hlshorts/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file
// is not an error; defaults are used instead.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, errors.Wrap(err, "open config")
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, errors.Wrap(err, "parse config")
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = strings.TrimSpace(os.Getenv("HLSHORTS_CONFIG"))
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, errors.Wrap(err, "stat config")
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("hlshorts.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create config directory")
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return errors.Wrap(err, "write sample config")
	}
	return nil
}

// Params returns the window construction and selection parameters.
func (c *Config) Params() highlights.Params {
	return highlights.Params{
		TargetLen: c.Highlights.TargetLen,
		MinLen:    c.Highlights.MinLen,
		MaxLen:    c.Highlights.MaxLen,
		TopK:      c.Highlights.Clips,
		MinGap:    c.Highlights.MinGap,
	}
}

// Vocabulary returns the built-in vocabulary extended with configured words.
func (c *Config) Vocabulary() highlights.Vocabulary {
	return highlights.DefaultVocabulary().With(c.Scoring.ExtraPowerWords, c.Scoring.ExtraStopWords)
}

func (c *Config) Scorer() highlights.Scorer {
	return highlights.NewScorer(c.Vocabulary(), highlights.Weights{
		Power:   c.Scoring.PowerWeight,
		Exclaim: c.Scoring.ExclaimWeight,
		Unique:  c.Scoring.UniqueWeight,
		Word:    c.Scoring.WordWeight,
		WordCap: c.Scoring.WordCap,
	})
}

func (c *Config) Labeler() highlights.Labeler {
	l := highlights.NewLabeler(c.Vocabulary())
	l.FallbackTitle = c.Scoring.FallbackTitle
	l.FallbackHashtag = c.Scoring.FallbackHashtag
	return l
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve home directory")
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", errors.Wrapf(err, "resolve absolute path for %q", pathValue)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
