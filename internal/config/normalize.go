package config

import (
	"os"
	"strings"
)

// envOverrides maps environment variables onto config fields. They are
// applied after the file is decoded.
var envOverrides = []struct {
	key   string
	field func(*Config) *string
}{
	{"FFMPEG_PATH", func(c *Config) *string { return &c.Tools.FFmpeg }},
	{"FFPROBE_PATH", func(c *Config) *string { return &c.Tools.FFprobe }},
	{"WHISPER_BIN", func(c *Config) *string { return &c.Tools.WhisperBin }},
	{"WHISPER_MODEL", func(c *Config) *string { return &c.Tools.WhisperModel }},
	{"HLSHORTS_LOG_LEVEL", func(c *Config) *string { return &c.Logging.Level }},
}

func (c *Config) normalize() error {
	for _, o := range envOverrides {
		if v, ok := os.LookupEnv(o.key); ok && strings.TrimSpace(v) != "" {
			*o.field(c) = strings.TrimSpace(v)
		}
	}

	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	c.Tools.WhisperBin = strings.TrimSpace(c.Tools.WhisperBin)
	c.Tools.WhisperModel = strings.TrimSpace(c.Tools.WhisperModel)
	c.Tools.WhisperLanguage = strings.TrimSpace(c.Tools.WhisperLanguage)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpeg
	}
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobe
	}
	if c.Tools.WhisperLanguage == "" {
		c.Tools.WhisperLanguage = defaultWhisperLanguage
	}

	c.Highlights.CaptionFormat = strings.ToLower(strings.TrimSpace(c.Highlights.CaptionFormat))
	if c.Highlights.CaptionFormat == "" {
		c.Highlights.CaptionFormat = defaultCaptionFormat
	}
	c.NormalizeWindow()

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}

	for _, p := range []*string{&c.Paths.LogDir, &c.Paths.HistoryDB} {
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// NormalizeWindow derives max_len from target_len when it is unset. Call it
// again after overriding target_len or max_len.
func (c *Config) NormalizeWindow() {
	if c.Highlights.MaxLen == 0 {
		c.Highlights.MaxLen = c.Highlights.TargetLen + maxLenHeadroom
	}
}
