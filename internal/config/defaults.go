package config

import "github.com/forPelevin/hlshorts/internal/domain/highlights"

const (
	defaultOutDir          = "out"
	defaultCacheDir        = ".cache"
	defaultLogDir          = "~/.local/share/hlshorts/logs"
	defaultHistoryDB       = "~/.local/share/hlshorts/history.db"
	defaultFFmpeg          = "ffmpeg"
	defaultFFprobe         = "ffprobe"
	defaultWhisperBin      = ".cache/bin/whisper.cpp"
	defaultWhisperModel    = ".cache/models/ggml-base.bin"
	defaultWhisperLanguage = "auto"
	defaultCaptionFormat   = "srt"
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"

	// maxLenHeadroom is added to target_len when max_len is left unset.
	maxLenHeadroom = 20.0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	p := highlights.DefaultParams()
	w := highlights.DefaultWeights()
	return Config{
		Paths: Paths{
			OutDir:    defaultOutDir,
			CacheDir:  defaultCacheDir,
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Tools: Tools{
			FFmpeg:          defaultFFmpeg,
			FFprobe:         defaultFFprobe,
			WhisperBin:      defaultWhisperBin,
			WhisperModel:    defaultWhisperModel,
			WhisperLanguage: defaultWhisperLanguage,
		},
		Highlights: Highlights{
			Clips:         p.TopK,
			TargetLen:     p.TargetLen,
			MinLen:        p.MinLen,
			MinGap:        p.MinGap,
			CaptionFormat: defaultCaptionFormat,
			BurnSubtitles: true,
		},
		Scoring: Scoring{
			PowerWeight:     w.Power,
			ExclaimWeight:   w.Exclaim,
			UniqueWeight:    w.Unique,
			WordWeight:      w.Word,
			WordCap:         w.WordCap,
			FallbackTitle:   highlights.DefaultFallbackTitle,
			FallbackHashtag: highlights.DefaultFallbackHashtag,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
