package transcriptfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/forPelevin/hlshorts/internal/types"
)

// Load reads a transcript from disk. Supported inputs:
//   - openai-whisper JSON ({"segments": [{"start", "end", "text"}]})
//   - whisper.cpp JSON ({"transcription": [{"offsets": {"from", "to"}, "text"}]}, ms offsets)
//   - a bare JSON array of segments
//   - SubRip (.srt)
func Load(path string) (types.Transcript, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.Transcript{}, err
	}
	if strings.EqualFold(filepath.Ext(path), ".srt") {
		return ParseSRT(string(b))
	}
	tr, err := DecodeJSON(b)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return tr, nil
}

type whisperCPPDoc struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

type openAIDoc struct {
	Language string          `json:"language"`
	Segments []types.Segment `json:"segments"`
}

// DecodeJSON detects the JSON shape and normalizes it into a Transcript.
func DecodeJSON(b []byte) (types.Transcript, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return types.Transcript{}, errors.New("empty transcript")
	}

	if trimmed[0] == '[' {
		var segs []types.Segment
		if err := json.Unmarshal(trimmed, &segs); err != nil {
			return types.Transcript{}, err
		}
		return normalize(types.Transcript{Segments: segs}), nil
	}

	var head map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &head); err != nil {
		return types.Transcript{}, err
	}

	switch {
	case head["transcription"] != nil:
		var doc whisperCPPDoc
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return types.Transcript{}, err
		}
		tr := types.Transcript{Language: doc.Result.Language}
		for _, s := range doc.Transcription {
			tr.Segments = append(tr.Segments, types.Segment{
				Start: float64(s.Offsets.From) / 1000,
				End:   float64(s.Offsets.To) / 1000,
				Text:  s.Text,
			})
		}
		return normalize(tr), nil
	case head["segments"] != nil:
		var doc openAIDoc
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return types.Transcript{}, err
		}
		return normalize(types.Transcript{Language: doc.Language, Segments: doc.Segments}), nil
	default:
		return types.Transcript{}, errors.New(`unrecognized transcript JSON: expected "segments" or "transcription"`)
	}
}

func normalize(tr types.Transcript) types.Transcript {
	for i := range tr.Segments {
		tr.Segments[i].Text = strings.TrimSpace(tr.Segments[i].Text)
	}
	return tr
}
