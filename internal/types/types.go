package types

// Transcript is the ordered segment list produced by the transcription step.
// Segments are read-only once produced.
type Transcript struct {
	Language string    `json:"language,omitempty"`
	Segments []Segment `json:"segments"`
}

// Segment is a span of transcribed speech. Times are seconds from the
// start of the source media.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

func (s Segment) Duration() float64 { return s.End - s.Start }

// Candidate is a provisional highlight window built from a contiguous run
// of segments. Score is only meaningful when Scored is true.
type Candidate struct {
	Start float64
	End   float64
	Text  string

	Score  float64
	Scored bool
}

func (c Candidate) Duration() float64 { return c.End - c.Start }

// Window is a candidate promoted by the selector.
type Window struct {
	Start float64
	End   float64
	Text  string
	Score float64
}

func (w Window) Duration() float64 { return w.End - w.Start }

// Caption is a subtitle cue on a clip-local timeline.
type Caption struct {
	Index int
	Start float64
	End   float64
	Text  string
}

type Label struct {
	Title    string
	Hashtags []string
}

// Summary is the per-run record persisted as summary.json.
type Summary struct {
	RunID string        `json:"run_id,omitempty"`
	Input string        `json:"input"`
	Clips []SummaryClip `json:"clips"`

	Compilation string `json:"compilation,omitempty"`
}

type SummaryClip struct {
	ID        string   `json:"id"`
	Start     float64  `json:"start"`
	End       float64  `json:"end"`
	Score     float64  `json:"score"`
	Title     string   `json:"title"`
	Hashtags  []string `json:"hashtags"`
	Text      string   `json:"text,omitempty"`
	File      string   `json:"file,omitempty"`
	Subtitles string   `json:"subtitles,omitempty"`
}
