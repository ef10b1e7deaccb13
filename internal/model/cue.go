package model

// SubtitleCue is one timed subtitle entry parsed from a WebVTT file.
// Times are seconds from the start of the media timeline. A cue is a pure
// value: it is created in bulk by the parser, held in memory for the
// duration of a request, and never persisted separately from its source file.
type SubtitleCue struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// IsActive reports whether the cue should be displayed at the given playback
// time. The interval is half-open: a cue ends exactly at End.
func (c SubtitleCue) IsActive(now float64) bool {
	return c.Start <= now && now < c.End
}
