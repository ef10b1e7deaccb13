// Package vtt parses WebVTT subtitle documents into timed cues.
//
// The parser is deliberately strict: the first malformed block aborts the
// whole parse, so callers never see a partial cue list. Cues are returned in
// file order; WebVTT does not require cues to be time-sorted and the parser
// does not re-sort them.
package vtt

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"wsync/internal/model"
)

// ParseError describes a malformed WebVTT document.
type ParseError struct {
	Line int // 1-based line of the offending block, 0 if unknown
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("webvtt: line %d: %s", e.Line, e.Msg)
	}
	return "webvtt: " + e.Msg
}

// Parse reads a complete WebVTT document from r.
func Parse(r io.Reader) ([]model.SubtitleCue, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read vtt source: %w", err)
	}
	return parse(string(data))
}

// ParseString parses raw WebVTT content.
func ParseString(s string) ([]model.SubtitleCue, error) {
	return parse(s)
}

// ParseFile parses the WebVTT file at path. A missing or unreadable file
// surfaces as the underlying filesystem error, not a *ParseError.
func ParseFile(path string) ([]model.SubtitleCue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(string(data))
}

func parse(src string) ([]model.SubtitleCue, error) {
	src = strings.TrimPrefix(src, "\uFEFF")
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	lines := strings.Split(src, "\n")

	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) || !isHeader(lines[i]) {
		return nil, &ParseError{Line: i + 1, Msg: "missing WEBVTT header"}
	}
	// The header block may carry description lines up to the first blank line.
	for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
		i++
	}

	cues := []model.SubtitleCue{}
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}
		blockLine := i + 1
		var block []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			block = append(block, lines[i])
			i++
		}
		if skipBlock(block[0]) {
			continue
		}
		cue, err := parseCueBlock(block, blockLine)
		if err != nil {
			return nil, err
		}
		cues = append(cues, cue)
	}
	return cues, nil
}

func isHeader(line string) bool {
	line = strings.TrimSpace(line)
	return line == "WEBVTT" ||
		strings.HasPrefix(line, "WEBVTT ") ||
		strings.HasPrefix(line, "WEBVTT\t")
}

// skipBlock reports whether a block is a comment or styling block rather
// than a cue.
func skipBlock(first string) bool {
	first = strings.TrimSpace(first)
	return strings.HasPrefix(first, "NOTE") || first == "STYLE" || first == "REGION"
}

func parseCueBlock(block []string, line int) (model.SubtitleCue, error) {
	timing := 0
	if !strings.Contains(block[0], "-->") {
		// The first line may be an optional cue identifier.
		if len(block) < 2 || !strings.Contains(block[1], "-->") {
			return model.SubtitleCue{}, &ParseError{Line: line, Msg: "cue block has no timing line"}
		}
		timing = 1
	}

	parts := strings.SplitN(block[timing], "-->", 2)
	start, err := ParseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return model.SubtitleCue{}, &ParseError{Line: line + timing, Msg: err.Error()}
	}
	// Anything after the end timestamp is cue settings; ignore it.
	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return model.SubtitleCue{}, &ParseError{Line: line + timing, Msg: "timing line has no end timestamp"}
	}
	end, err := ParseTimestamp(endFields[0])
	if err != nil {
		return model.SubtitleCue{}, &ParseError{Line: line + timing, Msg: err.Error()}
	}

	return model.SubtitleCue{
		Start: start,
		End:   end,
		Text:  strings.Join(block[timing+1:], "\n"),
	}, nil
}

// ParseTimestamp normalizes a WebVTT timestamp string to seconds.
//
// Both permitted forms map onto the same linear timeline:
//
//	HH:MM:SS.mmm -> h*3600 + m*60 + s
//	MM:SS.mmm    -> m*60 + s
//
// Any other field count is an error.
func ParseTimestamp(s string) (float64, error) {
	parts := strings.Split(s, ":")

	var hourField, minuteField, secondField string
	switch len(parts) {
	case 3:
		hourField, minuteField, secondField = parts[0], parts[1], parts[2]
	case 2:
		hourField, minuteField, secondField = "0", parts[0], parts[1]
	default:
		return 0, fmt.Errorf("invalid timestamp %q: expected MM:SS or HH:MM:SS", s)
	}

	hours, err := strconv.Atoi(hourField)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: bad hours field", s)
	}
	minutes, err := strconv.Atoi(minuteField)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: bad minutes field", s)
	}
	seconds, err := strconv.ParseFloat(secondField, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: bad seconds field", s)
	}

	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}
