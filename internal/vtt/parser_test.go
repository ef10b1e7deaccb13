package vtt

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wsync/internal/model"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{name: "full form", in: "00:00:45.250", want: 45.25},
		{name: "short form same instant", in: "0:45.250", want: 45.25},
		{name: "hours carry", in: "01:02:03.500", want: 3723.5},
		{name: "no fraction", in: "02:03", want: 123},
		{name: "minutes seconds", in: "10:00.000", want: 600},
		{name: "zero", in: "00:00:00.000", want: 0},
		{name: "single field", in: "45.250", wantErr: true},
		{name: "four fields", in: "1:2:3:4", wantErr: true},
		{name: "non numeric hours", in: "xx:00:01.000", wantErr: true},
		{name: "non numeric seconds", in: "00:00:abc", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseTimestamp_DualFormatEquivalence(t *testing.T) {
	// The same instant written with and without the hours field must
	// normalize to the same seconds value.
	pairs := [][2]string{
		{"00:00:45.250", "0:45.250"},
		{"00:12:34.500", "12:34.500"},
		{"00:59:59.999", "59:59.999"},
	}
	for _, p := range pairs {
		long, err := ParseTimestamp(p[0])
		require.NoError(t, err)
		short, err := ParseTimestamp(p[1])
		require.NoError(t, err)
		assert.Equal(t, long, short, "%q vs %q", p[0], p[1])
	}
}

func TestParseString(t *testing.T) {
	t.Run("single cue", func(t *testing.T) {
		cues, err := ParseString("WEBVTT\n\n00:00:00.000 --> 00:00:02.000\nHello")
		require.NoError(t, err)
		require.Len(t, cues, 1)
		assert.Equal(t, model.SubtitleCue{Start: 0, End: 2, Text: "Hello"}, cues[0])
	})

	t.Run("multi line text preserved", func(t *testing.T) {
		cues, err := ParseString("WEBVTT\n\n00:01.000 --> 00:03.000\nfirst line\nsecond line")
		require.NoError(t, err)
		require.Len(t, cues, 1)
		assert.Equal(t, "first line\nsecond line", cues[0].Text)
	})

	t.Run("file order preserved without sorting", func(t *testing.T) {
		src := strings.Join([]string{
			"WEBVTT",
			"",
			"00:10.000 --> 00:12.000",
			"later",
			"",
			"00:01.000 --> 00:02.000",
			"earlier",
		}, "\n")
		cues, err := ParseString(src)
		require.NoError(t, err)
		require.Len(t, cues, 2)
		assert.Equal(t, "later", cues[0].Text)
		assert.Equal(t, "earlier", cues[1].Text)
	})

	t.Run("n blocks yield n cues", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("WEBVTT\n")
		for i := 0; i < 5; i++ {
			b.WriteString("\n00:00:01.000 --> 00:00:02.000\ncue\n")
		}
		cues, err := ParseString(b.String())
		require.NoError(t, err)
		assert.Len(t, cues, 5)
	})

	t.Run("header only parses to empty sequence", func(t *testing.T) {
		cues, err := ParseString("WEBVTT\n")
		require.NoError(t, err)
		assert.Empty(t, cues)
	})

	t.Run("header with description", func(t *testing.T) {
		cues, err := ParseString("WEBVTT - some description\n\n00:01.000 --> 00:02.000\nhi")
		require.NoError(t, err)
		assert.Len(t, cues, 1)
	})

	t.Run("cue identifier line", func(t *testing.T) {
		cues, err := ParseString("WEBVTT\n\nintro\n00:01.000 --> 00:02.000\nhi")
		require.NoError(t, err)
		require.Len(t, cues, 1)
		assert.Equal(t, "hi", cues[0].Text)
	})

	t.Run("note and style blocks skipped", func(t *testing.T) {
		src := strings.Join([]string{
			"WEBVTT",
			"",
			"NOTE this is a comment",
			"spanning two lines",
			"",
			"STYLE",
			"::cue { color: red }",
			"",
			"00:01.000 --> 00:02.000",
			"visible",
		}, "\n")
		cues, err := ParseString(src)
		require.NoError(t, err)
		require.Len(t, cues, 1)
		assert.Equal(t, "visible", cues[0].Text)
	})

	t.Run("cue settings ignored", func(t *testing.T) {
		cues, err := ParseString("WEBVTT\n\n00:01.000 --> 00:02.000 align:start line:0\nhi")
		require.NoError(t, err)
		require.Len(t, cues, 1)
		assert.Equal(t, 2.0, cues[0].End)
	})

	t.Run("crlf and bom tolerated", func(t *testing.T) {
		cues, err := ParseString("\uFEFFWEBVTT\r\n\r\n00:01.000 --> 00:02.000\r\nhi\r\n")
		require.NoError(t, err)
		require.Len(t, cues, 1)
		assert.Equal(t, "hi", cues[0].Text)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := ParseString("00:01.000 --> 00:02.000\nhi")
		var pErr *ParseError
		require.ErrorAs(t, err, &pErr)
		assert.Contains(t, pErr.Msg, "WEBVTT")
	})

	t.Run("bad timestamp aborts whole parse", func(t *testing.T) {
		src := strings.Join([]string{
			"WEBVTT",
			"",
			"00:01.000 --> 00:02.000",
			"good",
			"",
			"00:01:02:03.000 --> 00:05.000",
			"bad",
		}, "\n")
		cues, err := ParseString(src)
		var pErr *ParseError
		require.ErrorAs(t, err, &pErr)
		assert.Nil(t, cues)
	})

	t.Run("block without timing line", func(t *testing.T) {
		_, err := ParseString("WEBVTT\n\njust some text")
		var pErr *ParseError
		require.ErrorAs(t, err, &pErr)
		assert.Contains(t, pErr.Msg, "timing line")
	})

	t.Run("timing line missing end", func(t *testing.T) {
		_, err := ParseString("WEBVTT\n\n00:01.000 -->\nhi")
		var pErr *ParseError
		assert.ErrorAs(t, err, &pErr)
	})
}

func TestParseFile(t *testing.T) {
	t.Run("reads from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sample.vtt")
		content := "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\nHello\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cues, err := ParseFile(path)
		require.NoError(t, err)
		require.Len(t, cues, 1)
		assert.Equal(t, 0.0, cues[0].Start)
		assert.Equal(t, 2.0, cues[0].End)
		assert.Equal(t, "Hello", cues[0].Text)
	})

	t.Run("missing file is a filesystem error", func(t *testing.T) {
		_, err := ParseFile(filepath.Join(t.TempDir(), "nope.vtt"))
		require.Error(t, err)
		assert.True(t, os.IsNotExist(err))
		var pErr *ParseError
		assert.False(t, errors.As(err, &pErr))
	})
}

func TestSubtitleCueIsActive(t *testing.T) {
	cue := model.SubtitleCue{Start: 1, End: 2, Text: "x"}
	assert.False(t, cue.IsActive(0.5))
	assert.True(t, cue.IsActive(1))
	assert.True(t, cue.IsActive(1.9))
	assert.False(t, cue.IsActive(2)) // half-open interval
}
