package storage

import (
	"path/filepath"
	"strings"
	"unicode"
)

// PlaceholderFilename substitutes names that sanitize down to nothing usable.
const PlaceholderFilename = "unnamed_file"

// SanitizeFilename strips any directory component from name and replaces
// every character that is not a letter, digit, '.', '-' or '_' with '_'.
// This is the sole defense against path traversal and must run before any
// disk or object-store operation.
func SanitizeFilename(name string) string {
	// Browsers on Windows may submit a full path with backslash separators.
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	s := b.String()
	if s == "" || s == "." || s == ".." {
		return PlaceholderFilename
	}
	return s
}
