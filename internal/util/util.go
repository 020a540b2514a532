// internal/util/util.go
package util

import (
	"os"
	"path/filepath"
	"unicode/utf8"
)

// WriteFile writes data to path with 0o644 permissions, creating missing
// parent directories.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// TruncateRunes shortens text to at most maxRunes runes, ending truncated
// text with an ellipsis that counts toward the limit.
func TruncateRunes(text string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes-1]) + "…"
}
