package render

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/zeebo/blake3"
)

// WriteFile writes text verbatim to path, replacing any existing file.
// The replacement is atomic: readers see the old or the new document, never a mix.
func WriteFile(path, text string) error {
	if err := atomic.WriteFile(path, strings.NewReader(text)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Digest returns the hex BLAKE3-256 sum of text.
func Digest(text string) string {
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
