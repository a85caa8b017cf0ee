package output

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ColorMode is a value of the --color flag.
type ColorMode string

// Accepted color modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// EnvNoColor turns color off in auto mode when set to anything non-empty.
// See https://no-color.org.
const EnvNoColor = "NO_COLOR"

// ErrColorMode is returned by ParseColorMode for an unknown value.
var ErrColorMode = errors.New("color mode must be auto, always or never")

// ParseColorMode validates a --color value. The empty string means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch mode := ColorMode(s); mode {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	default:
		return ColorAuto, fmt.Errorf("%w: got %q", ErrColorMode, s)
	}
}

// ResolveColorMode determines the effective isTTY value for a printer:
//   - never:  always disable colors
//   - always: always enable colors, even when piped into a log
//   - auto:   follow isTTY unless NO_COLOR is set
func ResolveColorMode(mode ColorMode, isTTY bool) bool {
	switch mode {
	case ColorNever:
		return false
	case ColorAlways:
		return true
	default:
		return isTTY && os.Getenv(EnvNoColor) == ""
	}
}

// IsTTY checks if a writer is a terminal.
// Returns true only for os.File that is a terminal.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
