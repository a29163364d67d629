package model

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package, and by the docx writer,
// matches exactly one of these with errors.Is.
var (
	ErrConfiguration   = errors.New("model: invalid configuration")
	ErrRange           = errors.New("model: value out of range")
	ErrInvariant       = errors.New("model: invariant violated")
	ErrShape           = errors.New("model: table is not rectangular")
	ErrStyleResolution = errors.New("model: unresolved style")
	ErrIO              = errors.New("model: i/o failure")
)

// ShapeError reports a table row whose cell count differs from the header.
// Row is the 0-based index into the data rows; -1 refers to the header row.
type ShapeError struct {
	Row  int
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("table shape error: header row has %d cells", e.Got)
	}
	return fmt.Sprintf("table shape error: row %d has %d cells, want %d", e.Row, e.Got, e.Want)
}

func (e *ShapeError) Unwrap() error { return ErrShape }

// StyleResolutionError reports a block whose style reference does not
// resolve in the registry at write time.
type StyleResolutionError struct {
	Style  string
	Block  int    // index of the referencing block, -1 for base styles
	Reason string // empty means the style is not registered
}

func (e *StyleResolutionError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "is not registered"
	}
	if e.Block < 0 {
		return fmt.Sprintf("style %q used as a base style %s", e.Style, reason)
	}
	return fmt.Sprintf("style %q referenced by block %d %s", e.Style, e.Block, reason)
}

func (e *StyleResolutionError) Unwrap() error { return ErrStyleResolution }

// Kind returns the name of the error kind err belongs to, or "Error" when it
// matches none of the package's kinds.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "ConfigurationError"
	case errors.Is(err, ErrRange):
		return "RangeError"
	case errors.Is(err, ErrInvariant):
		return "InvariantError"
	case errors.Is(err, ErrShape):
		return "ShapeError"
	case errors.Is(err, ErrStyleResolution):
		return "StyleResolutionError"
	case errors.Is(err, ErrIO):
		return "IOError"
	default:
		return "Error"
	}
}
