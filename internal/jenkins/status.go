package jenkins

import "strings"

// Status is the health/build-state indicator of a job, derived from the
// server's color field.
type Status int

const (
	// StatusUnknown is the fallback for color strings outside the fixed
	// palette.
	StatusUnknown Status = iota
	StatusAborted
	StatusRunning // "blue": last build succeeded
	StatusBuilding
	StatusDisabled
	StatusPending // "grey"
	StatusNotBuilt
	StatusUnstable
	StatusFailing
	// StatusNone marks descriptors without a color field (folders and other
	// containers).
	StatusNone
)

// String returns the canonical lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusAborted:
		return "aborted"
	case StatusRunning:
		return "running"
	case StatusBuilding:
		return "building"
	case StatusDisabled:
		return "disabled"
	case StatusPending:
		return "pending"
	case StatusNotBuilt:
		return "not-built"
	case StatusUnstable:
		return "unstable"
	case StatusFailing:
		return "failing"
	case StatusNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseStatus maps a server color string onto the status palette. An absent
// color means the descriptor is a container and yields StatusNone; anything
// unrecognized degrades to StatusUnknown rather than failing.
func ParseStatus(color string) Status {
	if color == "" {
		return StatusNone
	}
	// The server appends "_anime" to the color of a job whose build is in
	// progress, regardless of the base color.
	if strings.HasSuffix(color, "_anime") {
		return StatusBuilding
	}
	switch color {
	case "aborted":
		return StatusAborted
	case "blue":
		return StatusRunning
	case "disabled":
		return StatusDisabled
	case "grey":
		return StatusPending
	case "notbuilt":
		return StatusNotBuilt
	case "yellow":
		return StatusUnstable
	case "red":
		return StatusFailing
	case "none":
		return StatusNone
	default:
		return StatusUnknown
	}
}
