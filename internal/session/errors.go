package session

import (
	"errors"
	"fmt"
)

var (
	// ErrTargetInvalid is returned when the scan target fails validation.
	// No scanner or build process is started.
	ErrTargetInvalid = errors.New("invalid scan target")
	// ErrBuildFailed is returned when the image under scan could not be built.
	ErrBuildFailed = errors.New("image build failed")
	// ErrNoScanners is returned when none of the requested scanners apply to
	// the target kind.
	ErrNoScanners = errors.New("no applicable scanners")
)

// TargetError describes why a target was rejected.
type TargetError struct {
	Path   string
	Reason string
}

func (e *TargetError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrTargetInvalid, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", ErrTargetInvalid, e.Path, e.Reason)
}

func (e *TargetError) Unwrap() error { return ErrTargetInvalid }

// BuildError wraps a failed image build.
type BuildError struct {
	Tag string
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s for %s: %v", ErrBuildFailed, e.Tag, e.Err)
}

func (e *BuildError) Unwrap() []error { return []error{ErrBuildFailed, e.Err} }
