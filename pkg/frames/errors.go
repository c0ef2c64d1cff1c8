package frames

import "errors"

var (
	// ErrInvalidRoot is returned when the scan root is missing or not a directory.
	ErrInvalidRoot = errors.New("frames: invalid scan root")

	// ErrDecode is returned when a frame file is unreadable or corrupt.
	ErrDecode = errors.New("frames: frame decode failed")

	// ErrInvalidRate is returned when the configured fps is not positive.
	ErrInvalidRate = errors.New("frames: fps must be positive")

	// ErrEmptySequence is returned when playback is started on a sequence
	// with no frames.
	ErrEmptySequence = errors.New("frames: sequence has no frames")

	// ErrAlreadyPlaying is returned when Play is called while a previous
	// Play on the same player is still running.
	ErrAlreadyPlaying = errors.New("frames: player already playing")
)
