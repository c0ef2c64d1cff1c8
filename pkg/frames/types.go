// Package frames discovers pre-rendered video frame sequences on disk and
// plays them back at a fixed rate.
//
// Sequences are produced offline (ffmpeg -i in.mp4 video_%d.jpg) and dropped
// under a root directory, optionally one subdirectory per clip. Files are
// named video_<N>.jpg|jpeg|png; <N> is a decimal index and zero padding does
// not matter because ordering is numeric.
package frames

import (
	"image"
	"sort"
)

// RootKey is the sequence key for frames that sit directly in the scan root.
const RootKey = ""

// Frame is one still image in a sequence. Immutable once discovered;
// a re-scan replaces frames wholesale.
type Frame struct {
	// Path is the absolute (or root-relative, as handed to Scan) file path.
	Path string

	// Index is the decimal number embedded in the filename.
	Index uint64
}

// Sequence is an ordered set of frames sharing one source directory.
// A Sequence returned by Scan is never empty.
type Sequence struct {
	// Key is the source subdirectory path relative to the scan root,
	// or RootKey for the root itself.
	Key string

	// Frames are sorted ascending by Index, ties broken by Path.
	Frames []Frame
}

// Len returns the number of frames.
func (s Sequence) Len() int { return len(s.Frames) }

// Catalog maps sequence keys to playable sequences.
type Catalog map[string]Sequence

// Keys returns the sequence keys in sorted order.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HasPlayable reports whether at least one playable sequence exists.
// The surrounding application uses this to decide if the video page
// should be shown at all.
func (c Catalog) HasPlayable() bool { return len(c) > 0 }

// Sink receives decoded frames sized to the panel resolution.
// pkg/display provides implementations (SPI LCD, preview fan-out, test).
type Sink interface {
	Push(*image.RGBA) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(*image.RGBA) error

// Push calls f.
func (f SinkFunc) Push(img *image.RGBA) error { return f(img) }
