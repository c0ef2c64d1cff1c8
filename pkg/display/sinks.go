package display

import (
	"bytes"
	"image"
	"image/jpeg"
	"os"

	"github.com/ciallothu/bcm2711-deskpet-panel/internal/log"
	"github.com/ciallothu/bcm2711-deskpet-panel/pkg/frames"
)

// Broadcaster is the fan-out surface the preview sink publishes to.
// pkg/hub satisfies it.
type Broadcaster interface {
	BroadcastBinary(data []byte)
	ClientCount() int
}

// Preview mirrors frames to dashboard clients as JPEG over websocket.
// Encoding is skipped entirely while nobody is watching.
type Preview struct {
	hub     Broadcaster
	quality int
}

// NewPreview creates a preview sink publishing to hub.
func NewPreview(hub Broadcaster) *Preview {
	return &Preview{hub: hub, quality: 70}
}

// Push encodes and broadcasts one frame. Preview failures never surface
// to the playback loop; the panel is the primary output.
func (p *Preview) Push(img *image.RGBA) error {
	if p.hub.ClientCount() == 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
		log.Warn("preview encode failed", "err", err)
		return nil
	}
	p.hub.BroadcastBinary(buf.Bytes())
	return nil
}

// FileSink writes the latest frame to a JPEG file, replacing it in place.
// Handy on machines without the panel attached.
type FileSink struct {
	Path string
}

// Push writes img to the configured path via a rename so readers never
// see a half-written file.
func (f FileSink) Push(img *image.RGBA) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return err
	}

	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}

// Tee fans a frame out to every sink. The first error wins; later sinks
// still receive the frame.
func Tee(sinks ...frames.Sink) frames.Sink {
	return frames.SinkFunc(func(img *image.RGBA) error {
		var first error
		for _, s := range sinks {
			if err := s.Push(img); err != nil && first == nil {
				first = err
			}
		}
		return first
	})
}

// TestPattern renders the classic eight-bar pattern at size, used by
// cmd/lcd-test to verify wiring before any frames exist.
func TestPattern(size image.Point) *image.RGBA {
	bars := [][3]uint8{
		{255, 255, 255}, {255, 255, 0}, {0, 255, 255}, {0, 255, 0},
		{255, 0, 255}, {255, 0, 0}, {0, 0, 255}, {0, 0, 0},
	}

	img := image.NewRGBA(image.Rectangle{Max: size})
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			c := bars[x*len(bars)/size.X]
			off := img.PixOffset(x, y)
			img.Pix[off] = c[0]
			img.Pix[off+1] = c[1]
			img.Pix[off+2] = c[2]
			img.Pix[off+3] = 255
		}
	}
	return img
}
