package frames

import (
	"fmt"
	"image"
	"os"

	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// decodeFrame reads one frame file and returns it as RGBA scaled to size.
// A zero size skips scaling. Errors wrap ErrDecode so the player can tell
// per-frame failures apart from anything fatal.
func decodeFrame(path string, size image.Point) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrDecode, path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrDecode, path, err)
	}

	if size.X <= 0 || size.Y <= 0 || src.Bounds().Size() == size {
		dst := image.NewRGBA(image.Rectangle{Max: src.Bounds().Size()})
		xdraw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, xdraw.Src)
		return dst, nil
	}

	dst := image.NewRGBA(image.Rectangle{Max: size})
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst, nil
}
