package display

import "image"

// rgb565Into packs img into buf as big-endian RGB565, the panel's native
// pixel format. buf must hold 2 bytes per pixel.
func rgb565Into(buf []byte, img *image.RGBA) {
	b := img.Bounds()
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		row := img.Pix[off : off+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			r, g, bl := row[x], row[x+1], row[x+2]
			px := uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(bl)>>3
			buf[i] = byte(px >> 8)
			buf[i+1] = byte(px)
			i += 2
		}
	}
}
