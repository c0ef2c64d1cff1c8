// Package display pushes decoded frames to their final destination: the
// SPI LCD panel, a websocket preview, a file, or any combination.
package display

import (
	"fmt"
	"image"

	gc9307 "github.com/photonicat/periph.io-gc9307"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/ciallothu/bcm2711-deskpet-panel/internal/log"
)

// LCDConfig describes the panel wiring and geometry.
type LCDConfig struct {
	SPIPort  string
	SpeedMHz int

	ResetPin     string
	DCPin        string
	CSPin        string
	BacklightPin string

	Width  int
	Height int

	// Brightness 0-100. The backlight pin is binary, so zero means
	// off and anything above means on.
	Brightness int
}

// LCD drives a GC9307/ST7789-class SPI panel. Push blits one full frame;
// the panel expects RGB565 and the conversion buffer is reused across
// frames to keep the playback loop allocation-free.
type LCD struct {
	dev  gc9307.Device
	port spi.PortCloser
	bl   gpio.PinIO

	width  int
	height int
	buf    []byte
}

// OpenLCD initializes the periph.io host, opens the SPI port and brings
// the panel up with the backlight on.
func OpenLCD(cfg LCDConfig) (*LCD, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	port, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("open spi %s: %w", cfg.SPIPort, err)
	}

	conn, err := port.Connect(physic.Frequency(cfg.SpeedMHz)*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("connect spi %s: %w", cfg.SPIPort, err)
	}

	pins := make(map[string]gpio.PinIO, 4)
	for _, name := range []string{cfg.ResetPin, cfg.DCPin, cfg.CSPin, cfg.BacklightPin} {
		p := gpioreg.ByName(name)
		if p == nil {
			port.Close()
			return nil, fmt.Errorf("gpio pin %q not found", name)
		}
		pins[name] = p
	}

	dev := gc9307.New(conn, pins[cfg.ResetPin], pins[cfg.DCPin], pins[cfg.CSPin], pins[cfg.BacklightPin])
	dev.Configure(gc9307.Config{
		Width:      int16(cfg.Width),
		Height:     int16(cfg.Height),
		Rotation:   gc9307.NO_ROTATION,
		FrameRate:  gc9307.FRAMERATE_60,
		VSyncLines: gc9307.MAX_VSYNC_SCANLINES,
		UseCS:      false,
	})

	l := &LCD{
		dev:    dev,
		port:   port,
		bl:     pins[cfg.BacklightPin],
		width:  cfg.Width,
		height: cfg.Height,
		buf:    make([]byte, cfg.Width*cfg.Height*2),
	}
	l.Backlight(backlightOn(cfg.Brightness))

	log.Info("lcd ready", "port", cfg.SPIPort, "size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
	return l, nil
}

// Push blits one frame to the panel. The image must already be sized to
// the panel resolution; the player scales during decode.
func (l *LCD) Push(img *image.RGBA) error {
	size := img.Bounds().Size()
	if size.X != l.width || size.Y != l.height {
		return fmt.Errorf("frame is %dx%d, panel is %dx%d", size.X, size.Y, l.width, l.height)
	}

	rgb565Into(l.buf, img)
	if err := l.dev.DrawRGBBitmap8(0, 0, l.buf, int16(l.width), int16(l.height)); err != nil {
		return fmt.Errorf("lcd blit: %w", err)
	}
	return nil
}

// backlightOn maps the configured brightness level to the binary pin.
func backlightOn(brightness int) bool {
	return brightness > 0
}

// Backlight switches the backlight pin. The pin is binary; the configured
// brightness only decides on versus off.
func (l *LCD) Backlight(on bool) {
	level := gpio.Low
	if on {
		level = gpio.High
	}
	if err := l.bl.Out(level); err != nil {
		log.Warn("backlight switch failed", "err", err)
	}
}

// Close turns the backlight off and releases the SPI port.
func (l *LCD) Close() error {
	l.Backlight(false)
	return l.port.Close()
}
