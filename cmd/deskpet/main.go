// The desk pet panel daemon: plays pre-rendered frame sequences on the
// SPI LCD and serves the local control API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ciallothu/bcm2711-deskpet-panel/internal/config"
	"github.com/ciallothu/bcm2711-deskpet-panel/internal/log"
	"github.com/ciallothu/bcm2711-deskpet-panel/pkg/display"
	"github.com/ciallothu/bcm2711-deskpet-panel/pkg/frames"
	"github.com/ciallothu/bcm2711-deskpet-panel/pkg/panel"
)

func main() {
	var (
		configPath = flag.String("config", "/etc/deskpet/config.yaml", "Path to the YAML config file")
		framesDir  = flag.String("frames", "", "Frames root directory (overrides config)")
		fps        = flag.Float64("fps", 0, "Video frame rate (overrides config)")
		outFile    = flag.String("out", "", "Write frames to this JPEG file instead of the LCD")
		list       = flag.Bool("list", false, "List discovered sequences and exit")
		debug      = flag.Bool("debug", false, "Enable verbose debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *framesDir != "" {
		cfg.Video.FramesDir = *framesDir
	}
	if *fps > 0 {
		cfg.Display.FPSVideo = *fps
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	log.Init(cfg.LogLevel)

	if *list {
		if err := listSequences(cfg.Video.FramesDir); err != nil {
			fmt.Fprintf(os.Stderr, "scan error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	sink, cleanup, err := openSink(cfg, *outFile)
	if err != nil {
		log.Error("display init failed", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	app, err := panel.New(cfg, sink)
	if err != nil {
		log.Error("startup failed", "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		log.Error("runtime error", "err", err)
		os.Exit(1)
	}
}

// openSink opens the LCD, or a file sink when -out is given.
func openSink(cfg config.Config, outFile string) (frames.Sink, func(), error) {
	if outFile != "" {
		return display.FileSink{Path: outFile}, func() {}, nil
	}

	lcd, err := display.OpenLCD(display.LCDConfig{
		SPIPort:      cfg.LCD.SPIPort,
		SpeedMHz:     cfg.LCD.SpeedMHz,
		ResetPin:     cfg.LCD.ResetPin,
		DCPin:        cfg.LCD.DCPin,
		CSPin:        cfg.LCD.CSPin,
		BacklightPin: cfg.LCD.BacklightPin,
		Width:        cfg.Display.Width,
		Height:       cfg.Display.Height,
		Brightness:   cfg.Display.Brightness,
	})
	if err != nil {
		return nil, nil, err
	}
	return lcd, func() { lcd.Close() }, nil
}

// listSequences prints the catalog for the given root.
func listSequences(root string) error {
	catalog, err := frames.Scan(root)
	if err != nil {
		return err
	}
	if !catalog.HasPlayable() {
		fmt.Printf("no playable sequences under %s\n", root)
		return nil
	}
	for _, key := range catalog.Keys() {
		name := key
		if name == frames.RootKey {
			name = "(root)"
		}
		fmt.Printf("%-30s %d frames\n", name, catalog[key].Len())
	}
	return nil
}
