// lcd-test verifies the panel wiring: it draws color bars, blinks the
// backlight and exits. Run it before blaming the daemon for a dark screen.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/ciallothu/bcm2711-deskpet-panel/internal/config"
	"github.com/ciallothu/bcm2711-deskpet-panel/internal/log"
	"github.com/ciallothu/bcm2711-deskpet-panel/pkg/display"
)

func main() {
	var (
		configPath = flag.String("config", "/etc/deskpet/config.yaml", "Path to the YAML config file")
		hold       = flag.Duration("hold", 5*time.Second, "How long to hold the test pattern")
	)
	flag.Parse()
	log.Init("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
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
		Brightness:   100, // wiring test wants the backlight on no matter what
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "lcd error: %v\n", err)
		os.Exit(1)
	}
	defer lcd.Close()

	pattern := display.TestPattern(image.Point{X: cfg.Display.Width, Y: cfg.Display.Height})
	if err := lcd.Push(pattern); err != nil {
		fmt.Fprintf(os.Stderr, "blit error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("color bars up; blinking backlight")

	for i := 0; i < 3; i++ {
		time.Sleep(300 * time.Millisecond)
		lcd.Backlight(false)
		time.Sleep(300 * time.Millisecond)
		lcd.Backlight(true)
	}

	time.Sleep(*hold)
	fmt.Println("done")
}
