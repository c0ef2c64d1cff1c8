// Package panel wires the catalog, player, display and control surface
// into the desk pet daemon. It owns sequence selection: the player only
// guarantees per-sequence ordering and pacing, while this package decides
// what plays, when to re-scan, and what the status surface reports.
package panel

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ciallothu/bcm2711-deskpet-panel/internal/config"
	"github.com/ciallothu/bcm2711-deskpet-panel/internal/log"
	"github.com/ciallothu/bcm2711-deskpet-panel/pkg/display"
	"github.com/ciallothu/bcm2711-deskpet-panel/pkg/frames"
	"github.com/ciallothu/bcm2711-deskpet-panel/pkg/sysinfo"
	"github.com/ciallothu/bcm2711-deskpet-panel/pkg/ticker"
	"github.com/ciallothu/bcm2711-deskpet-panel/pkg/web"
)

// statusPeriod is how often the status document is pushed to subscribers.
const statusPeriod = time.Second

// App is the main panel application orchestrator.
type App struct {
	cfg    config.Config
	player *frames.Player
	sink   frames.Sink

	ticker    *ticker.Queue
	collector *sysinfo.Collector
	server    *web.Server

	mu       sync.Mutex
	catalog  frames.Catalog
	selected string
	pinned   bool
	playStop context.CancelFunc
	wakeCh   chan struct{}

	offlineAlert uuid.UUID
	hasAlert     bool
}

// New builds the application. sink is the primary output (the LCD, or a
// file sink during development); the websocket preview is teed in
// automatically when the control server is enabled.
func New(cfg config.Config, sink frames.Sink) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	size := image.Point{X: cfg.Display.Width, Y: cfg.Display.Height}
	player, err := frames.NewPlayer(cfg.Display.FPSVideo, size)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:    cfg,
		player: player,
		sink:   sink,
		ticker: ticker.NewQueue(),
		wakeCh: make(chan struct{}, 1),
	}

	a.collector = sysinfo.NewCollector(sysinfo.Probe{
		Host:    cfg.Network.ConnectTestHost,
		Port:    cfg.Network.ConnectTestPort,
		Timeout: time.Duration(cfg.Network.ConnectTimeout) * time.Second,
	}, time.Duration(cfg.Network.RefreshSeconds)*time.Second)

	if cfg.Web.Enabled {
		a.server = web.NewServer(cfg.Web.Port)
		a.server.OnStatus = a.Status
		a.server.OnRefresh = a.Refresh
		a.server.OnSelect = a.Select
		a.sink = display.Tee(sink, display.NewPreview(a.server.PreviewHub()))
	}

	return a, nil
}

// Run scans once, then plays the selected sequence until the context is
// cancelled, restarting playback whenever the selection changes. A failed
// startup scan is not fatal to the daemon: the video page simply stays
// inactive until a refresh succeeds.
func (a *App) Run(ctx context.Context) error {
	if _, err := a.Refresh(); err != nil {
		log.Error("initial scan failed", "root", a.cfg.Video.FramesDir, "err", err)
	}

	go a.collector.Run(ctx)
	go a.statusLoop(ctx)
	if a.server != nil {
		a.server.StartAsync()
		defer a.server.Shutdown()
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		seq, ok := a.pickSequence()
		if !ok {
			// Nothing playable; sleep until a refresh wakes us.
			select {
			case <-ctx.Done():
				return nil
			case <-a.wakeCh:
			}
			continue
		}

		playCtx, cancel := context.WithCancel(ctx)
		a.mu.Lock()
		a.playStop = cancel
		a.mu.Unlock()

		log.Info("playing sequence", "key", seq.Key, "frames", seq.Len(), "fps", a.cfg.Display.FPSVideo)
		err := a.player.Play(playCtx, seq, a.sink)
		cancel()

		switch {
		case ctx.Err() != nil:
			return nil
		case err == nil, errors.Is(err, context.Canceled):
			// Stopped to switch sequences; loop re-picks.
		default:
			log.Error("playback failed", "key", seq.Key, "err", err)
			a.ticker.Push("ALERT: playback failed, check display", 1, 30*time.Second)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(3 * time.Second):
			}
		}
	}
}

// Refresh re-scans the frames root and swaps in the fresh catalog.
// Playback of an already captured sequence is unaffected; sequences are
// immutable snapshots.
func (a *App) Refresh() (int, error) {
	catalog, err := frames.Scan(a.cfg.Video.FramesDir)
	if err != nil {
		return 0, err
	}

	a.mu.Lock()
	a.catalog = catalog
	if _, ok := catalog[a.selected]; !ok {
		a.selected = ""
		a.pinned = false
	}
	a.mu.Unlock()

	if !catalog.HasPlayable() {
		log.Warn("no playable sequences", "root", a.cfg.Video.FramesDir)
		a.ticker.Push("TIP: no video frames found, drop video_N.jpg files in "+a.cfg.Video.FramesDir, 20, time.Minute)
	}

	a.wake()
	return len(catalog), nil
}

// Select switches playback to the sequence with the given key.
func (a *App) Select(key string) error {
	a.mu.Lock()
	_, ok := a.catalog[key]
	if ok {
		a.selected = key
		a.pinned = true
	}
	stop := a.playStop
	a.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", web.ErrUnknownSequence, key)
	}

	if stop != nil {
		stop()
	}
	a.wake()
	return nil
}

// Status builds the status document for the control surface.
func (a *App) Status() web.Status {
	a.mu.Lock()
	keys := a.catalog.Keys()
	a.mu.Unlock()

	state := a.player.State()
	seqKey, idx := a.player.Current()

	return web.Status{
		System: a.collector.Snapshot(),
		Playback: web.Playback{
			State:      state.String(),
			Sequence:   seqKey,
			FrameIndex: idx,
			FPS:        a.cfg.Display.FPSVideo,
		},
		Ticker:    a.ticker.Next(),
		Sequences: keys,
	}
}

// pickSequence returns the selected sequence, or the first playable key
// in sorted order when nothing is pinned. The preferred sequence from the
// config wins when present.
func (a *App) pickSequence() (frames.Sequence, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.catalog) == 0 {
		return frames.Sequence{}, false
	}

	if !a.pinned {
		if _, ok := a.catalog[a.cfg.Video.Sequence]; ok && a.cfg.Video.Sequence != "" {
			a.selected = a.cfg.Video.Sequence
		} else {
			keys := make([]string, 0, len(a.catalog))
			for k := range a.catalog {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			a.selected = keys[0]
		}
	}

	seq, ok := a.catalog[a.selected]
	return seq, ok
}

// statusLoop pushes status updates and maintains the offline alert.
func (a *App) statusLoop(ctx context.Context) {
	tick := time.NewTicker(statusPeriod)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}

		snap := a.collector.Snapshot()
		a.mu.Lock()
		if !snap.Online && !a.hasAlert {
			a.offlineAlert = a.ticker.Push("ALERT: network offline, check uplink", 1, time.Hour)
			a.hasAlert = true
		} else if snap.Online && a.hasAlert {
			a.ticker.Remove(a.offlineAlert)
			a.hasAlert = false
		}
		a.mu.Unlock()

		if a.server != nil {
			a.server.PublishStatus(a.Status())
		}
	}
}

// wake nudges the Run loop out of its idle wait.
func (a *App) wake() {
	select {
	case a.wakeCh <- struct{}{}:
	default:
	}
}
