package frames

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/ciallothu/bcm2711-deskpet-panel/internal/log"
)

// PlayState is the player lifecycle state.
type PlayState int

const (
	// StateStopped means no sequence is playing.
	StateStopped PlayState = iota

	// StatePlaying means a sequence is actively playing.
	StatePlaying
)

// String returns a human-readable state name.
func (s PlayState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// Player plays a frame sequence into a sink at a fixed rate, looping
// until stopped. One playback stream is active at a time; PlaybackState
// (current sequence, index, last emission time) is owned exclusively by
// the running Play call.
type Player struct {
	interval time.Duration
	size     image.Point

	mu     sync.RWMutex
	state  PlayState
	seq    Sequence
	index  int
	stopCh chan struct{}
}

// NewPlayer creates a player emitting at fps into frames scaled to size.
// Returns ErrInvalidRate when fps is not positive.
func NewPlayer(fps float64, size image.Point) (*Player, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRate, fps)
	}
	return &Player{
		interval: time.Duration(float64(time.Second) / fps),
		size:     size,
		state:    StateStopped,
	}, nil
}

// Interval returns the pacing interval derived from the configured fps.
func (p *Player) Interval() time.Duration { return p.interval }

// Play decodes and pushes frames from seq into sink, one per interval,
// wrapping from the last frame back to the first with no gap in pacing.
// Blocks until the context is cancelled or Stop is called; looping is
// unconditional otherwise. Every call starts over at frame 0 regardless
// of where a previous run left off.
//
// A frame that fails to decode is logged and skipped without consuming a
// pacing slot; playback never halts on per-frame errors. A sink push
// failure is fatal: the panel is gone, not the frame.
func (p *Player) Play(ctx context.Context, seq Sequence, sink Sink) error {
	if seq.Len() == 0 {
		return ErrEmptySequence
	}

	p.mu.Lock()
	if p.state == StatePlaying {
		p.mu.Unlock()
		return ErrAlreadyPlaying
	}
	p.state = StatePlaying
	p.seq = seq
	p.index = 0
	p.stopCh = make(chan struct{})
	stopCh := p.stopCh
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.state = StateStopped
		p.mu.Unlock()
	}()

	var lastEmit time.Time
	skipped := 0

	for {
		// Cooperative cancellation, checked before each decode.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		default:
		}

		p.mu.RLock()
		frame := seq.Frames[p.index]
		p.mu.RUnlock()

		img, err := decodeFrame(frame.Path, p.size)
		if err != nil {
			log.Warn("skipping frame", "path", frame.Path, "err", err)
			p.advance(seq.Len())
			skipped++
			if skipped >= seq.Len() {
				// Nothing in the whole cycle decoded; hold one
				// interval so a fully corrupt sequence does not
				// turn into a busy loop.
				skipped = 0
				if stop, err := p.pause(ctx, stopCh, p.interval); stop {
					return err
				}
			}
			continue
		}
		skipped = 0

		if !lastEmit.IsZero() {
			if wait := waitRemaining(p.interval, lastEmit, time.Now()); wait > 0 {
				if stop, err := p.pause(ctx, stopCh, wait); stop {
					return err
				}
			}
		}

		if err := sink.Push(img); err != nil {
			return fmt.Errorf("push frame %s: %w", frame.Path, err)
		}
		lastEmit = time.Now()
		p.advance(seq.Len())
	}
}

// pause sleeps for d, waking early on cancellation. The returned stop
// flag tells the caller to exit; err carries the context error, if any.
func (p *Player) pause(ctx context.Context, stopCh chan struct{}, d time.Duration) (bool, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return true, ctx.Err()
	case <-stopCh:
		return true, nil
	case <-timer.C:
		return false, nil
	}
}

// advance steps the frame index, wrapping modulo the sequence length.
func (p *Player) advance(n int) {
	p.mu.Lock()
	p.index = (p.index + 1) % n
	p.mu.Unlock()
}

// Stop halts playback at the next iteration boundary. In-flight decode
// and push calls run to completion, and the player reports StatePlaying
// until the loop actually exits, so a new Play cannot slip in alongside
// a draining one.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StatePlaying && p.stopCh != nil {
		close(p.stopCh)
		p.stopCh = nil
	}
}

// State returns the current playback state.
func (p *Player) State() PlayState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Current returns the sequence key and frame index of the running
// playback, or ("", 0) when stopped.
func (p *Player) Current() (string, int) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.state != StatePlaying {
		return "", 0
	}
	return p.seq.Key, p.index
}
