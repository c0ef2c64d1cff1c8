// Package web exposes the panel's local control surface: playback status,
// sequence listing, re-scan and sequence switching, plus websocket feeds
// for a live preview of what the LCD is showing.
package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/ciallothu/bcm2711-deskpet-panel/internal/log"
	"github.com/ciallothu/bcm2711-deskpet-panel/pkg/hub"
	"github.com/ciallothu/bcm2711-deskpet-panel/pkg/sysinfo"
)

// ErrUnknownSequence is returned by the select callback when the requested
// sequence key does not exist in the current catalog.
var ErrUnknownSequence = errors.New("web: unknown sequence key")

// Playback describes the player state for the status endpoint.
type Playback struct {
	State      string  `json:"state"`
	Sequence   string  `json:"sequence"`
	FrameIndex int     `json:"frame_index"`
	FPS        float64 `json:"fps"`
}

// Status is the full status document.
type Status struct {
	System    sysinfo.Snapshot `json:"system"`
	Playback  Playback         `json:"playback"`
	Ticker    string           `json:"ticker"`
	Sequences []string         `json:"sequences"`
}

// Server is the panel control server.
type Server struct {
	app  *fiber.App
	port string

	previewHub *hub.Hub
	statusHub  *hub.Hub

	// OnStatus builds the current status document.
	OnStatus func() Status

	// OnRefresh triggers a catalog re-scan and returns the number of
	// playable sequences found.
	OnRefresh func() (int, error)

	// OnSelect switches playback to the given sequence key.
	OnSelect func(key string) error
}

// NewServer creates the control server on the given port.
func NewServer(port string) *Server {
	s := &Server{
		port:       port,
		previewHub: hub.New("preview"),
		statusHub:  hub.New("status"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "deskpet-panel",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/sequences", s.handleSequences)
	api.Post("/refresh", s.handleRefresh)
	// "+" rather than ":key" so nested sequence keys (pets/cat) match.
	api.Post("/playback/+", s.handleSelect)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/preview", websocket.New(s.handlePreviewWS))
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// PreviewHub returns the hub the display preview sink publishes to.
func (s *Server) PreviewHub() *hub.Hub { return s.previewHub }

// PublishStatus broadcasts a status document to websocket subscribers.
func (s *Server) PublishStatus(st Status) {
	if err := s.statusHub.BroadcastJSON(st); err != nil {
		log.Warn("status broadcast failed", "err", err)
	}
}

// Start runs the hubs and the listener. Blocks.
func (s *Server) Start() error {
	go s.previewHub.Run()
	go s.statusHub.Run()

	log.Info("control server listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// StartAsync runs Start in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("control server failed", "err", err)
		}
	}()
}

// Shutdown gracefully stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
