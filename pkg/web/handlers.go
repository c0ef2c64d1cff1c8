package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/ciallothu/bcm2711-deskpet-panel/pkg/hub"
)

// handleStatus returns the current status document.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	if s.OnStatus == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "status not available",
		})
	}
	return c.JSON(s.OnStatus())
}

// handleSequences returns the playable sequence keys.
func (s *Server) handleSequences(c *fiber.Ctx) error {
	if s.OnStatus == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "status not available",
		})
	}
	return c.JSON(fiber.Map{"sequences": s.OnStatus().Sequences})
}

// handleRefresh triggers a catalog re-scan.
func (s *Server) handleRefresh(c *fiber.Ctx) error {
	if s.OnRefresh == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "refresh not configured",
		})
	}

	n, err := s.OnRefresh()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"sequences": n})
}

// handleSelect switches playback to another sequence.
func (s *Server) handleSelect(c *fiber.Ctx) error {
	if s.OnSelect == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "playback control not configured",
		})
	}

	key := c.Params("+")
	if key == "root" {
		// The root sequence has an empty key, which cannot travel in
		// a URL path segment.
		key = ""
	}

	if err := s.OnSelect(key); err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, ErrUnknownSequence) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"sequence": key})
}

// handlePreviewWS serves the binary JPEG preview feed.
func (s *Server) handlePreviewWS(c *websocket.Conn) {
	hub.NewClient(s.previewHub, c).Run()
}

// handleStatusWS serves the JSON status feed.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	hub.NewClient(s.statusHub, c).Run()
}
