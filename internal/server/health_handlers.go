package server

import (
	"context"
	"time"

	"socialwall/internal/bootstrap"
	"socialwall/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// Database status reported when the persistent store fails its live probe.
const statusError = "error"

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Region    string    `json:"region"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// RegionResponse is the body of GET /api/region.
type RegionResponse struct {
	Region    string    `json:"region"`
	Color     string    `json:"color"`
	Timestamp time.Time `json:"timestamp"`
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC(),
	})
}

// HealthCheck handles GET /health. It always answers 200; the database field
// reflects a live probe when the persistent store is in use.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(HealthResponse{
		Status:    "healthy",
		Region:    s.config.Region,
		Database:  s.databaseStatus(c.UserContext()),
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) databaseStatus(ctx context.Context) string {
	if s.postService.StorageMode() != repository.ModePersistent {
		return s.runtime.StartupStatus
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.postService.Ping(ctx); err != nil {
		return statusError
	}
	return bootstrap.StatusConnected
}

// GetRegion handles GET /api/region
// @Summary Region info
// @Description Returns the region label and display color of this instance
// @Tags health
// @Produce json
// @Success 200 {object} RegionResponse
// @Router /region [get]
func (s *Server) GetRegion(c *fiber.Ctx) error {
	return c.JSON(RegionResponse{
		Region:    s.config.Region,
		Color:     s.config.RegionColor,
		Timestamp: time.Now().UTC(),
	})
}
