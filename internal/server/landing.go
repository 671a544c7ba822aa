package server

import (
	"bytes"
	"embed"
	"html/template"

	"socialwall/internal/models"

	"github.com/gofiber/fiber/v2"
)

//go:embed templates/index.html
var templateFS embed.FS

var landingTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type landingData struct {
	Region            string
	RegionColor       string
	MaxUsernameLength int
	MaxMessageLength  int
}

// LandingPage handles GET / with the wall UI tinted in this region's color.
func (s *Server) LandingPage(c *fiber.Ctx) error {
	var buf bytes.Buffer
	err := landingTemplate.Execute(&buf, landingData{
		Region:            s.config.Region,
		RegionColor:       s.config.RegionColor,
		MaxUsernameLength: models.MaxUsernameLength,
		MaxMessageLength:  models.MaxMessageLength,
	})
	if err != nil {
		return err
	}

	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
