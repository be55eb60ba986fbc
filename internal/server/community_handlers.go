package server

import (
	"communityapi/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateCommunity handles POST /api/communities.
func (s *Server) CreateCommunity(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Image       string `json:"image"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	community, err := s.communityService.Create(c.Context(), req.Title, req.Image, req.Description)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"community": community})
}

// GetCommunities handles GET /api/communities.
func (s *Server) GetCommunities(c *fiber.Ctx) error {
	communities, err := s.communityService.List(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"communities": communities,
		"count":       len(communities),
	})
}

// GetMyCommunities handles GET /api/communities/mine.
func (s *Server) GetMyCommunities(c *fiber.Ctx) error {
	communities, err := s.communityService.ListMine(c.Context(), currentCustomerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"communities": communities,
		"count":       len(communities),
	})
}

// JoinCommunity handles POST /api/communities/:id/join.
func (s *Server) JoinCommunity(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.communityService.Join(c.Context(), currentCustomerID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

// LeaveCommunity handles DELETE /api/communities/:id/join.
func (s *Server) LeaveCommunity(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.communityService.Leave(c.Context(), currentCustomerID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
