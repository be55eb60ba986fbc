package server

import (
	"communityapi/internal/models"
	"communityapi/internal/reaction"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		CommunityID uint   `json:"community_id"`
		Text        string `json:"text"`
		MediaURL    string `json:"media_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.CommunityID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("community_id is required"))
	}

	post, err := s.postService.Create(c.Context(), currentCustomerID(c), req.CommunityID, req.Text, req.MediaURL)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post": post})
}

// GetCommunityPosts handles GET /api/posts/community/:id. Member-only;
// newest first; each post carries the caller's own reaction.
func (s *Server) GetCommunityPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	posts, err := s.postService.ListCommunityPosts(c.Context(), currentCustomerID(c), id, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"posts": posts,
		"count": len(posts),
	})
}

// GetPost handles GET /api/posts/:id.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.Context(), currentCustomerID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"post": post})
}

// UpdatePost handles PUT /api/posts/:id (author only).
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Update(c.Context(), currentCustomerID(c), id, req.Text)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"post": post})
}

// DeletePost handles DELETE /api/posts/:id (author or admin).
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(c.Context(), currentCustomerID(c), isAdminRequest(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// ReactToPost handles POST /api/posts/:id/reaction with body {"type": ...}.
// type is one of "like", "dislike", "none" (or empty for none).
func (s *Server) ReactToPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Type string `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	desired, ok := reaction.ParseType(req.Type)
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("type must be like, dislike, or none"))
	}

	post, err := s.postService.React(c.Context(), currentCustomerID(c), id, desired)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"post": post})
}

// UploadPostMedia handles POST /api/posts/:id/media (author only).
func (s *Server) UploadPostMedia(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.Context(), currentCustomerID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	if post.CustomerID != currentCustomerID(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Only the author can attach media"))
	}

	publicPath, err := s.saveUpload(c, "media", "posts")
	if err != nil {
		return respondServiceError(c, err)
	}

	post.MediaURL = publicPath
	if err := s.postRepo.Update(c.Context(), post); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"post": post})
}
