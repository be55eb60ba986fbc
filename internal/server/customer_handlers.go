package server

import (
	"fmt"
	"path/filepath"
	"strings"

	"communityapi/internal/models"
	"communityapi/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetCustomers handles GET /api/customers (admin only).
func (s *Server) GetCustomers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	customers, err := s.customerService.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"customers": customers,
		"count":     len(customers),
	})
}

// GetMe handles GET /api/customers/me.
func (s *Server) GetMe(c *fiber.Ctx) error {
	customer, err := s.customerService.Get(c.Context(), currentCustomerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"customer": customer})
}

// UpdateCustomer handles PUT /api/customers/:id. A customer may update their
// own profile; only admins may update others or change roles.
func (s *Server) UpdateCustomer(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if id != currentCustomerID(c) && !isAdminRequest(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Cannot update another customer"))
	}

	var req struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Role  *string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.UpdateInput{Name: req.Name, Email: req.Email}
	if req.Role != nil {
		if !isAdminRequest(c) {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Only admins can change roles"))
		}
		role := models.CustomerRole(*req.Role)
		in.Role = &role
	}

	customer, err := s.customerService.Update(c.Context(), id, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"customer": customer})
}

// DeleteCustomer handles DELETE /api/customers/:id. Deletion cascades over
// the customer's posts, reactions, memberships, and media.
func (s *Server) DeleteCustomer(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if id != currentCustomerID(c) && !isAdminRequest(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Cannot delete another customer"))
	}

	if err := s.customerService.Delete(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// UploadProfilePicture handles POST /api/customers/:id/picture.
func (s *Server) UploadProfilePicture(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if id != currentCustomerID(c) && !isAdminRequest(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Cannot update another customer"))
	}

	publicPath, err := s.saveUpload(c, "picture", "avatars")
	if err != nil {
		return respondServiceError(c, err)
	}

	customer, err := s.customerService.UpdateProfilePicture(c.Context(), id, publicPath)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"customer": customer})
}

const maxUploadBytes = 8 << 20 // 8 MiB

var allowedMediaExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// saveUpload stores a multipart file under a uuid name inside subdir and
// returns its public path.
func (s *Server) saveUpload(c *fiber.Ctx, field, subdir string) (string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return "", models.NewValidationError(fmt.Sprintf("Missing %q file", field))
	}
	if header.Size > maxUploadBytes {
		return "", models.NewValidationError("File too large")
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedMediaExt[ext] {
		return "", models.NewValidationError("Unsupported file type")
	}

	f, err := header.Open()
	if err != nil {
		return "", models.NewInternalError(err)
	}
	defer f.Close()

	relPath := fmt.Sprintf("%s/%s%s", subdir, uuid.New().String(), ext)
	publicPath, err := s.media.Save(relPath, f)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return publicPath, nil
}
