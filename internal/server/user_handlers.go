package server

import (
	"scrawl/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UpdateNickname handles PATCH /api/users/nickname
func (s *Server) UpdateNickname(c *fiber.Ctx) error {
	email, err := s.currentUserEmail(c)
	if err != nil {
		return nil
	}

	var req struct {
		Nickname string `json:"nickname"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateNickname(c.Context(), email, req.Nickname)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user.Sanitized(),
	})
}

// UpdatePassword handles PATCH /api/users/password
func (s *Server) UpdatePassword(c *fiber.Ctx) error {
	email, err := s.currentUserEmail(c)
	if err != nil {
		return nil
	}

	var req struct {
		Password string `json:"password"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.userService.UpdatePassword(c.Context(), email, req.Password); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password updated",
	})
}

// UpdateProfileImage handles PATCH /api/users/profile-image
func (s *Server) UpdateProfileImage(c *fiber.Ctx) error {
	email, err := s.currentUserEmail(c)
	if err != nil {
		return nil
	}

	var req struct {
		Image string `json:"image"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfileImage(c.Context(), email, req.Image)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user.Sanitized(),
	})
}

// Withdraw handles DELETE /api/users
func (s *Server) Withdraw(c *fiber.Ctx) error {
	email, err := s.currentUserEmail(c)
	if err != nil {
		return nil
	}

	if err := s.userService.Withdraw(c.Context(), email); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Account deleted",
	})
}
