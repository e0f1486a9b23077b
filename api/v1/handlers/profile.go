package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog/log"

	"quorum/internal/polls"
	"quorum/internal/users"
)

type ProfileHandle struct {
	Polls    *polls.Service
	Users    *users.Service
	Sessions *session.Store
}

func RegisterProfile(app fiber.Router, handler *ProfileHandle, auth *AuthHandle) {
	app.Get("/me", auth.Load, auth.Require, handler.Dashboard)
	app.Post("/me/name", auth.Load, auth.Require, handler.UpdateName)
	app.Post("/me/avatar", auth.Load, auth.Require, handler.UpdateAvatar)
}

// Dashboard lists the caller's own polls.
func (h *ProfileHandle) Dashboard(c *fiber.Ctx) error {
	page := polls.ParsePage(c.Query("page"))
	result, err := h.Polls.ListOwnedBy(c.Context(), currentUserId(c), page)
	if err != nil {
		log.Error().Err(err).Msg("list own polls")
		return fiber.ErrInternalServerError
	}

	user := CurrentUser(c)
	resp := fiber.Map{
		"user":     user,
		"initials": user.Initials(),
		"polls":    result,
	}
	if flash := popFlash(h.Sessions, c); flash != "" {
		resp["notification"] = flash
	}
	return c.JSON(resp)
}

type nameRequest struct {
	FullName string `json:"full_name"`
}

// UpdateName changes the display name shown next to the caller's
// polls.
func (h *ProfileHandle) UpdateName(c *fiber.Ctx) error {
	var req nameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":    400,
			"message": "Malformed request body",
		})
	}

	err := h.Users.UpdateName(c.Context(), currentUserId(c), req.FullName)
	var verrs polls.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":   400,
			"errors": verrs,
		})
	}
	if err != nil {
		log.Error().Err(err).Msg("update name")
		return fiber.ErrInternalServerError
	}

	setFlash(h.Sessions, c, "Updated name successfully")
	return c.Redirect("/me", fiber.StatusFound)
}

type avatarRequest struct {
	Avatar string `json:"avatar"`
}

// UpdateAvatar points the profile at a new avatar URL. File uploads
// are not handled here; the client stores the image elsewhere.
func (h *ProfileHandle) UpdateAvatar(c *fiber.Ctx) error {
	var req avatarRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":    400,
			"message": "Malformed request body",
		})
	}

	err := h.Users.UpdateAvatar(c.Context(), currentUserId(c), req.Avatar)
	var verrs polls.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":   400,
			"errors": verrs,
		})
	}
	if err != nil {
		log.Error().Err(err).Msg("update avatar")
		return fiber.ErrInternalServerError
	}

	setFlash(h.Sessions, c, "Updated avatar successfully")
	return c.Redirect("/me", fiber.StatusFound)
}
