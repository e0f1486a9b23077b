package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"quorum/internal/users"
	"quorum/pkg/third/google"
)

type LoginHandle struct {
	OAuth *google.Client
	Users *users.Service
}

func RegisterLogin(app fiber.Router, handler *LoginHandle, auth *AuthHandle) {
	app.Get("/login", auth.Load, handler.Login(auth))
	app.Get("/google/callback", handler.Callback(auth))
	app.Get("/logout", handler.Logout(auth))
}

// Login bounces the browser to the Google consent page. Logged-in
// callers go straight home.
func (h *LoginHandle) Login(auth *AuthHandle) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) != nil {
			return c.Redirect("/", fiber.StatusFound)
		}
		return c.Redirect(h.OAuth.AuthURL(), fiber.StatusFound)
	}
}

// Callback completes the OAuth round-trip: verify state, exchange the
// code, resolve or create the account, open the session. Any failure
// lands back on the home page; the consent flow is retryable.
func (h *LoginHandle) Callback(auth *AuthHandle) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("error") != "" {
			log.Warn().Str("error", c.Query("error")).Msg("google consent denied")
			return c.Redirect("/", fiber.StatusFound)
		}

		profile, token, err := h.OAuth.Exchange(c.Context(), c.Query("state"), c.Query("code"))
		if err != nil {
			log.Warn().Err(err).Msg("oauth exchange failed")
			return c.Redirect("/", fiber.StatusFound)
		}

		user, err := h.Users.FindOrCreateByEmail(c.Context(), profile.Email, users.Attrs{
			FullName: profile.Name,
			Avatar:   profile.AvatarUrl,
			Token:    token,
		})
		if err != nil {
			log.Error().Err(err).Msg("resolve account")
			return c.Redirect("/", fiber.StatusFound)
		}

		if err := auth.Login(c, user); err != nil {
			log.Error().Err(err).Msg("open session")
		}
		return c.Redirect("/", fiber.StatusFound)
	}
}

// Logout destroys the session.
func (h *LoginHandle) Logout(auth *AuthHandle) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth.Logout(c)
		return c.Redirect("/", fiber.StatusFound)
	}
}
