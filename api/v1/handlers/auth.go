package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog/log"

	"quorum/internal/models"
	"quorum/internal/users"
)

const sessionUserKey = "user_id"

// AuthHandle resolves the session cookie to a user record.
type AuthHandle struct {
	Sessions *session.Store
	Users    *users.Service
}

// Load puts the logged-in user into the request locals when the
// session resolves. Anonymous requests pass through untouched.
func (a *AuthHandle) Load(c *fiber.Ctx) error {
	sess, err := a.Sessions.Get(c)
	if err != nil {
		return c.Next()
	}
	id, ok := sess.Get(sessionUserKey).(int)
	if !ok || id <= 0 {
		return c.Next()
	}

	user, err := a.Users.GetByID(c.Context(), id)
	if err != nil {
		// Stale session for a vanished account, drop it.
		_ = sess.Destroy()
		return c.Next()
	}
	c.Locals("user", user)
	return c.Next()
}

// Require rejects anonymous requests. Runs after Load.
func (a *AuthHandle) Require(c *fiber.Ctx) error {
	if CurrentUser(c) == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"code":    401,
			"message": "Authentication required",
		})
	}
	return c.Next()
}

// Login writes the user into the session.
func (a *AuthHandle) Login(c *fiber.Ctx, user *models.User) error {
	sess, err := a.Sessions.Get(c)
	if err != nil {
		return err
	}
	sess.Set(sessionUserKey, user.Id)
	return sess.Save()
}

// Logout destroys the session.
func (a *AuthHandle) Logout(c *fiber.Ctx) {
	sess, err := a.Sessions.Get(c)
	if err != nil {
		return
	}
	if err := sess.Destroy(); err != nil {
		log.Warn().Err(err).Msg("destroy session")
	}
}

// CurrentUser returns the authenticated user, nil for anonymous
// requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

func currentUserId(c *fiber.Ctx) int {
	if u := CurrentUser(c); u != nil {
		return u.Id
	}
	return 0
}
