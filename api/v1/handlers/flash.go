package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const flashKey = "notification"

// setFlash stores a one-shot success notification in the session.
// Best effort, a lost flash is not worth failing the request over.
func setFlash(sessions *session.Store, c *fiber.Ctx, message string) {
	if sessions == nil {
		return
	}
	sess, err := sessions.Get(c)
	if err != nil {
		return
	}
	sess.Set(flashKey, message)
	_ = sess.Save()
}

// popFlash returns the pending notification, clearing it.
func popFlash(sessions *session.Store, c *fiber.Ctx) string {
	if sessions == nil {
		return ""
	}
	sess, err := sessions.Get(c)
	if err != nil {
		return ""
	}
	message, _ := sess.Get(flashKey).(string)
	if message != "" {
		sess.Delete(flashKey)
		_ = sess.Save()
	}
	return message
}
