package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"quorum/api/v1/handlers"
	"quorum/internal/polls"
	"quorum/internal/users"
	"quorum/pkg/third/google"
)

// Deps is everything the route tree needs.
type Deps struct {
	Polls *polls.Service
	Users *users.Service
	OAuth *google.Client
}

func SetupRoutes(app *fiber.App, deps Deps) {
	sessions := session.New(session.Config{
		KeyLookup:      "cookie:quorum_session",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	auth := &handlers.AuthHandle{Sessions: sessions, Users: deps.Users}

	handlers.RegisterLogin(app, &handlers.LoginHandle{
		OAuth: deps.OAuth,
		Users: deps.Users,
	}, auth)

	handlers.RegisterPolls(app, &handlers.PollsHandle{
		Polls:    deps.Polls,
		Sessions: sessions,
	}, auth)

	handlers.RegisterProfile(app, &handlers.ProfileHandle{
		Polls:    deps.Polls,
		Users:    deps.Users,
		Sessions: sessions,
	}, auth)

	api := app.Group("/api/v1")
	handlers.RegisterSystem(api.Group("/system"))
}
