package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	v1 "quorum/api/v1"
	"quorum/internal/polls"
	"quorum/internal/store"
	"quorum/internal/users"
	"quorum/pkg/async"
	"quorum/pkg/logger"
	"quorum/pkg/server"
	"quorum/pkg/third/google"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp/reuseport"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("failed to load .env, check that it exists:", err)
		os.Exit(1)
	}
	logger.Configure(zerolog.InfoLevel)

	app := server.NewFiber()
	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Second * 60,
	}))

	ctx := context.Background()
	db, err := store.NewClient(ctx, os.Getenv("APP_DB"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	// A hung database should fail startup, not wedge it.
	select {
	case err := <-async.ErrAble(func() error { return db.Ping(ctx) }):
		if err != nil {
			log.Fatal().Err(err).Msg("database unreachable")
		}
	case <-time.After(10 * time.Second):
		log.Fatal().Msg("database ping timed out")
	}

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema")
	}

	userService := users.NewService(db.Users())
	pollService := polls.NewService(db, db.Users())
	oauth := google.NewClient(
		os.Getenv("GOOGLE_CLIENT_ID"),
		os.Getenv("GOOGLE_CLIENT_SECRET"),
		os.Getenv("GOOGLE_REDIRECT_URL"),
		os.Getenv("SESSION_SECRET"),
	)

	v1.SetupRoutes(app, v1.Deps{
		Polls: pollService,
		Users: userService,
		OAuth: oauth,
	})

	run(app, db)
}

func run(app *fiber.App, db *store.Client) {
	port := os.Getenv("APP_PORT")
	if os.Getenv("APP_BUILD_MODE") == "dev" {
		log.Info().Msg("development mode enabled")
		log.Fatal().Err(app.Listen(port)).Send()
	} else {
		go func() {
			ln, err := reuseport.Listen("tcp4", port)
			if err != nil {
				log.Panic().Err(err).Msg("failed to listen")
			}

			if err = app.Listener(ln); err != nil {
				log.Panic().Err(err).Msg("failed to serve")
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGHUP)
		<-c

		log.Info().Msg("hot-restarting server...")
		exe, _ := os.Executable()
		cmd := exec.Command(exe)
		if err := cmd.Start(); err != nil {
			log.Error().Err(err).Msg("failed to start replacement process")
			return
		}
		_ = app.Shutdown()
		log.Info().Msg("closing database pool...")
		db.Close()
	}
}
