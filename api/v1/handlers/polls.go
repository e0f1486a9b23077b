package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog/log"

	"quorum/internal/polls"
	"quorum/pkg/palette"
)

type PollsHandle struct {
	Polls    *polls.Service
	Sessions *session.Store
}

func RegisterPolls(app fiber.Router, handler *PollsHandle, auth *AuthHandle) {
	app.Get("/", auth.Load, handler.Index)

	app.Get("/polls/create", auth.Load, auth.Require, handler.CreateMeta)
	app.Post("/polls", auth.Load, auth.Require, handler.Store)
	app.Get("/polls/:slug", auth.Load, handler.Show)
	app.Post("/polls/vote", auth.Load, auth.Require, handler.Vote)
	app.Delete("/polls/:id<int>", auth.Load, auth.Require, handler.Destroy)
}

// Index lists active polls. filter_by=participated narrows to the
// caller's own polls and renders an empty page for anonymous callers.
func (h *PollsHandle) Index(c *fiber.Ctx) error {
	filterBy := c.Query("filter_by")
	page := polls.ParsePage(c.Query("page"))

	if filterBy == "participated" && CurrentUser(c) == nil {
		return c.JSON(fiber.Map{
			"polls":     polls.Page[any]{Items: []any{}, Page: 1, PerPage: polls.PerPage, LastPage: 1},
			"filter_by": filterBy,
		})
	}

	var (
		result any
		err    error
	)
	if filterBy == "participated" {
		result, err = h.Polls.ListOwnedBy(c.Context(), currentUserId(c), page)
	} else {
		result, err = h.Polls.ListActive(c.Context(), page)
	}
	if err != nil {
		log.Error().Err(err).Msg("list polls")
		return fiber.ErrInternalServerError
	}

	resp := fiber.Map{"polls": result, "filter_by": filterBy}
	if flash := popFlash(h.Sessions, c); flash != "" {
		resp["notification"] = flash
	}
	return c.JSON(resp)
}

// CreateMeta hands the creation form its static inputs.
func (h *PollsHandle) CreateMeta(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"palette":     palette.All(),
		"max_options": 20,
		"min_days":    1,
	})
}

// Store handles new poll submissions.
func (h *PollsHandle) Store(c *fiber.Ctx) error {
	var in polls.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":    400,
			"message": "Malformed request body",
		})
	}

	poll, err := h.Polls.Create(c.Context(), currentUserId(c), in)
	var verrs polls.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":   400,
			"errors": verrs,
		})
	}
	if err != nil {
		log.Error().Err(err).Msg("create poll")
		return fiber.ErrInternalServerError
	}

	setFlash(h.Sessions, c, "Poll has been created successfully")
	return c.Redirect("/polls/"+poll.Slug, fiber.StatusFound)
}

// Show renders one poll with its options, owner and the caller's own
// prior ballot, if any.
func (h *PollsHandle) Show(c *fiber.Ctx) error {
	detail, err := h.Polls.Show(c.Context(), c.Params("slug"), currentUserId(c))
	if errors.Is(err, polls.ErrNotFound) {
		return fiber.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Msg("show poll")
		return fiber.ErrInternalServerError
	}
	return c.JSON(detail)
}

type voteRequest struct {
	Id         int               `json:"id"`
	Selections []polls.Selection `json:"selected_options"`
}

// Vote records a ballot. The response is always {code, message}; the
// HTTP status mirrors the code.
func (h *PollsHandle) Vote(c *fiber.Ctx) error {
	var req voteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(polls.Result{
			Code: 400, Kind: polls.KindInvalidInput, Message: "Malformed request body",
		})
	}

	result := h.Polls.SubmitVote(c.Context(), req.Id, currentUserId(c), req.Selections)
	return c.Status(result.Code).JSON(result)
}

// Destroy deletes a poll the caller owns. Every outcome redirects to
// the dashboard; only a real delete leaves a notification, so the
// response never reveals whether the poll existed or who owns it.
func (h *PollsHandle) Destroy(c *fiber.Ctx) error {
	pollId, err := c.ParamsInt("id")
	if err != nil {
		return c.Redirect("/me", fiber.StatusFound)
	}

	outcome, err := h.Polls.Delete(c.Context(), pollId, currentUserId(c))
	if err != nil {
		log.Error().Err(err).Int("poll_id", pollId).Msg("delete poll")
	}
	if outcome == polls.Deleted {
		setFlash(h.Sessions, c, "Poll deleted successfully")
	}
	return c.Redirect("/me", fiber.StatusFound)
}
