package store_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"quorum/internal/models"
	"quorum/internal/polls"
	"quorum/internal/store"
)

// These tests need a real database; they skip unless TEST_DATABASE_URL
// points at one.
func setup(t *testing.T) *store.Client {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	c, err := store.NewClient(ctx, dsn)
	if err != nil {
		t.Fatalf("open client: %v", err)
	}
	t.Cleanup(c.Close)

	if err := c.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := c.TruncateAll(ctx); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return c
}

func seedUser(t *testing.T, c *store.Client, email string) *models.User {
	t.Helper()
	user := &models.User{
		UID: uuid.New(), Email: email, FullName: "Test User", ProfileColor: "#0081ff",
	}
	if err := c.InsertUser(context.Background(), user); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return user
}

func seedPoll(t *testing.T, c *store.Client, ownerId int, slug string, closesAt time.Time, optionTitles ...string) (*models.Poll, []models.PollOption) {
	t.Helper()
	ctx := context.Background()
	poll := &models.Poll{
		UserId: ownerId, Title: slug, PollColor: "#e54d42",
		Type: models.PollTypeMultiSelect, Slug: slug, ClosesAt: closesAt,
	}
	if err := c.CreatePollWithOptions(ctx, poll, optionTitles); err != nil {
		t.Fatalf("create poll: %v", err)
	}
	options, err := c.OptionsFor(ctx, poll.Id)
	if err != nil {
		t.Fatalf("load options: %v", err)
	}
	return poll, options
}

func TestPollRoundTrip(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	owner := seedUser(t, c, "owner@example.com")

	poll, options := seedPoll(t, c, owner.Id, "best-language", time.Now().Add(24*time.Hour), "Go", "Rust")
	if poll.Id == 0 || poll.CreatedAt.IsZero() {
		t.Fatalf("generated fields not filled: %+v", poll)
	}
	if len(options) != 2 || options[0].Title != "Go" || options[1].Title != "Rust" {
		t.Fatalf("options = %+v", options)
	}

	got, err := c.GetBySlug(ctx, "best-language")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got.Id != poll.Id {
		t.Errorf("GetBySlug id = %d, want %d", got.Id, poll.Id)
	}

	active, err := c.ListActive(ctx, 1, 10)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active.Items) != 1 || active.Total != 1 {
		t.Errorf("active = %+v", active)
	}

	if _, err := c.GetBySlug(ctx, "missing"); err != polls.ErrNotFound {
		t.Errorf("missing slug err = %v, want ErrNotFound", err)
	}
}

func TestExpiredPollDropsFromListingOnly(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	owner := seedUser(t, c, "owner@example.com")
	seedPoll(t, c, owner.Id, "over", time.Now().Add(-time.Minute), "a")

	active, err := c.ListActive(ctx, 1, 10)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active.Items) != 0 {
		t.Errorf("expired poll listed: %+v", active.Items)
	}

	if _, err := c.GetBySlug(ctx, "over"); err != nil {
		t.Errorf("expired poll unreachable by slug: %v", err)
	}
}

func TestCreatePollRollsBackOnOptionFailure(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	owner := seedUser(t, c, "owner@example.com")

	// An option title over the column limit makes the second insert of
	// the transaction fail; the poll row must vanish with it.
	poll := &models.Poll{
		UserId: owner.Id, Title: "Doomed", PollColor: "#e54d42",
		Slug: "doomed", ClosesAt: time.Now().Add(time.Hour),
	}
	err := c.CreatePollWithOptions(ctx, poll, []string{strings.Repeat("x", 300)})
	if err == nil {
		t.Fatal("oversized option accepted")
	}

	if _, err := c.GetBySlug(ctx, "doomed"); err != polls.ErrNotFound {
		t.Errorf("poll row survived a failed option insert: %v", err)
	}
}

func TestVoteBatchAndCounters(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	owner := seedUser(t, c, "owner@example.com")
	voter := seedUser(t, c, "voter@example.com")
	poll, options := seedPoll(t, c, owner.Id, "multi", time.Now().Add(time.Hour), "a", "b", "c")

	err := c.InsertVoteBatch(ctx, []models.PollUserVote{
		{PollId: poll.Id, UserId: voter.Id, OptionId: options[0].Id, Note: "first"},
		{PollId: poll.Id, UserId: voter.Id, OptionId: options[2].Id},
	})
	if err != nil {
		t.Fatalf("InsertVoteBatch: %v", err)
	}

	voted, err := c.HasVoted(ctx, poll.Id, voter.Id)
	if err != nil || !voted {
		t.Fatalf("HasVoted = %v, %v", voted, err)
	}

	votes, err := c.VotesFor(ctx, poll.Id, voter.Id)
	if err != nil {
		t.Fatalf("VotesFor: %v", err)
	}
	if len(votes) != 2 || votes[0].Note != "first" {
		t.Errorf("votes = %+v", votes)
	}

	after, _ := c.GetByID(ctx, poll.Id)
	if after.VotesCount != 2 {
		t.Errorf("poll votes_count = %d, want 2", after.VotesCount)
	}
	opts, _ := c.OptionsFor(ctx, poll.Id)
	if opts[0].VotesCount != 1 || opts[1].VotesCount != 0 || opts[2].VotesCount != 1 {
		t.Errorf("option counters = %d,%d,%d", opts[0].VotesCount, opts[1].VotesCount, opts[2].VotesCount)
	}
}

func TestVoteBatchRollsBackAsAUnit(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	owner := seedUser(t, c, "owner@example.com")
	voter := seedUser(t, c, "voter@example.com")
	poll, options := seedPoll(t, c, owner.Id, "multi", time.Now().Add(time.Hour), "a", "b")

	// Second line violates the option FK, the whole batch must vanish.
	err := c.InsertVoteBatch(ctx, []models.PollUserVote{
		{PollId: poll.Id, UserId: voter.Id, OptionId: options[0].Id},
		{PollId: poll.Id, UserId: voter.Id, OptionId: 999999},
	})
	if err == nil {
		t.Fatal("batch with a bad option id accepted")
	}

	voted, err := c.HasVoted(ctx, poll.Id, voter.Id)
	if err != nil {
		t.Fatalf("HasVoted: %v", err)
	}
	if voted {
		t.Error("partial ballot observable after failed batch")
	}
	after, _ := c.GetByID(ctx, poll.Id)
	if after.VotesCount != 0 {
		t.Errorf("poll votes_count = %d after rollback", after.VotesCount)
	}
}

func TestDuplicateBallotLineRejectedByConstraint(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	owner := seedUser(t, c, "owner@example.com")
	voter := seedUser(t, c, "voter@example.com")
	poll, options := seedPoll(t, c, owner.Id, "single", time.Now().Add(time.Hour), "a")

	line := []models.PollUserVote{{PollId: poll.Id, UserId: voter.Id, OptionId: options[0].Id}}
	if err := c.InsertVoteBatch(ctx, line); err != nil {
		t.Fatalf("first batch: %v", err)
	}
	if err := c.InsertVoteBatch(ctx, line); err == nil {
		t.Fatal("duplicate (poll, user, option) line accepted")
	}

	votes, _ := c.VotesFor(ctx, poll.Id, voter.Id)
	if len(votes) != 1 {
		t.Errorf("got %d ballot lines, want 1", len(votes))
	}
}

func TestDeleteOwnedOutcomes(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	owner := seedUser(t, c, "owner@example.com")
	other := seedUser(t, c, "other@example.com")
	poll, _ := seedPoll(t, c, owner.Id, "mine", time.Now().Add(time.Hour), "a")

	if out, err := c.DeleteOwned(ctx, poll.Id, other.Id); err != nil || out != polls.DeleteForbidden {
		t.Errorf("non-owner delete = %v, %v", out, err)
	}
	if out, err := c.DeleteOwned(ctx, 999999, owner.Id); err != nil || out != polls.DeleteNotFound {
		t.Errorf("missing poll delete = %v, %v", out, err)
	}
	if out, err := c.DeleteOwned(ctx, poll.Id, owner.Id); err != nil || out != polls.Deleted {
		t.Errorf("owner delete = %v, %v", out, err)
	}

	if _, err := c.GetByID(ctx, poll.Id); err != polls.ErrNotFound {
		t.Errorf("poll still present after owner delete: %v", err)
	}
	opts, err := c.OptionsFor(ctx, poll.Id)
	if err != nil || len(opts) != 0 {
		t.Errorf("options survived cascade: %v, %v", opts, err)
	}
}

func TestPaginationMetadata(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	owner := seedUser(t, c, "owner@example.com")
	for i := 0; i < 12; i++ {
		seedPoll(t, c, owner.Id, "poll-"+string(rune('a'+i)), time.Now().Add(time.Hour), "x")
	}

	page1, err := c.ListActive(ctx, 1, 10)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	page2, err := c.ListActive(ctx, 2, 10)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}

	if len(page1.Items) != 10 || len(page2.Items) != 2 {
		t.Errorf("page sizes = %d, %d", len(page1.Items), len(page2.Items))
	}
	if page1.Total != 12 || page1.LastPage != 2 {
		t.Errorf("metadata = %+v", page1)
	}
	// Newest first, no overlap across pages.
	if page1.Items[0].Id < page1.Items[9].Id {
		t.Error("page not ordered id desc")
	}
	if page2.Items[0].Id >= page1.Items[9].Id {
		t.Error("pages overlap")
	}
}
