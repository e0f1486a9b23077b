package models

import "time"

type Poll struct {
	Id int `json:"id" db:"id"`
	// UserId owner
	UserId int `json:"user_id" db:"user_id"`
	// Title poll question
	Title string `json:"title" db:"title"`
	// Description optional longer text shown on the detail page
	Description string `json:"description" db:"description"`
	// PollColor hex color assigned once at creation
	PollColor string `json:"poll_color" db:"poll_color"`
	// Status iota-enum
	//
	// PollStatusNormal PollStatusDeleted PollStatusEnded
	Status PollStatus `json:"status" db:"status"`
	// Type iota-enum
	//
	// PollTypeStandard PollTypeMultiSelect
	Type PollType `json:"type" db:"type"`
	// Slug unique URL key derived from the title, stable once assigned
	Slug string `json:"slug" db:"slug"`
	// ClosesAt voting deadline
	ClosesAt time.Time `json:"closes_at" db:"closes_at"`
	// VotesCount denormalized ballot-line count
	VotesCount int       `json:"votes_count" db:"votes_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Expired reports whether the voting deadline has passed. Derived,
// never stored.
func (p *Poll) Expired(now time.Time) bool {
	return !now.Before(p.ClosesAt)
}
