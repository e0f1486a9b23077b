package models

import "time"

type PollOption struct {
	Id int `json:"id" db:"id"`
	// PollId parent poll
	PollId int `json:"poll_id" db:"poll_id"`
	// Title option label
	Title string `json:"title" db:"title"`
	// VotesCount denormalized ballot-line count for this option
	VotesCount int       `json:"votes_count" db:"votes_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
