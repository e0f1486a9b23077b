package models

import "time"

// PollUserVote is one ballot line. All lines of a submission are
// written together and never updated or deleted afterwards.
type PollUserVote struct {
	Id int `json:"id" db:"id"`
	// PollId voted poll
	PollId int `json:"poll_id" db:"poll_id"`
	// UserId voter, internal id only
	UserId int `json:"-" db:"user_id"`
	// OptionId selected option
	OptionId int `json:"option_id" db:"option_id"`
	// Note optional free-text attached to the selection
	Note      string    `json:"note" db:"note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
