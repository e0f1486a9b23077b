package models

type PollStatus uint8
type PollType uint8

const (
	PollStatusNormal PollStatus = iota
	PollStatusDeleted
	PollStatusEnded
)

const (
	// PollTypeStandard single-choice ballot
	PollTypeStandard PollType = iota
	// PollTypeMultiSelect multi-choice ballot
	PollTypeMultiSelect
)
