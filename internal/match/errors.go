package match

import "errors"

// Validation errors surfaced to the invoking user. None of these are
// retried by the bot; the user corrects the input and runs the command
// again.
var (
	ErrInvalidDay     = errors.New("day is not a valid day of month")
	ErrInvalidTime    = errors.New("time text is not a recognizable time")
	ErrPastStart      = errors.New("match start time is in the past")
	ErrNoParticipants = errors.New("no participants found in mention text")
)
