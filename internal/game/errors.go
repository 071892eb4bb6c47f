package game

import "errors"

// Domain errors
var (
	ErrTooFewPlayers  = errors.New("not enough players to start")
	ErrInvalidChoice  = errors.New("choice must be A or B")
	ErrPlayerNotFound = errors.New("player not found")
)
