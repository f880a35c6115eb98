package domainerrors

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrCipherNotFound = errors.New("cipher not found")
	ErrTeamNotFound   = errors.New("team not found")
)
