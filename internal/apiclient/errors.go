package apiclient

import "errors"

// Domain errors mapped from game service status codes. Application-level
// failures are never retried; each endpoint maps its own status codes.
var (
	// ErrNotFound is returned when the requested game or user does not exist (404).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyInGame is returned when the user already participates in a game (409).
	ErrAlreadyInGame = errors.New("user is already in a game")
	// ErrNotInGame is returned on leaving a game the user is not part of (409).
	ErrNotInGame = errors.New("user is not in the game")
	// ErrGameAlreadyStarted is returned when the game no longer accepts the action (400).
	ErrGameAlreadyStarted = errors.New("game has already started")
	// ErrInvalidPlayerAmount is returned when the game is full or below the minimum (406).
	ErrInvalidPlayerAmount = errors.New("invalid player amount")
	// ErrAlreadyExists is returned when the resource was generated before (409).
	ErrAlreadyExists = errors.New("already exists")
)
