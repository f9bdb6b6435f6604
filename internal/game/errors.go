package game

import "errors"

var (
	// ErrInvalidConfiguration is returned by NewGame when the pool or pair
	// count cannot produce a playable deck. No session is started.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidSelection is returned by SelectCard for ids outside the board
	// or when no game has been started.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrSessionClosed is returned after Close has been called
	ErrSessionClosed = errors.New("session closed")
)
