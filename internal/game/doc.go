// Package game implements the card-matching memory game engine.
//
// The main type is Session, the controller for one player's game. A session
// owns the board exclusively: callers interact with it only through NewGame,
// SelectCard, and read-only State snapshots.
//
// # Basic Usage
//
//	s := game.NewSession(quartz.NewReal(), game.WithLogger(logger))
//	s.OnComplete(func(r game.Result) {
//	    fmt.Printf("finished in %d moves\n", r.Moves)
//	})
//	if err := s.NewGame(symbols.Default(), 8, nil); err != nil {
//	    return err
//	}
//	outcome, err := s.SelectCard(3)
//
// # Selection Rules
//
// Each pairing attempt flips two cards. A match locks both cards face up and
// adds the match reward to the score immediately. A mismatch leaves both
// cards visible for the mismatch delay, during which all input is ignored,
// and then flips them back. Selecting a matched card, the pending card, or
// any card while a mismatch is on display returns OutcomeIgnored with a nil
// error; only out-of-range ids produce ErrInvalidSelection.
//
// # Deterministic Testing
//
// Pass a seeded RNG to NewGame and a quartz mock clock to NewSession:
//
//	clock := quartz.NewMock(t)
//	s := game.NewSession(clock)
//	_ = s.NewGame(pool, 4, randutil.New(42))
//	// ... trigger a mismatch ...
//	clock.Advance(game.DefaultMismatchDelay).MustWait(ctx)
//
// # Timers
//
// The mismatch reset is the only asynchronous step. It is scheduled with the
// session's clock and tagged with the session generation and attempt number;
// NewGame and Close stop the outstanding timer, and a callback that still
// runs after being superseded finds a stale tag and does nothing.
package game
