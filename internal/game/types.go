// internal/game/types.go
//
// Core type definitions for the verse game engine.
// Defines:
//   - Mode: how the solution was chosen (daily or random).
//   - Game: state for a single in-progress or finished game.

package game

import (
	"time"

	"github.com/robalobadob/thywordle/internal/verse"
)

// Mode describes how a game's solution was picked.
type Mode string

const (
	ModeDaily  Mode = "daily"
	ModeRandom Mode = "random"
)

// Row is one evaluated guess.
type Row struct {
	Guess string       `json:"guess"`
	Cells []verse.Cell `json:"cells"`
}

// Game holds the state of a single game session.
type Game struct {
	ID         string    // Unique game identifier (random hex string).
	Solution   string    // Compact reference, upper case ("JOHN3:16").
	Mode       Mode      // daily | random
	MaxGuesses int       // Guesses allowed before the game is lost.
	Rows       []Row     // Evaluated guesses in order.
	Finished   bool      // True once the game is over (won or lost).
	Won        bool      // True if the game was finished with a win.
	Started    time.Time // Creation time, UTC.
}
