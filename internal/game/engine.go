// internal/game/engine.go
//
// Game engine for a single verse session.
// Responsibilities:
//   - Create new games for a given solution.
//   - Validate guesses (length, reference syntax, duplicates) and evaluate them.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - Solutions come from the verses catalog; the engine never picks one itself.
//   - Cell evaluation lives in the verse package.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/robalobadob/thywordle/internal/bible"
	"github.com/robalobadob/thywordle/internal/verse"
)

// MaxGuesses is the number of rows on the board.
const MaxGuesses = 6

// State values reported to clients.
const (
	StatePlaying = "playing"
	StateWon     = "won"
	StateLost    = "lost"
)

var (
	ErrFinished         = errors.New("game finished")
	ErrLength           = errors.New("guess length does not match the solution")
	ErrInvalidReference = errors.New("not a valid verse reference")
	ErrDuplicate        = errors.New("reference already guessed")
)

// New constructs a game for solution.
func New(solution string, mode Mode) *Game {
	return &Game{
		ID:         randomID(),
		Solution:   bible.Normalize(solution),
		Mode:       mode,
		MaxGuesses: MaxGuesses,
		Rows:       []Row{},
		Started:    time.Now().UTC(),
	}
}

// ApplyGuess validates and evaluates a guess, mutating the game state.
// Returns the evaluated cells and the new state string.
//
// Validation rules:
//   - Game must not be finished.
//   - Guess must have the solution's length once normalized.
//   - Guess must be a valid reference.
//   - Guess must not repeat an earlier guess.
func (g *Game) ApplyGuess(guess string) ([]verse.Cell, string, error) {
	if g.Finished {
		return nil, g.State(), ErrFinished
	}
	guess = bible.Normalize(guess)
	if len(guess) != len(g.Solution) {
		return nil, g.State(), fmt.Errorf("%w: want %d characters", ErrLength, len(g.Solution))
	}
	if _, err := bible.Parse(guess); err != nil {
		return nil, g.State(), fmt.Errorf("%w: %w", ErrInvalidReference, err)
	}
	if lo.ContainsBy(g.Rows, func(r Row) bool { return r.Guess == guess }) {
		return nil, g.State(), ErrDuplicate
	}

	cells, err := verse.Cells(guess, g.Solution)
	if err != nil {
		return nil, g.State(), err
	}
	g.Rows = append(g.Rows, Row{Guess: guess, Cells: cells})

	if guess == g.Solution {
		g.Finished, g.Won = true, true
	} else if len(g.Rows) >= g.MaxGuesses {
		g.Finished = true
	}
	return cells, g.State(), nil
}

// Guesses reports how many guesses have been made.
func (g *Game) Guesses() int { return len(g.Rows) }

// State reports a coarse string representation of the current game state.
func (g *Game) State() string {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
