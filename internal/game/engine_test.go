package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/thywordle/internal/bible"
	"github.com/robalobadob/thywordle/internal/verse"
)

func TestNewGame(t *testing.T) {
	g := New("john 3:16", ModeDaily)
	assert.Len(t, g.ID, 16)
	assert.Equal(t, "JOHN3:16", g.Solution)
	assert.Equal(t, MaxGuesses, g.MaxGuesses)
	assert.Equal(t, StatePlaying, g.State())
	assert.Equal(t, 0, g.Guesses())
	assert.NotEqual(t, g.ID, New("JOHN3:16", ModeDaily).ID)
}

func TestApplyGuessWin(t *testing.T) {
	g := New("JOHN3:16", ModeRandom)

	cells, state, err := g.ApplyGuess("JOHN1:19")
	require.NoError(t, err)
	assert.Equal(t, StatePlaying, state)
	assert.Equal(t, verse.StatusLow, cells[4].Status)
	assert.Equal(t, verse.StatusHigh, cells[7].Status)

	cells, state, err = g.ApplyGuess("john 3:16")
	require.NoError(t, err)
	assert.Equal(t, StateWon, state)
	assert.True(t, verse.Solved(statuses(cells)))
	assert.True(t, g.Finished)
	assert.True(t, g.Won)
	assert.Equal(t, 2, g.Guesses())

	_, _, err = g.ApplyGuess("JOHN1:19")
	assert.ErrorIs(t, err, ErrFinished)
}

func TestApplyGuessLoss(t *testing.T) {
	g := New("JOHN3:16", ModeRandom)
	guesses := []string{"JOHN1:11", "JOHN1:12", "JOHN1:13", "JOHN1:14", "JOHN1:15", "JOHN1:16"}
	var state string
	for i, guess := range guesses {
		var err error
		_, state, err = g.ApplyGuess(guess)
		require.NoError(t, err)
		if i < len(guesses)-1 {
			assert.Equal(t, StatePlaying, state)
		}
	}
	assert.Equal(t, StateLost, state)
	assert.True(t, g.Finished)
	assert.False(t, g.Won)
}

func TestApplyGuessValidation(t *testing.T) {
	g := New("JOHN3:16", ModeRandom)

	_, _, err := g.ApplyGuess("JOHN3:1")
	assert.ErrorIs(t, err, ErrLength)

	_, _, err = g.ApplyGuess("FOOO3:16")
	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.ErrorIs(t, err, bible.ErrUnknownBook)

	_, _, err = g.ApplyGuess("JOHN99:1")
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, _, err = g.ApplyGuess("ACTS2:38")
	require.NoError(t, err)
	_, _, err = g.ApplyGuess("acts2:38")
	assert.ErrorIs(t, err, ErrDuplicate)

	assert.Equal(t, 1, g.Guesses(), "rejected guesses do not use a row")
}

func statuses(cells []verse.Cell) []verse.CellStatus {
	out := make([]verse.CellStatus, len(cells))
	for i, c := range cells {
		out[i] = c.Status
	}
	return out
}
