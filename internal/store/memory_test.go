package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/thywordle/internal/game"
)

func TestMemoryGamesSaveGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryGames()
	g := game.New("JOHN3:16", game.ModeDaily)
	require.NoError(t, s.Save(ctx, g))

	got, err := s.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.Solution, got.Solution)

	_, err = s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryGamesUpdateSerializes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryGames()
	g := game.New("JOHN3:16", game.ModeRandom)
	require.NoError(t, s.Save(ctx, g))

	// Only one of the concurrent identical guesses may be recorded.
	var wg sync.WaitGroup
	var mu sync.Mutex
	dupes := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Update(ctx, g.ID, func(g *game.Game) error {
				_, _, err := g.ApplyGuess("ACTS2:38")
				return err
			})
			if errors.Is(err, game.ErrDuplicate) {
				mu.Lock()
				dupes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 7, dupes)
	assert.Equal(t, 1, g.Guesses())
	assert.ErrorIs(t, s.Update(ctx, "nope", func(*game.Game) error { return nil }), ErrNotFound)
}

func TestMemoryGamesSweep(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryGames()
	now := time.Now().UTC()

	old := game.New("JOHN3:16", game.ModeRandom)
	old.Started = now.Add(-3 * time.Hour)
	fresh := game.New("JOHN3:16", game.ModeRandom)
	require.NoError(t, s.Save(ctx, old))
	require.NoError(t, s.Save(ctx, fresh))

	assert.Equal(t, 1, s.Sweep(now, time.Hour))
	_, err := s.Get(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}
