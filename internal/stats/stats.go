// Package stats accumulates per-player game statistics.
package stats

import (
	"errors"
	"fmt"
	"math"
)

// GameStats is the aggregate record stored with every user.
// WinDistribution maps the number of guesses used to the number of games
// won with that many guesses.
type GameStats struct {
	AvgNumGuesses   float64     `json:"avgNumGuesses"`
	BestStreak      int         `json:"bestStreak"`
	CurrentStreak   int         `json:"currentStreak"`
	GamesFailed     int         `json:"gamesFailed"`
	Score           int         `json:"score"`
	SuccessRate     int         `json:"successRate"`
	TotalGames      int         `json:"totalGames"`
	WinDistribution map[int]int `json:"winDistribution"`
}

var ErrInvalid = errors.New("invalid stats")

// Default returns the stats of a player who has not finished a game yet.
func Default() GameStats {
	return GameStats{WinDistribution: map[int]int{}}
}

// Clone returns a deep copy.
func (s GameStats) Clone() GameStats {
	out := s
	out.WinDistribution = make(map[int]int, len(s.WinDistribution))
	for k, v := range s.WinDistribution {
		out.WinDistribution[k] = v
	}
	return out
}

// Wins is the number of games won.
func (s GameStats) Wins() int {
	n := 0
	for _, v := range s.WinDistribution {
		n += v
	}
	return n
}

// AddCompletedGame folds one finished game into s and returns the result.
// A win in g guesses is worth maxGuesses+1-g points.
func AddCompletedGame(s GameStats, guesses, maxGuesses int, won bool) GameStats {
	out := s.Clone()
	out.TotalGames++
	if won {
		out.WinDistribution[guesses]++
		out.CurrentStreak++
		if out.CurrentStreak > out.BestStreak {
			out.BestStreak = out.CurrentStreak
		}
		if pts := maxGuesses + 1 - guesses; pts > 0 {
			out.Score += pts
		}
	} else {
		out.GamesFailed++
		out.CurrentStreak = 0
	}
	out.SuccessRate = successRate(out)
	out.AvgNumGuesses = avgGuesses(out)
	return out
}

func successRate(s GameStats) int {
	if s.TotalGames == 0 {
		return 0
	}
	return int(math.Round(100 * float64(s.TotalGames-s.GamesFailed) / float64(s.TotalGames)))
}

func avgGuesses(s GameStats) float64 {
	wins, sum := 0, 0
	for g, n := range s.WinDistribution {
		wins += n
		sum += g * n
	}
	if wins == 0 {
		return 0
	}
	return math.Round(100*float64(sum)/float64(wins)) / 100
}

// maxScore is the most AddCompletedGame could have awarded for s's wins.
func maxScore(s GameStats, maxGuesses int) int {
	n := 0
	for g, wins := range s.WinDistribution {
		n += (maxGuesses + 1 - g) * wins
	}
	return n
}

// Validate checks a stats record submitted by a client. Derived fields must
// match what AddCompletedGame would have produced from the counters.
func Validate(s GameStats, maxGuesses int) error {
	switch {
	case s.TotalGames < 0, s.GamesFailed < 0, s.CurrentStreak < 0, s.BestStreak < 0, s.Score < 0:
		return fmt.Errorf("%w: negative counter", ErrInvalid)
	case s.GamesFailed > s.TotalGames:
		return fmt.Errorf("%w: more failures than games", ErrInvalid)
	case s.CurrentStreak > s.BestStreak:
		return fmt.Errorf("%w: current streak above best streak", ErrInvalid)
	}
	for g, n := range s.WinDistribution {
		if g < 1 || g > maxGuesses || n < 0 {
			return fmt.Errorf("%w: win distribution entry %d=%d", ErrInvalid, g, n)
		}
	}
	wins := s.Wins()
	switch {
	case wins != s.TotalGames-s.GamesFailed:
		return fmt.Errorf("%w: %d wins for %d successful games", ErrInvalid, wins, s.TotalGames-s.GamesFailed)
	case s.BestStreak > wins:
		return fmt.Errorf("%w: best streak above wins", ErrInvalid)
	case s.Score > maxScore(s, maxGuesses):
		return fmt.Errorf("%w: score %d above %d", ErrInvalid, s.Score, maxScore(s, maxGuesses))
	case s.SuccessRate != successRate(s):
		return fmt.Errorf("%w: success rate %d, want %d", ErrInvalid, s.SuccessRate, successRate(s))
	case math.IsNaN(s.AvgNumGuesses) || math.Abs(s.AvgNumGuesses-avgGuesses(s)) > 0.005:
		return fmt.Errorf("%w: average guesses %v, want %v", ErrInvalid, s.AvgNumGuesses, avgGuesses(s))
	}
	return nil
}
