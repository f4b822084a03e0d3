// internal/verse/evaluate.go
//
// Guess evaluation for verse references.
//
// Every position of a guess is classified against the solution on its own;
// the result for position i depends only on (guess[i], i, solution).
// Precedence per position:
//   1. character class differs (letter / digit / colon) → incorrectCharType
//   2. same character                                   → correct
//   3. both digits                                      → low / high
//   4. letter occurs elsewhere in the solution          → present
//   5. otherwise                                        → absent

package verse

import (
	"errors"
	"strings"
)

// CellStatus is the evaluation of one guessed character.
type CellStatus string

const (
	StatusCorrect           CellStatus = "correct"
	StatusPresent           CellStatus = "present"
	StatusAbsent            CellStatus = "absent"
	StatusIncorrectCharType CellStatus = "incorrectCharType"
	StatusLow               CellStatus = "low"
	StatusHigh              CellStatus = "high"
)

// Cell pairs a guessed character with its status.
type Cell struct {
	Char   string     `json:"char"`
	Status CellStatus `json:"status"`
}

// ErrLengthMismatch is returned when guess and solution lengths differ.
var ErrLengthMismatch = errors.New("guess and solution differ in length")

type charClass int

const (
	classOther charClass = iota
	classLetter
	classDigit
	classColon
)

func classOf(r rune) charClass {
	switch {
	case r >= 'A' && r <= 'Z':
		return classLetter
	case r >= '0' && r <= '9':
		return classDigit
	case r == ':':
		return classColon
	default:
		return classOther
	}
}

// Evaluate returns one status per position of guess. Both strings are
// compared case-insensitively.
func Evaluate(guess, solution string) ([]CellStatus, error) {
	g := []rune(strings.ToUpper(guess))
	s := []rune(strings.ToUpper(solution))
	if len(g) != len(s) {
		return nil, ErrLengthMismatch
	}
	out := make([]CellStatus, len(g))
	for i := range g {
		out[i] = statusAt(g[i], i, s)
	}
	return out, nil
}

// Cells is Evaluate with the guessed characters attached.
func Cells(guess, solution string) ([]Cell, error) {
	statuses, err := Evaluate(guess, solution)
	if err != nil {
		return nil, err
	}
	g := []rune(strings.ToUpper(guess))
	cells := make([]Cell, len(g))
	for i, st := range statuses {
		cells[i] = Cell{Char: string(g[i]), Status: st}
	}
	return cells, nil
}

// Solved reports whether every status is correct.
func Solved(statuses []CellStatus) bool {
	if len(statuses) == 0 {
		return false
	}
	for _, st := range statuses {
		if st != StatusCorrect {
			return false
		}
	}
	return true
}

func statusAt(c rune, i int, solution []rune) CellStatus {
	want := solution[i]
	cls := classOf(c)
	if cls == classOther || cls != classOf(want) {
		return StatusIncorrectCharType
	}
	if c == want {
		return StatusCorrect
	}
	if cls == classDigit {
		if c < want {
			return StatusLow
		}
		return StatusHigh
	}
	for j, r := range solution {
		if j != i && r == c {
			return StatusPresent
		}
	}
	return StatusAbsent
}
