// internal/bible/reference.go
//
// Parsing and validation of compact Bible references ("JOHN3:16").
//
// Accepted forms (after normalization):
//   BOOK<chapter>:<verse>   e.g. GENESIS1:1, 1JOHN4:8
//   BOOK<verse>             single-chapter books only, e.g. JUDE25
//
// Numbers are positive and written without leading zeros.

package bible

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxVerse bounds verse numbers (Psalm 119 has 176 verses).
const MaxVerse = 176

var (
	ErrMalformed    = errors.New("malformed reference")
	ErrUnknownBook  = errors.New("unknown book")
	ErrChapterRange = errors.New("chapter out of range")
	ErrVerseRange   = errors.New("verse out of range")
)

// Reference is a parsed verse reference.
// Chapter is 0 when the chapterless form of a single-chapter book was used.
type Reference struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter,omitempty"`
	Verse   int    `json:"verse"`
}

// String renders the compact form used on the board.
func (r Reference) String() string {
	if r.Chapter == 0 {
		return r.Book + strconv.Itoa(r.Verse)
	}
	return r.Book + strconv.Itoa(r.Chapter) + ":" + strconv.Itoa(r.Verse)
}

// Normalize upper-cases s and removes all whitespace.
func Normalize(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

// Parse normalizes and validates s.
func Parse(s string) (Reference, error) {
	s = Normalize(s)
	book, rest := splitBook(s)
	if book == "" || rest == "" {
		return Reference{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	b, ok := LookupBook(book)
	if !ok {
		return Reference{}, fmt.Errorf("%w: %q", ErrUnknownBook, book)
	}

	var ref Reference
	ref.Book = b.Name
	if chap, verse, found := strings.Cut(rest, ":"); found {
		c, err := parseNumber(chap)
		if err != nil {
			return Reference{}, fmt.Errorf("%w: chapter %q", ErrMalformed, chap)
		}
		v, err := parseNumber(verse)
		if err != nil {
			return Reference{}, fmt.Errorf("%w: verse %q", ErrMalformed, verse)
		}
		ref.Chapter, ref.Verse = c, v
	} else {
		if b.Chapters != 1 {
			return Reference{}, fmt.Errorf("%w: %s needs a chapter", ErrMalformed, b.Name)
		}
		v, err := parseNumber(rest)
		if err != nil {
			return Reference{}, fmt.Errorf("%w: verse %q", ErrMalformed, rest)
		}
		ref.Verse = v
	}

	if ref.Chapter > b.Chapters {
		return Reference{}, fmt.Errorf("%w: %s has %d chapters", ErrChapterRange, b.Name, b.Chapters)
	}
	if ref.Verse > MaxVerse {
		return Reference{}, fmt.Errorf("%w: %d", ErrVerseRange, ref.Verse)
	}
	return ref, nil
}

// splitBook separates the book name (optional ordinal digit + letters)
// from the numeric remainder.
func splitBook(s string) (book, rest string) {
	i := 0
	if i < len(s) && isDigit(s[i]) {
		i++
	}
	start := i
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	if i == start {
		return "", s
	}
	return s[:i], s[i:]
}

// parseNumber accepts a positive decimal without sign or leading zeros.
func parseNumber(s string) (int, error) {
	if s == "" || s[0] == '0' {
		return 0, ErrMalformed
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return 0, ErrMalformed
		}
	}
	if len(s) > 3 {
		return 0, ErrMalformed
	}
	return strconv.Atoi(s)
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'A' && c <= 'Z' }
