// internal/verses/verses.go
//
// Solution catalog for the game.
//
// Responsibilities:
//   - Load "REFERENCE|hint text" lines from VERSES_FILE or the embedded default list.
//   - Validate every reference with the bible package (invalid lines are skipped).
//   - Supply random and daily solutions plus hint lookup.
//
// The catalog is immutable after Load and safe for concurrent use.

package verses

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/thywordle/assets"
	"github.com/robalobadob/thywordle/internal/bible"
	"github.com/robalobadob/thywordle/internal/daily"
)

// ErrEmpty is returned when no usable verse was loaded.
var ErrEmpty = errors.New("verses: catalog is empty")

// Verse is one playable solution.
type Verse struct {
	Reference bible.Reference
	Text      string
}

// Solution returns the compact reference players have to guess.
func (v Verse) Solution() string { return v.Reference.String() }

// Catalog holds the loaded verses in file order.
type Catalog struct {
	verses []Verse
	byRef  map[string]Verse
}

// Load reads the catalog from path, or from the embedded list when path is empty.
func Load(path string) (*Catalog, error) {
	var (
		lines []string
		err   error
	)
	if path != "" {
		lines, err = readFile(path)
	} else {
		lines, err = assets.VerseLines()
	}
	if err != nil {
		return nil, fmt.Errorf("verses: read: %w", err)
	}
	return FromLines(lines)
}

// FromLines builds a catalog from raw "REFERENCE|text" lines.
// Duplicate references keep the first occurrence.
func FromLines(lines []string) (*Catalog, error) {
	c := &Catalog{byRef: make(map[string]Verse)}
	for _, line := range lines {
		refPart, text, ok := strings.Cut(line, "|")
		if !ok {
			log.Warn().Str("line", line).Msg("verse line without text, skipping")
			continue
		}
		ref, err := bible.Parse(refPart)
		if err != nil {
			log.Warn().Err(err).Str("reference", refPart).Msg("invalid verse reference, skipping")
			continue
		}
		key := ref.String()
		if _, dup := c.byRef[key]; dup {
			continue
		}
		v := Verse{Reference: ref, Text: strings.TrimSpace(text)}
		c.verses = append(c.verses, v)
		c.byRef[key] = v
	}
	if len(c.verses) == 0 {
		return nil, ErrEmpty
	}
	return c, nil
}

// readFile loads non-empty, non-comment lines from a file.
func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// Len reports the number of verses.
func (c *Catalog) Len() int { return len(c.verses) }

// Solutions lists every solution string in catalog order.
func (c *Catalog) Solutions() []string {
	return lo.Map(c.verses, func(v Verse, _ int) string { return v.Solution() })
}

// Random returns a cryptographically random verse.
func (c *Catalog) Random() Verse {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(c.verses))))
	if err != nil {
		log.Warn().Err(err).Msg("random verse selection failed, using first verse")
		return c.verses[0]
	}
	return c.verses[n.Int64()]
}

// Daily returns the verse of the day for t.
func (c *Catalog) Daily(t time.Time, salt string) Verse {
	return c.verses[daily.Index(t, salt, len(c.verses))]
}

// Lookup finds a verse by reference in any accepted spelling.
func (c *Catalog) Lookup(reference string) (Verse, bool) {
	ref, err := bible.Parse(reference)
	if err != nil {
		return Verse{}, false
	}
	v, ok := c.byRef[ref.String()]
	return v, ok
}
