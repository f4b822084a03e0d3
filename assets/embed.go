// assets/embed.go
//
// Embedded default data shipped with the binary.
//   - verses.txt: the solution catalog, one "REFERENCE|hint text" per line.
//
// Blank lines and lines starting with '#' are ignored.

package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed verses.txt
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
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

// VerseLines returns the raw catalog lines of the embedded verse list.
func VerseLines() ([]string, error) {
	return readLines("verses.txt")
}
