// internal/bible/books.go
//
// Canonical book table used by the game.
// Names are written the way players type them: upper case, no spaces,
// ordinal digit first ("1SAMUEL", "SONGOFSOLOMON").

package bible

// Testament identifies which half of the canon a book belongs to.
type Testament string

const (
	OldTestament Testament = "old"
	NewTestament Testament = "new"
)

// Book is a single entry of the canon with its chapter count.
type Book struct {
	Name      string    `json:"name"`
	Chapters  int       `json:"chapters"`
	Testament Testament `json:"testament"`
}

var oldTestament = []Book{
	{"GENESIS", 50, OldTestament},
	{"EXODUS", 40, OldTestament},
	{"LEVITICUS", 27, OldTestament},
	{"NUMBERS", 36, OldTestament},
	{"DEUTERONOMY", 34, OldTestament},
	{"JOSHUA", 24, OldTestament},
	{"JUDGES", 21, OldTestament},
	{"RUTH", 4, OldTestament},
	{"1SAMUEL", 31, OldTestament},
	{"2SAMUEL", 24, OldTestament},
	{"1KINGS", 22, OldTestament},
	{"2KINGS", 25, OldTestament},
	{"1CHRONICLES", 29, OldTestament},
	{"2CHRONICLES", 36, OldTestament},
	{"EZRA", 10, OldTestament},
	{"NEHEMIAH", 13, OldTestament},
	{"ESTHER", 10, OldTestament},
	{"JOB", 42, OldTestament},
	{"PSALM", 150, OldTestament},
	{"PROVERBS", 31, OldTestament},
	{"ECCLESIASTES", 12, OldTestament},
	{"SONGOFSOLOMON", 8, OldTestament},
	{"ISAIAH", 66, OldTestament},
	{"JEREMIAH", 52, OldTestament},
	{"LAMENTATIONS", 5, OldTestament},
	{"EZEKIEL", 48, OldTestament},
	{"DANIEL", 12, OldTestament},
	{"HOSEA", 14, OldTestament},
	{"JOEL", 3, OldTestament},
	{"AMOS", 9, OldTestament},
	{"OBADIAH", 1, OldTestament},
	{"JONAH", 4, OldTestament},
	{"MICAH", 7, OldTestament},
	{"NAHUM", 3, OldTestament},
	{"HABAKKUK", 3, OldTestament},
	{"ZEPHANIAH", 3, OldTestament},
	{"HAGGAI", 2, OldTestament},
	{"ZECHARIAH", 14, OldTestament},
	{"MALACHI", 4, OldTestament},
}

var newTestament = []Book{
	{"MATTHEW", 28, NewTestament},
	{"MARK", 16, NewTestament},
	{"LUKE", 24, NewTestament},
	{"JOHN", 21, NewTestament},
	{"ACTS", 28, NewTestament},
	{"ROMANS", 16, NewTestament},
	{"1CORINTHIANS", 16, NewTestament},
	{"2CORINTHIANS", 13, NewTestament},
	{"GALATIANS", 6, NewTestament},
	{"EPHESIANS", 6, NewTestament},
	{"PHILIPPIANS", 4, NewTestament},
	{"COLOSSIANS", 4, NewTestament},
	{"1THESSALONIANS", 5, NewTestament},
	{"2THESSALONIANS", 3, NewTestament},
	{"1TIMOTHY", 6, NewTestament},
	{"2TIMOTHY", 4, NewTestament},
	{"TITUS", 3, NewTestament},
	{"PHILEMON", 1, NewTestament},
	{"HEBREWS", 13, NewTestament},
	{"JAMES", 5, NewTestament},
	{"1PETER", 5, NewTestament},
	{"2PETER", 3, NewTestament},
	{"1JOHN", 5, NewTestament},
	{"2JOHN", 1, NewTestament},
	{"3JOHN", 1, NewTestament},
	{"JUDE", 1, NewTestament},
	{"REVELATION", 22, NewTestament},
}

var byName = func() map[string]Book {
	m := make(map[string]Book, len(oldTestament)+len(newTestament))
	for _, b := range oldTestament {
		m[b.Name] = b
	}
	for _, b := range newTestament {
		m[b.Name] = b
	}
	return m
}()

// OldTestamentBooks returns the Old Testament books in canonical order.
func OldTestamentBooks() []Book { return append([]Book(nil), oldTestament...) }

// NewTestamentBooks returns the New Testament books in canonical order.
func NewTestamentBooks() []Book { return append([]Book(nil), newTestament...) }

// LookupBook finds a book by its game name (already normalized).
func LookupBook(name string) (Book, bool) {
	b, ok := byName[name]
	return b, ok
}
