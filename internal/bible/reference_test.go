package bible

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValid(t *testing.T) {
	tests := []struct {
		in   string
		want Reference
	}{
		{"JOHN3:16", Reference{Book: "JOHN", Chapter: 3, Verse: 16}},
		{" john 3:16 ", Reference{Book: "JOHN", Chapter: 3, Verse: 16}},
		{"1JOHN4:8", Reference{Book: "1JOHN", Chapter: 4, Verse: 8}},
		{"1 Thessalonians 5:17", Reference{Book: "1THESSALONIANS", Chapter: 5, Verse: 17}},
		{"PSALM119:176", Reference{Book: "PSALM", Chapter: 119, Verse: 176}},
		{"JUDE25", Reference{Book: "JUDE", Verse: 25}},
		{"JUDE1:25", Reference{Book: "JUDE", Chapter: 1, Verse: 25}},
		{"songofsolomon2:4", Reference{Book: "SONGOFSOLOMON", Chapter: 2, Verse: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrMalformed},
		{"JOHN", ErrMalformed},
		{"3:16", ErrMalformed},
		{"FOO1:1", ErrUnknownBook},
		{"JOHN22:1", ErrChapterRange},
		{"JOHN03:16", ErrMalformed},
		{"JOHN3:0", ErrMalformed},
		{"JOHN3:", ErrMalformed},
		{"JOHN16", ErrMalformed},
		{"JOHN3:16A", ErrMalformed},
		{"PSALM1:177", ErrVerseRange},
		{"OBADIAH2:1", ErrChapterRange},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Parse(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReferenceStringRoundTrip(t *testing.T) {
	for _, s := range []string{"JOHN3:16", "JUDE25", "2CORINTHIANS5:17", "GENESIS1:1"} {
		ref, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, ref.String())
	}
}

func TestBookLists(t *testing.T) {
	ot, nt := OldTestamentBooks(), NewTestamentBooks()
	assert.Len(t, ot, 39)
	assert.Len(t, nt, 27)
	assert.Equal(t, "GENESIS", ot[0].Name)
	assert.Equal(t, "REVELATION", nt[len(nt)-1].Name)

	// Callers get copies.
	ot[0].Name = "CHANGED"
	assert.Equal(t, "GENESIS", OldTestamentBooks()[0].Name)

	b, ok := LookupBook("PHILEMON")
	require.True(t, ok)
	assert.Equal(t, 1, b.Chapters)
	assert.Equal(t, NewTestament, b.Testament)
}
