package verses

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Greater(t, c.Len(), 10)

	v, ok := c.Lookup("john 3:16")
	require.True(t, ok)
	assert.Equal(t, "JOHN3:16", v.Solution())
	assert.Contains(t, v.Text, "For God so loved the world")
}

func TestFromLinesSkipsInvalid(t *testing.T) {
	c, err := FromLines([]string{
		"JOHN11:35|Jesus wept.",
		"NOTABOOK1:1|skipped",
		"JOHN99:1|skipped, chapter out of range",
		"missing separator",
		"john11:35|duplicate, skipped",
		"JUDE25|To the only wise God our Saviour",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"JOHN11:35", "JUDE25"}, c.Solutions())

	v, ok := c.Lookup("JOHN11:35")
	require.True(t, ok)
	assert.Equal(t, "Jesus wept.", v.Text)
}

func TestFromLinesEmpty(t *testing.T) {
	_, err := FromLines([]string{"bad|line"})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verses.txt")
	body := "# comment\n\nGENESIS1:1|In the beginning God created the heaven and the earth.\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "GENESIS1:1", c.Random().Solution())

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestDailyStableWithinDay(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	morning := time.Date(2026, 10, 18, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, c.Daily(morning, "s").Solution(), c.Daily(evening, "s").Solution())
}

func TestRandomIsFromCatalog(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	all := c.Solutions()
	for i := 0; i < 20; i++ {
		assert.Contains(t, all, c.Random().Solution())
	}
}

func TestLookupUnknown(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	_, ok := c.Lookup("OBADIAH1:1")
	assert.False(t, ok)
	_, ok = c.Lookup("garbage")
	assert.False(t, ok)
}
