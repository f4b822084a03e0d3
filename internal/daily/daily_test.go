package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ts := time.Date(2026, 3, 2, 5, 0, 0, 0, loc) // 2026-03-01 19:00 UTC
	assert.Equal(t, "2026-03-01", DateKey(ts))
}

func TestIndexDeterministic(t *testing.T) {
	day := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	later := day.Add(10 * time.Hour)

	first := Index(day, "salt", 29)
	assert.Equal(t, first, Index(later, "salt", 29), "same day, same index")
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, 29)

	assert.Equal(t, 0, Index(day, "salt", 0))
}

func TestIndexVariesWithSaltAndDate(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seen := map[int]bool{}
	for d := 0; d < 60; d++ {
		seen[Index(start.AddDate(0, 0, d), "salt", 1000)] = true
	}
	assert.Greater(t, len(seen), 30, "indices should spread over days")

	diff := 0
	for d := 0; d < 20; d++ {
		day := start.AddDate(0, 0, d)
		if Index(day, "a", 1000) != Index(day, "b", 1000) {
			diff++
		}
	}
	assert.Greater(t, diff, 10)
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 5, 1, 0, 0, 1, 0, time.UTC)
	assert.True(t, SameDay(a, a.Add(23*time.Hour)))
	assert.False(t, SameDay(a, a.Add(24*time.Hour)))
}
