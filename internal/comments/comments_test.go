package comments

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, time.March, 7, 16, 45, 0, 0, time.UTC)

func TestStamp(t *testing.T) {
	got, err := Stamp(day, "  Strong in\n\tdatabases  ")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-07 - Strong in databases", got)
}

func TestStampEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := Stamp(day, in)
		assert.ErrorIs(t, err, ErrEmptyComment, "input %q", in)
	}
}

func TestParse(t *testing.T) {
	e := Parse("2025-03-07 - Great - really great")
	assert.Equal(t, "2025-03-07", e.Date)
	assert.Equal(t, "Great - really great", e.Text)
	assert.Equal(t, e.Text, e.Preview)
	assert.Equal(t, "2025-03-07 - Great - really great", e.FullText)
}

func TestParseWithoutDate(t *testing.T) {
	for _, in := range []string{"no date here", "yesterday - fine", "2025-13-40 - bad date"} {
		e := Parse(in)
		assert.Empty(t, e.Date, in)
		assert.Equal(t, in, e.Text)
	}
}

func TestParsePreviewTruncates(t *testing.T) {
	long := strings.Repeat("é", 120)
	e := Parse("2025-03-07 - " + long)

	assert.Equal(t, 90, utf8.RuneCountInString(e.Preview))
	assert.True(t, strings.HasSuffix(e.Preview, "..."))
	assert.Equal(t, long, e.Text)

	exact := strings.Repeat("a", 90)
	assert.Equal(t, exact, Parse(exact).Preview)
}

func TestEntriesSkipsBlank(t *testing.T) {
	got := Entries([]string{"2025-01-01 - one", " ", "", "two"})
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Text)
	assert.Equal(t, "two", got[1].Text)
}
