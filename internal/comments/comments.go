// Package comments stamps faculty comments with their date and splits
// stored comments back into date and text for display.
package comments

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aanand-mishra/student-profiles/internal/types"
)

// ErrEmptyComment is returned when a comment has no visible text.
var ErrEmptyComment = errors.New("comment cannot be empty")

const (
	previewLength = 90
	ellipsis      = "..."
)

// Stamp prefixes text with the date of now. Whitespace runs, newlines
// included, collapse to a single space so the comment stays on one line.
func Stamp(now time.Time, text string) (string, error) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", ErrEmptyComment
	}
	return now.Format(types.CommentDateLayout) + types.CommentSeparator + text, nil
}

// Entry is a stored comment split for display.
type Entry struct {
	Date     string `json:"date,omitempty" yaml:"date,omitempty"`
	Text     string `json:"text" yaml:"text"`
	Preview  string `json:"preview" yaml:"preview"`
	FullText string `json:"fullText" yaml:"fullText"`
}

// Parse splits a stored comment on its first separator when the prefix is
// a valid date. Comments without one keep all of their text.
func Parse(stored string) Entry {
	e := Entry{FullText: stored}
	e.Date, e.Text, _ = types.SplitComment(stored)
	e.Preview = preview(e.Text)
	return e
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewLength-len(ellipsis)]) + ellipsis
}

// Entries parses every non-blank comment in order.
func Entries(stored []string) []Entry {
	out := make([]Entry, 0, len(stored))
	for _, c := range stored {
		if strings.TrimSpace(c) == "" {
			continue
		}
		out = append(out, Parse(c))
	}
	return out
}
