// Package flatfile provides line-oriented, file-backed implementations of
// the storage.LanguageStore and storage.ProfileStore interfaces.
//
// Every operation reads the whole file, works on the decoded slice, and
// writes the whole file back (truncate + write). There is no protection
// against a crash in the middle of a write, and two processes writing the
// same file race with last-write-wins semantics. Within one process each
// store serialises its own operations with a mutex.
package flatfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const filePerm = 0o644

// readLines returns the file's lines without their terminators. A missing
// file yields no lines after its parent directory has been created.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines, nil
}

// writeLines overwrites path with one line per entry, each terminated by "\n".
func writeLines(path string, lines []string) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), filePerm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory %s: %w", dir, err)
	}
	return nil
}
