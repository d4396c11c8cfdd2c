// Package wordlist reads per-language vocabulary files used to seed quiz pools.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyLanguage is returned when no language name is given.
var ErrEmptyLanguage = errors.New("language cannot be empty")

// FileName returns the word-list file name for language, e.g. "spanish_words.txt".
func FileName(language string) string {
	return strings.ToLower(strings.TrimSpace(language)) + "_words.txt"
}

// Load reads <dir>/<language>_words.txt and returns its non-blank lines,
// trimmed and with duplicates removed, in file order.
func Load(dir, language string) ([]string, error) {
	if strings.TrimSpace(language) == "" {
		return nil, ErrEmptyLanguage
	}

	path := filepath.Join(dir, FileName(language))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer func() { _ = f.Close() }()

	seen := make(map[string]struct{})
	var terms []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		term := strings.TrimSpace(scanner.Text())
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list %s: %w", path, err)
	}

	return terms, nil
}
