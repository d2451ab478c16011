// internal/words/load.go
//
// Text loaders for the word catalog.
//
// Format (one entry per line):
//   # comment
//   @category ANIMAUX
//   ELEPHANT
//   GIRAFE
//   @tier FACILE
//   CHAT
//
// Words are trimmed and upper-cased. Lines that are not valid words
// (characters outside A–Z and '-') are skipped with a warning.

package words

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/assets"
)

// Parse reads a sectioned catalog and validates it.
func Parse(r io.Reader) (*Catalog, error) {
	categories := map[string][]string{}
	tiers := map[string][]string{}

	var (
		current map[string][]string
		bucket  string
		lineNo  int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "@") {
			directive, name, _ := strings.Cut(line[1:], " ")
			name = strings.ToUpper(strings.TrimSpace(name))
			if name == "" {
				return nil, fmt.Errorf("words: line %d: section without a name", lineNo)
			}
			switch Kind(strings.ToLower(directive)) {
			case KindCategory:
				current = categories
			case KindTier:
				current = tiers
			default:
				return nil, fmt.Errorf("words: line %d: unknown section %q", lineNo, directive)
			}
			bucket = name
			if _, ok := current[bucket]; !ok {
				current[bucket] = []string{}
			}
			continue
		}

		if current == nil {
			return nil, fmt.Errorf("words: line %d: word outside of a section", lineNo)
		}
		w := Normalize(line)
		if !IsWord(w) {
			log.Warn().Int("line", lineNo).Str("word", line).Str("bucket", bucket).Msg("skipping invalid catalog word")
			continue
		}
		current[bucket] = append(current[bucket], w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("words: read catalog: %w", err)
	}
	return New(categories, tiers)
}

// LoadFile parses a catalog file from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Default parses the embedded word base.
func Default() (*Catalog, error) {
	f, err := assets.Catalog()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
