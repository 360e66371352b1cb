// Package scanner reads NOAA normals station files line by line and picks
// out the station code of every line that starts with a given prefix.
package scanner

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bbernstein/normals/backend-go/internal/models"
)

// DefaultPrefix selects stations located in the United States.
const DefaultPrefix = "US"

const maxLineSize = 1024 * 1024

// Scanner filters lines by a literal prefix.
type Scanner struct {
	Prefix string
}

func New(prefix string) *Scanner {
	return &Scanner{Prefix: prefix}
}

// HasPrefix reports whether the raw line starts with prefix. Leading
// whitespace is significant. An empty prefix matches every line, blank ones
// included.
func HasPrefix(line, prefix string) bool {
	return strings.HasPrefix(line, prefix)
}

// StationCode returns the first whitespace delimited field of line.
func StationCode(line string) (models.StationCode, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	return models.StationCode(fields[0]), true
}

// ForEachMatch calls fn for every line of r that starts with the scanner
// prefix. Returning an error from fn stops the scan.
func (s *Scanner) ForEachMatch(r io.Reader, fn func(line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for sc.Scan() {
		line := sc.Text()
		if !HasPrefix(line, s.Prefix) {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading lines: %w", err)
	}
	return nil
}

// StationSet collects the distinct station codes of all matching lines.
func (s *Scanner) StationSet(r io.Reader) (*models.StationSet, error) {
	set := models.NewStationSet()
	err := s.ForEachMatch(r, func(line string) error {
		if code, ok := StationCode(line); ok {
			set.Add(code)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// CountLines returns the number of matching lines.
func (s *Scanner) CountLines(r io.Reader) (int, error) {
	count := 0
	err := s.ForEachMatch(r, func(string) error {
		count++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
