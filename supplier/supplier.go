// Package supplier provides the interchangeable sources a pool of names can be
// loaded from: in-memory lists, files, an LDAP directory, or the output of an
// external command.
package supplier

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/Parkreiner/namebingo"
)

// Static supplies a fixed list of names.
type Static struct {
	Names bingo.Pool
}

var _ bingo.NameSupplier = Static{}

// Supply returns a normalized copy of the configured names.
func (s Static) Supply(context.Context) (bingo.Pool, error) {
	pool := make(bingo.Pool, 0, len(s.Names))
	for _, name := range s.Names {
		if name, ok := normalizeName(name); ok {
			pool = append(pool, name)
		}
	}
	return pool, nil
}

// unavailable wraps err so callers can match it with bingo.ErrSourceUnavailable.
func unavailable(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", bingo.ErrSourceUnavailable, source, err)
}

// normalizeName trims surrounding whitespace and converts the name to NFC, so
// that the same name typed on different systems renders identically. Blank
// names are dropped.
func normalizeName(raw string) (bingo.Token, bool) {
	name := strings.TrimSpace(norm.NFC.String(raw))
	if name == "" {
		return "", false
	}
	return name, true
}

// readLines reads one name per line from r. A leading UTF-8 BOM is skipped and
// blank lines are ignored.
func readLines(r io.Reader) (bingo.Pool, error) {
	var pool bingo.Pool
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		line := scanner.Text()
		lineNo++
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if !utf8.ValidString(line) {
			return nil, fmt.Errorf("line %d is not valid UTF-8", lineNo)
		}
		if name, ok := normalizeName(line); ok {
			pool = append(pool, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pool, nil
}
