package supplier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Parkreiner/namebingo"
)

// File supplies names read from a file on disk. Plain files hold one name per
// line. Files with a .yaml or .yml extension hold either a sequence of names or
// a mapping with a "names" sequence.
type File struct {
	Path string
}

var _ bingo.NameSupplier = File{}

// Supply reads the whole file on every call.
func (f File) Supply(ctx context.Context) (bingo.Pool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, unavailable(fmt.Sprintf("reading %q", f.Path), err)
	}

	var pool bingo.Pool
	if f.isYAML() {
		pool, err = parseYAMLNames(content)
	} else {
		pool, err = readLines(bytes.NewReader(content))
	}
	if err != nil {
		return nil, unavailable(fmt.Sprintf("parsing %q", f.Path), err)
	}
	return pool, nil
}

func (f File) isYAML() bool {
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

type yamlNameList struct {
	Names []string `yaml:"names"`
}

func parseYAMLNames(content []byte) (bingo.Pool, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, err
	}
	// An empty document decodes to a zero node
	if len(doc.Content) == 0 {
		return nil, nil
	}

	var raw []string
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&raw); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var list yamlNameList
		if err := root.Decode(&list); err != nil {
			return nil, err
		}
		raw = list.Names
	default:
		return nil, errors.New("expected a list of names or a mapping with a \"names\" key")
	}

	pool := make(bingo.Pool, 0, len(raw))
	for _, name := range raw {
		if name, ok := normalizeName(name); ok {
			pool = append(pool, name)
		}
	}
	return pool, nil
}
