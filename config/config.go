// Package config loads the settings of the bingo command from the environment
// (optionally seeded from a .env file) and validates them. Command-line flags
// are layered on top by the caller.
//
// Every variable uses the BINGO_ prefix:
//
//	BINGO_WIDTH=5 BINGO_HEIGHT=5 BINGO_FILE=names.txt BINGO_CENTER=FREE bingo
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/Parkreiner/namebingo"
)

// EnvPrefix is prepended to every variable name in Config.
const EnvPrefix = "BINGO_"

// Mode is how a run delivers its document.
type Mode int

const (
	// ModeStdout writes one document to standard output.
	ModeStdout Mode = iota
	// ModeFile writes one document to Config.Output.
	ModeFile
	// ModeServe renders a fresh document for every HTTP request.
	ModeServe
	// ModePreview prints one card as a terminal table instead of HTML.
	ModePreview
)

func (m Mode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeServe:
		return "serve"
	case ModePreview:
		return "preview"
	default:
		return "stdout"
	}
}

// Config is the full configuration surface. Optional text settings are
// pointers so that "unset" and "set to an empty string" stay distinct.
type Config struct {
	Width  int `env:"WIDTH"`
	Height int `env:"HEIGHT"`

	Center      *string `env:"CENTER"`
	Filler      string  `env:"DEFAULT" envDefault:"Joker"`
	NoFiller    bool    `env:"NO_DEFAULT"`
	Title       *string `env:"TITLE"`
	Description *string `env:"DESCRIPTION"`

	File    string   `env:"FILE"`
	LDAP    string   `env:"LDAP"`
	Command string   `env:"COMMAND"`
	Names   []string `env:"NAMES" envSeparator:","`

	LDAPBindDN    string `env:"LDAP_BIND_DN"`
	LDAPPassword  string `env:"LDAP_PASSWORD"`
	LDAPFilter    string `env:"LDAP_FILTER"`
	LDAPAttribute string `env:"LDAP_ATTRIBUTE"`

	Output  string  `env:"OUTPUT"`
	Listen  string  `env:"LISTEN"`
	Preview bool    `env:"PREVIEW"`
	Watch   bool    `env:"WATCH"`
	Seed    *uint64 `env:"SEED"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads an optional .env file from the working directory (existing
// environment variables win) and parses the BINGO_ variables into a Config.
// The result is not validated, so flags can still fill in missing values.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: loading .env: %v", bingo.ErrConfiguration, err)
	}
	return FromEnv(nil)
}

// FromEnv parses a Config from environ, or from the process environment when
// environ is nil. Keys in environ must include the BINGO_ prefix.
func FromEnv(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("%w: %v", bingo.ErrConfiguration, err)
	}
	return cfg, nil
}

// Mode derives the delivery mode. Validate guarantees that at most one of the
// mode-selecting settings is present.
func (c Config) Mode() Mode {
	switch {
	case c.Listen != "":
		return ModeServe
	case c.Preview:
		return ModePreview
	case c.Output != "" && c.Output != "-":
		return ModeFile
	default:
		return ModeStdout
	}
}

// Spec returns the grid dimensions.
func (c Config) Spec() bingo.GridSpec {
	return bingo.GridSpec{Width: c.Width, Height: c.Height}
}

// FillerToken returns the filler to pad cards with, or nil when padding was
// turned off.
func (c Config) FillerToken() *bingo.Token {
	if c.NoFiller {
		return nil
	}
	filler := c.Filler
	return &filler
}

// Sources returns the names of the configured name sources.
func (c Config) Sources() []string {
	var sources []string
	if c.File != "" {
		sources = append(sources, "file")
	}
	if c.LDAP != "" {
		sources = append(sources, "ldap")
	}
	if c.Command != "" {
		sources = append(sources, "command")
	}
	if len(c.Names) > 0 {
		sources = append(sources, "names")
	}
	return sources
}

// Validate reports every problem it finds, joined into a single error that
// matches bingo.ErrConfiguration.
func (c Config) Validate() error {
	var problems []string

	if c.Width <= 0 {
		problems = append(problems, fmt.Sprintf("width must be a positive integer, got %d", c.Width))
	}
	if c.Height <= 0 {
		problems = append(problems, fmt.Sprintf("height must be a positive integer, got %d", c.Height))
	}

	switch sources := c.Sources(); len(sources) {
	case 0:
		problems = append(problems, "one name source is required (file, ldap, command, or names)")
	case 1:
	default:
		problems = append(problems, fmt.Sprintf("only one name source may be used, got %s", strings.Join(sources, ", ")))
	}

	modes := 0
	if c.Listen != "" {
		modes++
	}
	if c.Preview {
		modes++
	}
	if c.Output != "" {
		modes++
	}
	if modes > 1 {
		problems = append(problems, "output, listen, and preview are mutually exclusive")
	}

	if c.Watch && (c.File == "" || c.Listen == "") {
		problems = append(problems, "watch needs both a name file and a listen address")
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		problems = append(problems, fmt.Sprintf("log format must be json or console, got %q", c.LogFormat))
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", bingo.ErrConfiguration, strings.Join(problems, "; "))
}
