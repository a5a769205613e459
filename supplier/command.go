package supplier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Parkreiner/namebingo"
)

// Command supplies names printed by an external program, one per line on
// standard output. The program runs on every call to Supply and is killed when
// the context is canceled.
type Command struct {
	Name string
	Args []string
}

var _ bingo.NameSupplier = Command{}

// ShellCommand returns a Command that runs line through /bin/sh.
func ShellCommand(line string) Command {
	return Command{Name: "/bin/sh", Args: []string{"-c", line}}
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Supply runs the command and collects its output.
func (c Command) Supply(ctx context.Context) (bingo.Pool, error) {
	if c.Name == "" {
		return nil, unavailable("command", errors.New("no command given"))
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, unavailable(fmt.Sprintf("running %q", c.String()), err)
	}

	pool, err := readLines(&stdout)
	if err != nil {
		return nil, unavailable(fmt.Sprintf("reading output of %q", c.String()), err)
	}
	return pool, nil
}
