// Package cli wires the stores and resource clients behind the
// shopctl command set.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command defines one CLI subcommand.
type Command struct {
	// Usage is the command name plus argument/flag hints, e.g.
	// "buy <id> [--qty n]".
	Usage string

	// Short is the one-line description for the help listing.
	Short string

	// Flags holds command-specific flags; may be nil.
	Flags *flag.FlagSet

	// Exec runs the command after flags are parsed.
	Exec func(a *App, out io.Writer, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")
	return name
}

func (c *Command) helpLine() string {
	return fmt.Sprintf("  %-28s %s", c.Usage, c.Short)
}

// run parses flags and executes the command, printing errors to
// errOut. Returns the exit code.
func (c *Command) run(a *App, out, errOut io.Writer, args []string) int {
	if c.Flags == nil {
		c.Flags = flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	}
	c.Flags.SetOutput(errOut)
	if err := c.Flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	if err := c.Exec(a, out, c.Flags.Args()); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	return 0
}
