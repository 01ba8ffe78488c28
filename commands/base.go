package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	getopt "github.com/pborman/getopt/v2"
)

// SimpleCommand parses getopt style flags for a builtin and prints a
// consistent help message.
type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool
	// NeverBail skips interacting with stdout/stderr on failure and
	// always runs the callback.
	NeverBail bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (c *SimpleCommand) Flags() *getopt.Set {
	if c.flags == nil {
		c.flags = getopt.New()
	}

	return c.flags
}

// PrintHelp writes help for the command to the given writer.
func (c *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, c.Use)
	fmt.Fprintln(w, c.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	c.Flags().PrintOptions(w)
}

// Run the command, if flag parsing was succcessful call the callback.
func (c *SimpleCommand) Run(s *Shell, args []string, callback func() int) int {
	opts := c.Flags()

	// Add help flag if not overridden.
	if c.ShowHelp == nil {
		c.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	err := opts.Getopt(args, nil)
	if err != nil && !c.NeverBail {
		fmt.Fprintf(s.Stderr, "%s: %s\n\n", args[0], err)

		c.PrintHelp(s.Stdout)
		return 1
	}

	if *c.ShowHelp {
		c.PrintHelp(s.Stdout)
		return 0
	}

	return callback()
}

// RunEachArg runs callback for every positional argument, printing errors
// as they happen. It fails if any callback did.
func (c *SimpleCommand) RunEachArg(s *Shell, args []string, callback func(string) error) int {
	return c.Run(s, args, func() int {
		anyFailed := false
		for _, arg := range c.Flags().Args() {
			if err := callback(arg); err != nil {
				fmt.Fprintf(s.Stderr, "%s: %s\n", args[0], err)
				anyFailed = true
			}
		}

		if anyFailed {
			return 1
		}
		return 0
	})
}

var (
	ColorBoldRed = color.New(color.FgRed, color.Bold)

	promptColors = map[string]color.Attribute{
		"black":   color.FgBlack,
		"red":     color.FgRed,
		"green":   color.FgGreen,
		"yellow":  color.FgYellow,
		"blue":    color.FgBlue,
		"magenta": color.FgMagenta,
		"cyan":    color.FgCyan,
		"white":   color.FgWhite,
	}
)
