package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/josephlewis42/gatesh/core/config"
	"github.com/josephlewis42/gatesh/core/executor"
	"github.com/josephlewis42/gatesh/core/logger"
	"github.com/josephlewis42/gatesh/core/policy"
	"github.com/josephlewis42/gatesh/core/shell"
	"github.com/josephlewis42/gatesh/core/shellerr"
	"github.com/josephlewis42/gatesh/core/vos"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const (
	EnvHome = "HOME"
	EnvPWD  = "PWD"
	EnvPath = "PATH"

	// ExitSyntax is the status of a line that didn't parse.
	ExitSyntax = 2
)

// IO holds the standard streams of a shell.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// StdIO returns the process's standard streams.
func StdIO() IO {
	return IO{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Shell reads lines, runs builtins itself and hands everything else to the
// executor.
type Shell struct {
	Config   *config.Configuration
	Engine   *policy.Engine
	Executor *executor.Executor
	// Env holds the exported variables, children get a sanitized copy.
	Env *vos.MapEnv
	// Fs is used to look up executables.
	Fs       afero.Fs
	Readline *readline.Instance

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	log     *zap.Logger
	lastRet int
	history []string

	// Set to true to quit the shell
	Quit bool
}

// NewShell creates a shell whose environment is seeded from environ.
func NewShell(cfg *config.Configuration, stdio IO, environ []string, log *zap.Logger) *Shell {
	log = logger.OrNop(log)

	s := &Shell{
		Config: cfg,
		Engine: policy.New(cfg, policy.WithLogger(log)),
		Env:    vos.NewMapEnvFromEnvList(environ),
		Fs:     afero.NewOsFs(),
		Stdin:  stdio.Stdin,
		Stdout: stdio.Stdout,
		Stderr: stdio.Stderr,
		log:    log,
	}

	s.Executor = executor.New(s.Engine, cfg,
		executor.WithIO(stdio.Stdin, stdio.Stdout, stdio.Stderr),
		executor.WithEnv(s.Env.Environ),
		executor.WithLogger(log),
	)

	if err := s.Engine.CheckPrivileges(); err != nil {
		log.Warn("shell is running as root", zap.Error(err))
	}

	return s
}

// LastStatus returns the exit status of the last line.
func (s *Shell) LastStatus() int {
	return s.lastRet
}

// History returns the lines entered so far.
func (s *Shell) History() []string {
	return append([]string(nil), s.history...)
}

// RunLine runs one line of input and returns its exit status.
func (s *Shell) RunLine(ctx context.Context, line string) int {
	cleaned, err := s.Engine.SanitizeInput(line)
	if err != nil {
		s.reportError(err)
		s.lastRet = 1
		return s.lastRet
	}

	cmds, err := shell.Parse(cleaned)
	switch {
	case errors.Is(err, shell.ErrEmptyCommand):
		return s.lastRet
	case err != nil:
		s.reportError(err)
		s.lastRet = ExitSyntax
		return s.lastRet
	}

	s.history = append(s.history, cleaned)

	if len(cmds) == 1 && !cmds[0].Background {
		if builtin, ok := AllBuiltins[cmds[0].Program]; ok {
			if cmds[0].InputRedirect != "" || cmds[0].OutputRedirect != "" {
				fmt.Fprintf(s.Stderr, "%s: builtins can't be redirected\n", cmds[0].Program)
				s.lastRet = 1
				return s.lastRet
			}
			s.lastRet = builtin.Main(ctx, s, cmds[0].Argv())
			return s.lastRet
		}
	}

	code, err := s.Executor.Execute(ctx, cmds)
	if err != nil {
		s.reportError(err)
	}
	s.lastRet = code
	return s.lastRet
}

func (s *Shell) reportError(err error) {
	if shellerr.KindOf(err) == shellerr.KindPolicy {
		s.log.Info("line rejected", zap.Error(err))
	}

	msg := fmt.Sprintf("gatesh: %v", err)
	if s.colorsEnabled() {
		msg = ColorBoldRed.Sprint(msg)
	}
	fmt.Fprintln(s.Stderr, msg)
}

func (s *Shell) stdoutFd() (int, bool) {
	f, ok := s.Stdout.(*os.File)
	if !ok {
		return 0, false
	}
	return int(f.Fd()), true
}

func (s *Shell) isTerminal() bool {
	fd, ok := s.stdoutFd()
	return ok && term.IsTerminal(fd)
}

func (s *Shell) width() int {
	if fd, ok := s.stdoutFd(); ok {
		if w, _, err := term.GetSize(fd); err == nil {
			return w
		}
	}
	return 80
}

func (s *Shell) colorsEnabled() bool {
	return s.Config.UI.EnableColors && s.isTerminal()
}

func (s *Shell) prompt() string {
	prompt := s.Config.UI.Prompt
	if !s.colorsEnabled() {
		return prompt
	}
	c := color.New(promptColors[s.Config.UI.PromptColor], color.Bold)
	c.EnableColor()
	return c.Sprint(prompt)
}

// Run reads lines until exit or end of input and returns the exit status.
func (s *Shell) Run(ctx context.Context) (int, error) {
	cfg := &readline.Config{
		Stdin:          readline.NewCancelableStdin(s.Stdin),
		Stdout:         s.Stdout,
		Stderr:         s.Stderr,
		FuncGetWidth:   s.width,
		FuncIsTerminal: s.isTerminal,
	}

	if err := cfg.Init(); err != nil {
		return 1, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return 1, err
	}
	defer rl.Close()
	s.Readline = rl

	// The terminal delivers SIGINT to the shell along with its foreground
	// children; it only cancels the running line.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	for !s.Quit {
		if ctx.Err() != nil {
			return s.lastRet, ctx.Err()
		}

		rl.SetPrompt(s.prompt())
		line, err := rl.Readline()

		switch {
		case err == io.EOF:
			return s.lastRet, nil // Input closed, quit.

		case err == readline.ErrInterrupt:
			// Interrupt clears line.
			continue

		case err != nil:
			s.log.Error("readline failed", zap.Error(err))
			return 1, err

		default:
			s.runInterruptible(ctx, line, interrupts)
		}
	}

	return s.lastRet, nil
}

// runInterruptible runs a line, cancelling it if a value arrives on
// interrupts before it finishes.
func (s *Shell) runInterruptible(ctx context.Context, line string, interrupts <-chan os.Signal) int {
	// Drop interrupts that arrived while no line was running.
	for drained := false; !drained; {
		select {
		case <-interrupts:
		default:
			drained = true
		}
	}

	lineCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-interrupts:
			s.log.Debug("line interrupted", zap.String("line", line))
			cancel()
		case <-done:
		}
	}()

	return s.RunLine(lineCtx, line)
}
