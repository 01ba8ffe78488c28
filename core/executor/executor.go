// Package executor runs parsed pipelines as real processes after they pass
// the policy engine.
package executor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/josephlewis42/gatesh/core/config"
	"github.com/josephlewis42/gatesh/core/logger"
	"github.com/josephlewis42/gatesh/core/policy"
	"github.com/josephlewis42/gatesh/core/shell"
	"github.com/josephlewis42/gatesh/core/shellerr"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ExitFailure is the status reported alongside an error.
const ExitFailure = 1

// Executor spawns pipelines. It holds a snapshot of the configuration and a
// shared policy engine.
type Executor struct {
	engine       *policy.Engine
	limits       config.Limits
	interpreters config.Interpreters

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	fs  afero.Fs
	env func() []string
	log *zap.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithIO sets the streams of the shell. Unredirected stages read from stdin
// and write to stdout; every stage writes to stderr.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(e *Executor) {
		e.stdin = stdin
		e.stdout = stdout
		e.stderr = stderr
	}
}

// WithFs sets the file system redirections are opened on.
func WithFs(fsys afero.Fs) Option {
	return func(e *Executor) {
		e.fs = fsys
	}
}

// WithEnv sets the source of the child environment. It's passed through
// the engine's environment sanitization on every spawn.
func WithEnv(env func() []string) Option {
	return func(e *Executor) {
		e.env = env
	}
}

// WithLogger sets the logger for spawns and reaps.
func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) {
		e.log = logger.OrNop(l)
	}
}

// New creates an executor bound to engine.
func New(engine *policy.Engine, cfg *config.Configuration, opts ...Option) *Executor {
	e := &Executor{
		engine:       engine,
		limits:       cfg.Limits,
		interpreters: cfg.Interpreters,
		stdin:        os.Stdin,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		fs:           afero.NewOsFs(),
		env:          os.Environ,
		log:          logger.Nop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}

type process struct {
	cmd   *exec.Cmd
	guard *policy.ProcessGuard
}

// Execute runs a pipeline. It returns the exit status of the final stage, or
// 0 once a background pipeline has been spawned. If an error is returned the
// status is ExitFailure.
//
// A failure part way through the pipeline doesn't kill the stages already
// started; they're reaped in the background.
func (e *Executor) Execute(ctx context.Context, cmds []shell.Command) (int, error) {
	if len(cmds) == 0 {
		return 0, nil
	}

	admitted, err := e.admit(cmds)
	if err != nil {
		return ExitFailure, err
	}
	if len(admitted) == 0 {
		return 0, nil
	}

	background := admitted[len(admitted)-1].Background

	var (
		procs    []process
		files    listCloser
		prevRead *os.File
	)

	abort := func(err error) (int, error) {
		if prevRead != nil {
			prevRead.Close()
		}
		e.reap(procs, files)
		return ExitFailure, err
	}

	for i, cmd := range admitted {
		first, last := i == 0, i == len(admitted)-1

		stage, err := e.prepare(cmd)
		if err != nil {
			return abort(err)
		}

		var stdin io.Reader = e.stdin
		var stdout io.Writer = e.stdout
		var pipeEnds listCloser

		switch {
		case prevRead != nil:
			stdin = prevRead
			pipeEnds = append(pipeEnds, prevRead)
			prevRead = nil
		case first && cmd.InputRedirect != "":
			f, err := e.fs.Open(cmd.InputRedirect)
			if err != nil {
				return abort(shellerr.Wrap(shellerr.KindFileSystem, shellerr.OpenFailed, cmd.InputRedirect, err))
			}
			files = append(files, f)
			stdin = f
		case background:
			// A nil stdin reads from the null device.
			stdin = nil
		}

		switch {
		case !last:
			r, w, err := os.Pipe()
			if err != nil {
				pipeEnds.Close()
				return abort(shellerr.Wrap(shellerr.KindProcessExecution, shellerr.SpawnFailed, stage.Program, err))
			}
			stdout = w
			pipeEnds = append(pipeEnds, w)
			prevRead = r
		case cmd.OutputRedirect != "":
			f, err := e.openOutput(cmd.OutputRedirect, cmd.Append)
			if err != nil {
				pipeEnds.Close()
				return abort(err)
			}
			files = append(files, f)
			stdout = f
		}

		proc, err := e.spawn(ctx, stage, background, stdin, stdout)
		// The child has its own copies of the pipe ends.
		pipeEnds.Close()
		if err != nil {
			return abort(err)
		}
		procs = append(procs, proc)
	}

	if background {
		e.reap(procs, files)
		return 0, nil
	}

	return e.wait(procs, files)
}

func (e *Executor) openOutput(name string, appendTo bool) (afero.File, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if appendTo {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}

	f, err := e.fs.OpenFile(name, flags, 0644)
	if err != nil {
		return nil, shellerr.Wrap(shellerr.KindFileSystem, shellerr.OpenFailed, name, err)
	}
	return f, nil
}

func (e *Executor) spawn(ctx context.Context, stage Stage, background bool, stdin io.Reader, stdout io.Writer) (process, error) {
	if err := e.engine.TakeSpawnToken(); err != nil {
		return process{}, err
	}

	var guard *policy.ProcessGuard
	if background {
		if err := e.engine.CanStartProcess(); err != nil {
			return process{}, err
		}
		guard = e.engine.AcquireProcessGuard()
	}

	var cmd *exec.Cmd
	if background {
		// Background jobs outlive the line that started them.
		cmd = exec.Command(stage.Program, stage.Args...)
	} else {
		cmd = exec.CommandContext(ctx, stage.Program, stage.Args...)
	}
	cmd.Env = e.engine.SanitizeEnvironment(e.env())
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = e.stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		if guard != nil {
			guard.Release()
		}
		return process{}, shellerr.Wrap(shellerr.KindProcessExecution, shellerr.SpawnFailed, stage.Program, err)
	}
	latency := time.Since(start)
	e.engine.RecordExecution(stage.Program, latency)

	e.log.Debug("spawned",
		zap.String("program", stage.Program),
		zap.Strings("args", stage.Args),
		zap.Int("pid", cmd.Process.Pid),
		zap.Bool("background", background),
		zap.Duration("latency", latency),
	)

	return process{cmd: cmd, guard: guard}, nil
}

// wait waits for every process in order and returns the status of the last
// one. Exit statuses of earlier stages are ignored.
func (e *Executor) wait(procs []process, files listCloser) (int, error) {
	defer files.Close()

	status := 0
	var waitErr error
	for i, p := range procs {
		code, err := exitStatus(p.cmd.Wait())
		if err != nil {
			if waitErr == nil {
				waitErr = shellerr.Wrap(shellerr.KindProcess, shellerr.WaitFailed, p.cmd.Path, err)
			}
			continue
		}
		if i == len(procs)-1 {
			status = code
		}
	}

	if waitErr != nil {
		return ExitFailure, waitErr
	}
	return status, nil
}

// reap waits for procs in the background, releasing each process's guard as
// it exits and closing files once all of them have.
func (e *Executor) reap(procs []process, files listCloser) {
	var wg sync.WaitGroup
	for _, p := range procs {
		wg.Add(1)
		go func(p process) {
			defer wg.Done()
			if p.guard != nil {
				defer p.guard.Release()
			}

			code, err := exitStatus(p.cmd.Wait())
			e.log.Debug("reaped",
				zap.String("program", p.cmd.Path),
				zap.Int("pid", p.cmd.Process.Pid),
				zap.Int("status", code),
				zap.Error(err),
			)
		}(p)
	}

	go func() {
		wg.Wait()
		files.Close()
	}()
}

// exitStatus splits the result of Wait into an exit status and a failure to
// wait at all.
func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		// killed by a signal
		return ExitFailure, nil
	}
	return ExitFailure, err
}
