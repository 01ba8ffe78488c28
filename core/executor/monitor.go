package executor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"time"

	"github.com/josephlewis42/gatesh/core/shell"
	"github.com/josephlewis42/gatesh/core/shellerr"
	"go.uber.org/zap"
)

// monitorWaitDelay bounds how long Wait keeps copying output after the
// command exits or is killed. Descendants that inherited the output pipes
// are abandoned after it.
const monitorWaitDelay = 250 * time.Millisecond

// Output is the captured result of a monitored command.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// RunMonitored runs a single command with the configured timeout, capturing
// its output up to the configured size. Each program may only be run
// policy.RateLimitMax times per rate limit window this way.
//
// If the output overflows the partial Output is returned along with the
// error.
func (e *Executor) RunMonitored(ctx context.Context, cmd shell.Command) (*Output, error) {
	if cmd.Program == "" {
		return nil, shellerr.New(shellerr.KindParse, shellerr.NoCommand, "")
	}

	stage, err := e.prepare(cmd)
	if err != nil {
		return nil, err
	}

	if err := e.engine.CheckRateLimit("cmd:" + stage.Program); err != nil {
		return nil, err
	}
	if err := e.engine.CanStartProcess(); err != nil {
		return nil, err
	}
	guard := e.engine.AcquireProcessGuard()
	defer guard.Release()

	if err := e.engine.TakeSpawnToken(); err != nil {
		return nil, err
	}

	timeout := e.limits.CommandTimeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stdout := &limitedBuffer{limit: e.limits.MaxOutputBytes}
	stderr := &limitedBuffer{limit: e.limits.MaxOutputBytes}

	c := exec.CommandContext(ctx, stage.Program, stage.Args...)
	c.Env = e.engine.SanitizeEnvironment(e.env())
	c.Stdout = stdout
	c.Stderr = stderr
	c.WaitDelay = monitorWaitDelay

	start := time.Now()
	if err := c.Start(); err != nil {
		return nil, shellerr.Wrap(shellerr.KindProcessExecution, shellerr.SpawnFailed, stage.Program, err)
	}
	code, waitErr := exitStatus(c.Wait())
	if errors.Is(waitErr, exec.ErrWaitDelay) {
		// Exited cleanly, a descendant still held the pipes.
		code, waitErr = 0, nil
	}
	elapsed := time.Since(start)
	e.engine.RecordExecution(stage.Program, elapsed)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		e.log.Warn("command timed out",
			zap.String("program", stage.Program),
			zap.Duration("timeout", timeout),
		)
		return nil, shellerr.Newf(shellerr.KindResourceLimit, shellerr.Timeout, stage.Program,
			"no exit after %s", timeout)
	}
	if waitErr != nil {
		return nil, shellerr.Wrap(shellerr.KindProcess, shellerr.WaitFailed, stage.Program, waitErr)
	}

	out := &Output{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: code,
	}

	if stdout.truncated || stderr.truncated {
		return out, shellerr.Newf(shellerr.KindResourceLimit, shellerr.OutputTooLarge, stage.Program,
			"more than %d bytes", e.limits.MaxOutputBytes)
	}

	return out, nil
}

// limitedBuffer keeps the first limit bytes written to it and discards the
// rest. A limit of 0 means no limit.
type limitedBuffer struct {
	buf       bytes.Buffer
	limit     int64
	truncated bool
}

func (l *limitedBuffer) Write(p []byte) (int, error) {
	if l.limit <= 0 {
		return l.buf.Write(p)
	}
	remaining := l.limit - int64(l.buf.Len())
	if remaining <= 0 {
		l.truncated = true
		return len(p), nil
	}
	if int64(len(p)) > remaining {
		l.truncated = true
		_, _ = l.buf.Write(p[:remaining])
		return len(p), nil
	}
	return l.buf.Write(p)
}

func (l *limitedBuffer) Bytes() []byte {
	return l.buf.Bytes()
}

var _ io.Writer = (*limitedBuffer)(nil)
