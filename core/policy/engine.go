// Package policy decides what the shell is allowed to run and keeps the
// shared accounting (process slots, rate limits and statistics) every
// pipeline is checked against.
//
// An Engine is safe for concurrent use and is meant to be created once per
// shell and handed to every executor by pointer.
package policy

import (
	"strings"
	"time"

	"github.com/josephlewis42/gatesh/core/config"
	"github.com/josephlewis42/gatesh/core/logger"
	"github.com/josephlewis42/gatesh/core/shellerr"
	"github.com/juju/ratelimit"
	"go.uber.org/zap"
)

// DangerousCharacters may not appear in arguments of ordinary commands.
const DangerousCharacters = ";&|`$()<>\"'\\"

// Engine enforces the security configuration and owns all mutable policy
// state.
type Engine struct {
	security config.Security
	limits   config.Limits

	allowed map[string]bool
	blocked map[string]bool

	now func() time.Time
	log *zap.Logger

	processes processCounter
	limiter   *slidingWindow
	stats     *statsTable
	spawns    *ratelimit.Bucket
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used by the rate limiter and statistics.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLogger sets the logger rejections are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.log = logger.OrNop(l)
	}
}

// New creates an Engine from a snapshot of the configuration.
func New(cfg *config.Configuration, opts ...Option) *Engine {
	e := &Engine{
		security: cfg.Security,
		limits:   cfg.Limits,
		allowed:  toSet(cfg.Security.AllowedCommands),
		blocked:  toSet(cfg.Security.BlockedCommands),
		now:      time.Now,
		log:      logger.Nop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.limiter = newSlidingWindow(RateLimitWindow, RateLimitMax, e.now)
	e.stats = newStatsTable(e.now)
	if e.limits.SpawnRate > 0 {
		burst := e.limits.SpawnBurst
		if burst <= 0 {
			burst = 1
		}
		e.spawns = ratelimit.NewBucketWithRate(e.limits.SpawnRate, burst)
	}

	return e
}

func toSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[v] = true
	}
	return out
}

func (e *Engine) reject(err *shellerr.Error) error {
	e.log.Debug("policy rejected",
		zap.String("rule", string(err.Rule)),
		zap.String("subject", err.Subject),
		zap.String("detail", err.Detail),
	)
	return err
}

// ValidateCommand checks a program name against the block and allow lists.
// The block list is checked first and always wins.
func (e *Engine) ValidateCommand(name string) error {
	if len(name) > e.security.MaxCommandLength {
		return e.reject(shellerr.Newf(shellerr.KindPolicy, shellerr.InvalidInput, truncate(name, 32),
			"command name longer than %d bytes", e.security.MaxCommandLength))
	}

	if e.blocked[name] {
		return e.reject(shellerr.Newf(shellerr.KindPolicy, shellerr.DangerousCommand, name, "blocked"))
	}

	if len(e.allowed) > 0 && !e.allowed[name] {
		return e.reject(shellerr.Newf(shellerr.KindPolicy, shellerr.DangerousCommand, name, "not in whitelist"))
	}

	return nil
}

// ValidateArguments checks the number, length and content of arguments.
func (e *Engine) ValidateArguments(args []string) error {
	return e.validateArguments(args, true)
}

// ValidateInterpreterArguments is ValidateArguments without the character
// check, for arguments of scripts dispatched to an interpreter.
func (e *Engine) ValidateInterpreterArguments(args []string) error {
	return e.validateArguments(args, false)
}

func (e *Engine) validateArguments(args []string, checkChars bool) error {
	if len(args) > e.security.MaxArgCount {
		return e.reject(shellerr.Newf(shellerr.KindPolicy, shellerr.TooManyArguments, "",
			"%d arguments, max %d", len(args), e.security.MaxArgCount))
	}

	for _, arg := range args {
		if len(arg) > e.security.MaxCommandLength {
			return e.reject(shellerr.Newf(shellerr.KindPolicy, shellerr.ArgumentTooLong, truncate(arg, 32),
				"%d bytes, max %d", len(arg), e.security.MaxCommandLength))
		}

		if !checkChars {
			continue
		}
		if i := strings.IndexAny(arg, DangerousCharacters); i >= 0 {
			return e.reject(shellerr.Newf(shellerr.KindPolicy, shellerr.DangerousCharacter, arg,
				"contains %q", arg[i]))
		}
	}

	return nil
}

// CanStartProcess reports whether another background process fits in the
// budget. It doesn't reserve a slot, use AcquireProcessGuard for that.
func (e *Engine) CanStartProcess() error {
	if active := e.processes.load(); active >= int64(e.limits.MaxBackgroundProcesses) {
		return e.reject(shellerr.Newf(shellerr.KindResourceLimit, shellerr.ProcessLimit, "",
			"%d active processes, max %d", active, e.limits.MaxBackgroundProcesses))
	}
	return nil
}

// TakeSpawnToken takes one token from the session wide spawn throttle.
func (e *Engine) TakeSpawnToken() error {
	if e.spawns == nil {
		return nil
	}
	if e.spawns.TakeAvailable(1) == 0 {
		return e.reject(shellerr.Newf(shellerr.KindResourceLimit, shellerr.SpawnThrottle, "",
			"more than %g spawns per second", e.limits.SpawnRate))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
