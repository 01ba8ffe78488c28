package executor

import (
	"github.com/josephlewis42/gatesh/core/shell"
	"github.com/josephlewis42/gatesh/core/shellerr"
)

// Stage is one validated, resolved pipeline stage.
type Stage struct {
	// Command is the stage as parsed, with redirections cleaned.
	Command shell.Command
	// Program is the executable that will be spawned, after interpreter
	// dispatch.
	Program string
	// Args are the arguments passed to Program.
	Args []string
	// Interpreter is set when Program is a script interpreter.
	Interpreter bool
}

// Argv returns the program followed by its arguments.
func (s Stage) Argv() []string {
	return append([]string{s.Program}, s.Args...)
}

func (s Stage) String() string {
	return shell.Command{
		Program:        s.Program,
		Args:           s.Args,
		InputRedirect:  s.Command.InputRedirect,
		OutputRedirect: s.Command.OutputRedirect,
		Append:         s.Command.Append,
		Background:     s.Command.Background,
	}.String()
}

// Plan resolves and validates a whole pipeline without opening files or
// spawning anything.
func (e *Executor) Plan(cmds []shell.Command) ([]Stage, error) {
	admitted, err := e.admit(cmds)
	if err != nil {
		return nil, err
	}

	stages := make([]Stage, 0, len(admitted))
	for _, cmd := range admitted {
		stage, err := e.prepare(cmd)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

// admit applies the pipeline wide checks: length, empty stage removal and
// redirection paths.
func (e *Executor) admit(cmds []shell.Command) ([]shell.Command, error) {
	if len(cmds) > e.limits.MaxPipelineLength {
		return nil, shellerr.Newf(shellerr.KindResourceLimit, shellerr.PipelineTooLong, "",
			"%d stages, max %d", len(cmds), e.limits.MaxPipelineLength)
	}

	out := make([]shell.Command, 0, len(cmds))
	for _, cmd := range cmds {
		if cmd.Program == "" {
			continue
		}

		if cmd.InputRedirect != "" {
			cleaned, err := e.engine.ValidatePath(cmd.InputRedirect)
			if err != nil {
				return nil, err
			}
			cmd.InputRedirect = cleaned
		}
		if cmd.OutputRedirect != "" {
			cleaned, err := e.engine.ValidatePath(cmd.OutputRedirect)
			if err != nil {
				return nil, err
			}
			cmd.OutputRedirect = cleaned
		}

		out = append(out, cmd)
	}
	return out, nil
}

// prepare resolves interpreter dispatch and runs the command and argument
// checks for a single stage.
func (e *Executor) prepare(cmd shell.Command) (Stage, error) {
	program, args, interp, err := resolveInterpreter(e.interpreters, cmd.Program, cmd.Args)
	if err != nil {
		return Stage{}, err
	}

	if err := e.engine.ValidateCommand(program); err != nil {
		return Stage{}, err
	}

	if interp {
		err = e.engine.ValidateInterpreterArguments(args)
	} else {
		err = e.engine.ValidateArguments(args)
	}
	if err != nil {
		return Stage{}, err
	}

	return Stage{
		Command:     cmd,
		Program:     program,
		Args:        args,
		Interpreter: interp,
	}, nil
}
