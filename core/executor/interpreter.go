package executor

import (
	"path/filepath"

	"github.com/anmitsu/go-shlex"
	"github.com/josephlewis42/gatesh/core/config"
	"github.com/josephlewis42/gatesh/core/shellerr"
)

// launcherFor returns the configured launcher for a script extension. The
// set of extensions is fixed, only the launchers are configurable.
func launcherFor(interp config.Interpreters, ext string) (string, bool) {
	switch ext {
	case ".py":
		return interp.PythonPath, true
	case ".rb":
		return interp.RubyPath, true
	case ".js":
		return interp.NodePath, true
	}
	return "", false
}

// resolveInterpreter rewrites a script invocation into a call to its
// interpreter. The launcher may carry flags, e.g. "python3 -u", which come
// before the script name.
func resolveInterpreter(interp config.Interpreters, program string, args []string) (string, []string, bool, error) {
	if !interp.EnableScripts {
		return program, args, false, nil
	}

	launcher, ok := launcherFor(interp, filepath.Ext(program))
	if !ok {
		return program, args, false, nil
	}

	parts, err := shlex.Split(launcher, true)
	if err != nil || len(parts) == 0 {
		return "", nil, false, shellerr.Newf(shellerr.KindPolicy, shellerr.InvalidInput, launcher,
			"bad interpreter for %s", filepath.Ext(program))
	}

	out := make([]string, 0, len(parts)+len(args))
	out = append(out, parts[1:]...)
	out = append(out, program)
	out = append(out, args...)
	return parts[0], out, true, nil
}
