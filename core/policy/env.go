package policy

import (
	"os"
	"sort"
	"strings"

	"github.com/josephlewis42/gatesh/core/shellerr"
)

// SanitizeEnvironment filters a KEY=VALUE environment for child processes.
// Loader hooks and shell startup files are removed, SHELL is pinned to
// /bin/sh and PATH is replaced by the configured safe path. The result is
// sorted. The input is returned sorted but otherwise untouched when
// environment sanitization is disabled.
func (e *Engine) SanitizeEnvironment(environ []string) []string {
	out := make([]string, 0, len(environ)+2)
	if !e.security.SanitizeEnvironment {
		out = append(out, environ...)
		sort.Strings(out)
		return out
	}

	for _, kv := range environ {
		key := kv
		if i := strings.IndexByte(kv, '='); i >= 0 {
			key = kv[:i]
		}

		switch {
		case strings.HasPrefix(key, "LD_"), strings.HasPrefix(key, "DYLD_"):
			continue
		case key == "BASH_ENV", key == "ENV", key == "SHELL":
			continue
		case key == "PATH" && e.security.SafePath != "":
			continue
		}
		out = append(out, kv)
	}

	out = append(out, "SHELL=/bin/sh")
	if e.security.SafePath != "" {
		out = append(out, "PATH="+e.security.SafePath)
	}

	sort.Strings(out)
	return out
}

var geteuid = os.Geteuid

// CheckPrivileges fails when the shell runs as root.
func (e *Engine) CheckPrivileges() error {
	if geteuid() == 0 {
		return e.reject(shellerr.Newf(shellerr.KindPolicy, shellerr.PermissionDenied, "root",
			"running with elevated privileges"))
	}
	return nil
}
