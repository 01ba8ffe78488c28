package policy

import (
	"path/filepath"
	"strings"

	"github.com/josephlewis42/gatesh/core/shellerr"
)

// MaxPathLength is the longest path ValidatePath accepts.
const MaxPathLength = 4096

// ValidatePath checks a redirection target and returns its cleaned form.
// Relative paths are accepted as long as they don't climb out with "..";
// absolute paths must sit under one of the allowed prefixes.
func (e *Engine) ValidatePath(path string) (string, error) {
	if !e.security.ValidatePaths {
		return filepath.Clean(path), nil
	}

	if strings.ContainsRune(path, 0) {
		return "", e.reject(shellerr.Newf(shellerr.KindPolicy, shellerr.InvalidInput, "", "path contains NUL"))
	}
	if len(path) > MaxPathLength {
		return "", e.reject(shellerr.Newf(shellerr.KindPolicy, shellerr.InvalidInput, truncate(path, 32),
			"path longer than %d bytes", MaxPathLength))
	}

	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if segment == ".." {
			return "", e.reject(shellerr.Policy(shellerr.PathTraversal, path))
		}
	}

	cleaned := filepath.Clean(path)
	if filepath.IsAbs(cleaned) && !e.underAllowedPrefix(cleaned) {
		return "", e.reject(shellerr.Newf(shellerr.KindPolicy, shellerr.PathTraversal, path,
			"outside allowed directories"))
	}

	return cleaned, nil
}

func (e *Engine) underAllowedPrefix(cleaned string) bool {
	for _, prefix := range e.security.AllowedPathPrefixes {
		prefix = filepath.Clean(prefix)
		if cleaned == prefix {
			return true
		}
		if prefix == string(filepath.Separator) || strings.HasPrefix(cleaned, prefix+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
