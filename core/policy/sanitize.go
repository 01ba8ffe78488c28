package policy

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/josephlewis42/gatesh/core/shellerr"
)

// suspiciousPatterns match shell constructs that have no meaning to the
// parser but are common in injected input.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\(.*\)`),
	regexp.MustCompile("`.*`"),
	regexp.MustCompile(`\$\{.*\}`),
	regexp.MustCompile(`;.*;`),
	regexp.MustCompile(`&&.*&&`),
	regexp.MustCompile(`\|\|.*\|\|`),
}

// SanitizeInput strips control characters from a raw input line, rejects
// lines containing suspicious shell constructs and truncates the rest to the
// maximum command length. It's a passthrough when input sanitization is
// disabled.
func (e *Engine) SanitizeInput(raw string) (string, error) {
	if !e.security.SanitizeInput {
		return raw, nil
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '\n', r == '\t':
			return r
		case r == 0, unicode.IsControl(r):
			return -1
		}
		return r
	}, raw)

	for _, re := range suspiciousPatterns {
		if loc := re.FindStringIndex(cleaned); loc != nil {
			return "", e.reject(shellerr.Newf(shellerr.KindPolicy, shellerr.DangerousCommand,
				truncate(cleaned[loc[0]:loc[1]], 32), "suspicious pattern"))
		}
	}

	return truncateRunes(cleaned, e.security.MaxCommandLength), nil
}

// truncateRunes cuts s to at most n bytes without splitting a rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
