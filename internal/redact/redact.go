// Package redact scrubs credentials, queries and file paths from error text
// before it reaches logs or clients.
package redact

import "regexp"

// Placeholder replaces generic secrets.
const Placeholder = "[REDACTED]"

type rule struct {
	name        string
	pattern     *regexp.Regexp
	replacement string
}

// rules run in order; earlier rules may shape what later ones see.
var rules = []rule{
	{
		name:        "dsn_credentials",
		pattern:     regexp.MustCompile(`(?i)\b(postgres(?:ql)?|pgx)://[^\s@/]+@`),
		replacement: "${1}://" + Placeholder + "@",
	},
	{
		name:        "jwt",
		pattern:     regexp.MustCompile(`eyJ[\w-]+\.eyJ[\w-]+\.[\w-]+`),
		replacement: "[REDACTED_JWT]",
	},
	{
		name:        "bearer",
		pattern:     regexp.MustCompile(`(?i)\bbearer\s+[\w\-.~+/]+=*`),
		replacement: "Bearer " + Placeholder,
	},
	{
		name:        "assignment",
		pattern:     regexp.MustCompile(`(?i)(password|passwd|pwd|secret|token|api[_-]?key)(\s*[=:]\s*)['"]?[^\s'"&,]+`),
		replacement: "${1}${2}" + Placeholder,
	},
	{
		name:        "sql",
		pattern:     regexp.MustCompile(`(?i)\b(?:SELECT|INSERT\s+INTO|UPDATE|DELETE\s+FROM)\b[^;\n]*`),
		replacement: "[REDACTED_SQL]",
	},
	{
		name:        "path",
		pattern:     regexp.MustCompile(`(?:/[\w.-]+){2,}`),
		replacement: "[REDACTED_PATH]",
	},
}

// String returns s with every sensitive fragment replaced.
func String(s string) string {
	for _, r := range rules {
		s = r.pattern.ReplaceAllString(s, r.replacement)
	}
	return s
}

// Error returns the redacted text of err, or "" for nil.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
