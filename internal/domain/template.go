package domain

import (
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// RenderTemplate substitutes every {name} placeholder in tmpl with the
// matching value from ctx. Placeholder lookup is case-insensitive and a
// placeholder with no context entry renders as the empty string.
func RenderTemplate(tmpl string, ctx map[string]string) string {
	if !strings.ContainsRune(tmpl, '{') {
		return tmpl
	}

	lowered := make(map[string]string, len(ctx))
	for k, v := range ctx {
		lowered[strings.ToLower(k)] = v
	}

	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := strings.ToLower(m[1 : len(m)-1])
		return lowered[key]
	})
}
