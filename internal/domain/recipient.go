package domain

import "strings"

// NormalizeRecipient canonicalizes a raw identifier into the platform's
// digits-only addressing form. "+55 (11) 98765-4321" becomes "5511987654321".
// An empty result means the input carried no digits at all.
func NormalizeRecipient(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
