package idgen

import (
	"fmt"
	"strings"
)

// Slug lower-cases title and collapses every run of non-alphanumeric
// characters into a single hyphen. Leading and trailing hyphens are trimmed.
// An empty result falls back to "issue".
func Slug(title string) string {
	var sb strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingDash = false
			sb.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	if sb.Len() == 0 {
		return "issue"
	}
	return sb.String()
}

// DraftFileName returns the draft file name for the item at the 0-based index:
// NN-<id>-<slug>.md with NN the 1-based position padded to two digits.
func DraftFileName(index int, id, title string) string {
	return fmt.Sprintf("%02d-%s-%s.md", index+1, id, Slug(title))
}

// MatchesDraft reports whether the draft file name belongs to id, i.e. the
// base name has the form <digits>-<id>-<anything>.
func MatchesDraft(name, id string) bool {
	base := strings.TrimSuffix(name, ".md")
	digits := 0
	for digits < len(base) && base[digits] >= '0' && base[digits] <= '9' {
		digits++
	}
	if digits == 0 || digits >= len(base) || base[digits] != '-' {
		return false
	}
	return strings.HasPrefix(base[digits+1:], id+"-")
}
