package publish

import (
	"regexp"
	"strings"

	"github.com/RamXX/backplan/internal/model"
)

const unassigned = "unassigned"

var ownerLineRe = regexp.MustCompile(`(?m)^Owner:[ \t]*([^\r\n]*)`)

// ParseAssignees reads the first line of a draft body that starts with
// "Owner: a, @b".
// Empty entries and the "unassigned" sentinel are dropped, a leading @ is
// stripped. No line means no assignees.
func ParseAssignees(body string) []string {
	m := ownerLineRe.FindStringSubmatch(body)
	if m == nil {
		return nil
	}
	var out []string
	for _, part := range strings.Split(m[1], ",") {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "@"))
		if name == "" || name == unassigned {
			continue
		}
		out = model.AppendUnique(out, name)
	}
	return out
}
