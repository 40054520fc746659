package graph

import "strings"

// resolvedPerson is the merge identity produced for an action item assignee
type resolvedPerson struct {
	Name  string
	Email string // empty when no canonical attendee matched
}

// resolveAssignee maps a free-text assignee mention to a canonical Person
// identity using the invite attendee list when one was supplied.
//
// Matching is intentionally permissive: the first attendee whose name
// case-insensitively equals, contains, or is contained by the assignee
// string wins. "Ann" will match "Anna Smith" if she appears before
// "Ann Lee"; first-match-wins is the tie-break, not a correctness
// guarantee. Changing this precision changes graph shape, so it is
// preserved as documented behavior.
//
// Returns ok=false for empty or "unassigned" mentions: only accountable
// owners of work materialize as Person nodes.
func resolveAssignee(assignee string, attendees []Attendee) (resolvedPerson, bool) {
	if assignee == "" || assignee == UnassignedSentinel {
		return resolvedPerson{}, false
	}

	assigneeLower := strings.ToLower(assignee)
	for _, att := range attendees {
		name := strings.TrimSpace(att.Name)
		if name == "" {
			continue
		}
		email := strings.TrimSpace(att.Email)

		nameLower := strings.ToLower(name)
		if assigneeLower == nameLower ||
			strings.Contains(nameLower, assigneeLower) ||
			strings.Contains(assigneeLower, nameLower) {
			return resolvedPerson{Name: name, Email: email}, true
		}
	}

	// No canonical context or no match: the mention itself is the identity
	return resolvedPerson{Name: assignee}, true
}
