// Package thread merges per-day message records into one chronological
// conversation framed around a target number.
package thread

import (
	"sort"
	"strings"

	"synparse/pkg/contacts"
	"synparse/pkg/models"
)

// Roles a message can take relative to the target number.
const (
	RoleSelf  = "self"
	RoleOther = "other"
)

// Assemble orders messages by parsed timestamp ascending; records with
// unparseable timestamps sort after all parseable ones in their original
// relative order. Participants are the distinct normalized numbers seen as
// sender or recipient, in first-seen order, with the target's own number
// excluded.
func Assemble(msgs []models.Message, targetRaw string) models.Thread {
	target := contacts.Normalize(targetRaw)

	ordered := make([]models.Message, len(msgs))
	copy(ordered, msgs)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].Date, ordered[j].Date
		switch {
		case a != nil && b != nil:
			return a.Before(*b)
		case a != nil:
			return true
		default:
			return false
		}
	})

	seen := map[string]bool{}
	var participants []string
	for _, m := range ordered {
		for _, raw := range append([]string{m.Sender}, SplitRecipients(m.Recipients)...) {
			n := contacts.Normalize(raw)
			if n == "" || n == target || seen[n] {
				continue
			}
			seen[n] = true
			participants = append(participants, n)
		}
	}

	return models.Thread{Messages: ordered, Participants: participants, Target: target}
}

// Role reports whether a message was sent by the target (self) or by the
// other party, by comparing normalized sender against the target key.
func Role(m models.Message, target string) string {
	if contacts.Normalize(m.Sender) == target {
		return RoleSelf
	}
	return RoleOther
}

// SplitRecipients splits a delimiter-joined recipients field. Exports in
// the field use ";", "," or "|" depending on vintage.
func SplitRecipients(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ',' || r == '|'
	}) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
