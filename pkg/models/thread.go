package models

// Thread is the full chronological reconstruction of one conversation
// across all source days. It is built fresh per invocation and owns its
// message sequence; nothing mutates it after assembly.
type Thread struct {
	Messages []Message `json:"messages"`
	// Participants holds normalized numbers in first-seen order, with the
	// target's own number excluded.
	Participants []string `json:"participants"`
	// Target is the normalized target number framing self/other roles.
	Target string `json:"target"`
}

// ContactEntry maps a normalized phone number to a display name. The
// contact table is built once per run and read-only thereafter.
type ContactEntry struct {
	Number string `json:"number"`
	Name   string `json:"name"`
}
