package models

import "time"

// Message is one communication event reconstructed from a day's CSV export.
type Message struct {
	DateRaw string `json:"date_raw"`
	// Date is the parsed timestamp; nil when DateRaw could not be parsed.
	// DateRaw is always retained for display.
	Date        *time.Time `json:"date,omitempty"`
	Type        string     `json:"type"`      // "sms" or "mms"
	Direction   string     `json:"direction"` // "in" or "out"
	Attachments []string   `json:"attachments,omitempty"`
	Body        string     `json:"body,omitempty"`
	Sender      string     `json:"sender"`
	Recipients  string     `json:"recipients"`
	// MessageID is opaque and kept for traceability only; it is not unique
	// across days.
	MessageID string `json:"message_id"`
	// AttachmentDay is the calendar day (YYYY-MM-DD) represented by the
	// source CSV file. It is derived from the file name, not the message
	// timestamp, and is authoritative for attachment path resolution.
	// Empty when the file name carried no usable date.
	AttachmentDay string `json:"attachment_day,omitempty"`
}

// Ref returns the identity tuple for one of the message's attachments.
func (m Message) Ref(name string) AttachmentRef {
	return AttachmentRef{Type: m.Type, Direction: m.Direction, Day: m.AttachmentDay, Name: name}
}

// AttachmentRef designates a single physical attachment. The full 4-tuple,
// not the filename alone, is the identity: two refs with equal Name but
// differing Type/Direction/Day are distinct files and must never be merged.
type AttachmentRef struct {
	Type      string `json:"type"`
	Direction string `json:"direction"`
	Day       string `json:"day"`
	Name      string `json:"name"`
}
