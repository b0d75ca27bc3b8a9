package attach

import (
	"path/filepath"

	"go.uber.org/zap"

	"synparse/pkg/export"
	"synparse/pkg/logger"
	"synparse/pkg/models"
)

// Meta is the message metadata owning one physical attachment.
type Meta struct {
	Date      string               `json:"date"`
	Sender    string               `json:"sender"`
	Recipient string               `json:"recipient"`
	Ref       models.AttachmentRef `json:"ref"`
}

// Index maps a resolved, absolute attachment path to the metadata of the
// message that referenced it. Because the (type, direction, day, filename)
// tuple is already the identity, two different messages never resolve to
// the same path unless they reference the same physical file; no
// deduplication happens here.
type Index map[string]Meta

// Unresolved reports one attachment reference that could not be resolved.
type Unresolved struct {
	Ref    models.AttachmentRef
	Reason string
}

// BuildIndex scans every day CSV under messagesRoot and maps each
// referenced attachment's resolved absolute path to its owning message.
// References that fail to resolve (unknown day, unsafe filename) are
// returned for reporting, never guessed at.
func BuildIndex(messagesRoot string) (Index, []Unresolved, error) {
	msgs, _, err := export.ReadDir(messagesRoot)
	if err != nil {
		return nil, nil, err
	}
	root := Root(messagesRoot)

	index := Index{}
	var skipped []Unresolved
	for _, m := range msgs {
		for _, name := range m.Attachments {
			ref := m.Ref(name)
			p, err := Resolve(root, ref.Type, ref.Direction, ref.Day, ref.Name)
			if err != nil {
				skipped = append(skipped, Unresolved{Ref: ref, Reason: err.Error()})
				continue
			}
			abs, err := filepath.Abs(p)
			if err != nil {
				skipped = append(skipped, Unresolved{Ref: ref, Reason: err.Error()})
				continue
			}
			index[abs] = Meta{Date: m.DateRaw, Sender: m.Sender, Recipient: m.Recipients, Ref: ref}
		}
	}
	if len(skipped) > 0 {
		logger.Warn("attachments_unresolved", zap.Int("count", len(skipped)))
	}
	return index, skipped, nil
}
