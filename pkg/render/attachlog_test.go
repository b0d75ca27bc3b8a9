package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAttachmentLogJoinsFilesAgainstMessages(t *testing.T) {
	dir := t.TempDir()
	messages := filepath.Join(dir, "messages")
	outDir := filepath.Join(dir, "log")
	writePNG(t, filepath.Join(messages, "attachments", "mms", "in", "2024-01-01", "sample.png"))
	// Physical file no message references.
	writePNG(t, filepath.Join(messages, "attachments", "mms", "out", "2024-01-02", "orphan.png"))

	csv := "Date,Type,Direction,Attachments,Sender,Recipients\n" +
		"2024-01-01T09:00:00Z,mms,in,sample.png,5551234567,5559876543\n"
	if err := os.WriteFile(filepath.Join(messages, "20240101.csv"), []byte(csv), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	rep, err := AttachmentLog(Options{MessagesRoot: messages, OutDir: outDir})
	if err != nil {
		t.Fatalf("AttachmentLog: %v", err)
	}
	if rep.Attachments != 2 {
		t.Fatalf("expected 2 rows, got %d", rep.Attachments)
	}
	if rep.Thumbnails != 2 {
		t.Fatalf("expected 2 thumbnails, got %d", rep.Thumbnails)
	}

	raw, err := os.ReadFile(filepath.Join(outDir, AttachmentLogFileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	html := string(raw)

	for _, want := range []string{
		`>sample.png</a>`,
		`>orphan.png</a>`,
		`<td>5551234567</td>`,
		`<td>5559876543</td>`,
		`<td>2024-01-01T09:00:00Z</td>`,
		`thumbnails/mms/in/2024-01-01/sample.png`,
		`thumbnails/mms/out/2024-01-02/orphan.png`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("log missing %q\n%s", want, html)
		}
	}

	// The orphan row carries empty metadata cells, not invented values.
	if strings.Count(html, "<td></td>") < 3 {
		t.Fatalf("orphan row metadata should stay empty:\n%s", html)
	}
}
