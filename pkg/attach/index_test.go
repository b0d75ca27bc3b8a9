package attach

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestBuildIndexMapsPathsToOwningMessage(t *testing.T) {
	messages := filepath.Join(t.TempDir(), "messages")
	writeFile(t, filepath.Join(messages, "20240101.csv"),
		"Date,Type,Direction,Attachments,Body,Sender,Recipients,\"Message ID\"\n"+
			"2024-01-01T00:00:00Z,mms,in,sample.png,Hi,Alice,Bob,id1\n")
	writeFile(t, filepath.Join(messages, "20240102.csv"),
		"Date,Type,Direction,Attachments,Body,Sender,Recipients,\"Message ID\"\n"+
			"2024-01-02T00:00:00Z,sms,out,sample.png,Bye,Bob,Alice,id2\n")

	index, skipped, err := BuildIndex(messages)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped refs: %v", skipped)
	}
	// Same filename in two contexts yields two distinct index entries.
	if len(index) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(index))
	}

	p1, _ := Resolve(Root(messages), "mms", "in", "2024-01-01", "sample.png")
	abs1, _ := filepath.Abs(p1)
	meta, ok := index[abs1]
	if !ok {
		t.Fatalf("missing index entry for %s", abs1)
	}
	if meta.Sender != "Alice" || meta.Recipient != "Bob" {
		t.Fatalf("wrong metadata: %+v", meta)
	}

	p2, _ := Resolve(Root(messages), "sms", "out", "2024-01-02", "sample.png")
	abs2, _ := filepath.Abs(p2)
	if meta := index[abs2]; meta.Sender != "Bob" {
		t.Fatalf("second context misattributed: %+v", meta)
	}
}

func TestBuildIndexReportsUnresolvable(t *testing.T) {
	messages := filepath.Join(t.TempDir(), "messages")
	// File name carries no day, so the attachment cannot be resolved.
	writeFile(t, filepath.Join(messages, "undated.csv"),
		"Date,Type,Direction,Attachments,Sender,Recipients\n"+
			"2024-01-01T00:00:00Z,mms,in,pic.png,Alice,Bob\n")

	index, skipped, err := BuildIndex(messages)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if len(index) != 0 {
		t.Fatalf("no entry should be guessed, got %v", index)
	}
	if len(skipped) != 1 {
		t.Fatalf("expected 1 unresolved ref, got %v", skipped)
	}
	if skipped[0].Ref.Name != "pic.png" {
		t.Fatalf("wrong ref reported: %+v", skipped[0])
	}
}
