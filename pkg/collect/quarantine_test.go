package collect

import (
	"archive/zip"
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func writeZip(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
}

func TestQuarantineRecoversAndFixesExtensions(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "VZMOBILE")
	compiled := filepath.Join(dir, "Compiled Quarantine Files")

	writeZip(t, filepath.Join(root, "deep", "backup.zip_file_1"), map[string][]byte{
		// PNG content behind a wrong extension gets renamed.
		"photo.dat": pngBytes(t),
		// Entry paths are flattened to their base name.
		"nested/inner/note.txt": []byte("plain text payload\n"),
	})
	// A plain zip without the marker is not quarantined material.
	writeZip(t, filepath.Join(root, "regular.zip"), map[string][]byte{
		"ignored.txt": []byte("no"),
	})

	copied, problems, err := Quarantine(root, compiled)
	if err != nil {
		t.Fatalf("Quarantine: %v", err)
	}
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	if len(copied) != 2 {
		t.Fatalf("expected 2 recovered files, got %v", copied)
	}

	if _, err := os.Stat(filepath.Join(compiled, "photo.png")); err != nil {
		t.Fatalf("extension not fixed from content: %v", err)
	}
	if _, err := os.Stat(filepath.Join(compiled, "note.txt")); err != nil {
		t.Fatalf("flattened entry missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(compiled, "ignored.txt")); err == nil {
		t.Fatal("unmarked archive was extracted")
	}
}

func TestQuarantineReportsCorruptArchives(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "VZMOBILE")
	compiled := filepath.Join(dir, "out")

	writeFile(t, filepath.Join(root, "broken.zip_file_2"), "this is not a zip")
	writeZip(t, filepath.Join(root, "ok.zip_file_3"), map[string][]byte{
		"fine.txt": []byte("recoverable\n"),
	})

	copied, problems, err := Quarantine(root, compiled)
	if err != nil {
		t.Fatalf("Quarantine: %v", err)
	}
	if len(problems) != 1 {
		t.Fatalf("expected 1 problem, got %v", problems)
	}
	if len(copied) != 1 || filepath.Base(copied[0]) != "fine.txt" {
		t.Fatalf("copied = %v", copied)
	}
}
