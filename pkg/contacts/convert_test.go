package contacts

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

const rawExport = `{"contacts":{"contact":[
  {"firstname":"Alice","lastname":"Smith","tel":[{"number":"(555) 123-4567","type":"mobile","preference":1}],"source":"device","created":"2023-05-01"},
  {"firstname":"Bob","lastname":"Jones","tel":{"number":"+1 555 987 6543","type":"home"}}
]}}`

func TestParseWrappedExport(t *testing.T) {
	records, err := Parse([]byte(rawExport))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	alice := records[0]
	if alice.FirstName != "Alice" || alice.LastName != "Smith" {
		t.Fatalf("wrong name: %+v", alice)
	}
	if len(alice.Numbers) != 1 || alice.Numbers[0] != "(555) 123-4567" {
		t.Fatalf("wrong numbers: %v", alice.Numbers)
	}
	if alice.Preferences[0] != "1" {
		t.Fatalf("numeric preference not stringified: %v", alice.Preferences)
	}
	// Single tel object, not a list.
	if len(records[1].Numbers) != 1 {
		t.Fatalf("single tel object dropped: %+v", records[1])
	}
}

func TestParseBareArrayWithTrailingComma(t *testing.T) {
	raw := "[{\"firstname\":\"Carol\",\"tel\":[{\"number\":\"5550001111\"},]},]"
	records, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 1 || records[0].FirstName != "Carol" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestParseTruncatedExportIsClosed(t *testing.T) {
	raw := `{"contacts":{"contact":[{"firstname":"Dave","tel":[{"number":"5552223333"}]}]`
	records, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse truncated export: %v", err)
	}
	if len(records) != 1 || records[0].FirstName != "Dave" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestParseControlCharactersStripped(t *testing.T) {
	raw := "[{\"firstname\":\"E\x01ve\",\"tel\":[{\"number\":\"5554445555\"}]}]"
	records, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if records[0].FirstName != "Eve" {
		t.Fatalf("control character survived: %q", records[0].FirstName)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not json at all")); err == nil {
		t.Fatal("expected error for non-JSON input")
	}
	if _, err := Parse([]byte(`{"other":1}`)); err == nil {
		t.Fatal("expected error when no contact list found")
	}
}

func TestWorkbookRoundTrip(t *testing.T) {
	records := []Record{
		{FirstName: "Alice", LastName: "Smith", Numbers: []string{"(555) 123-4567", "555-000-1111"}},
		{FirstName: "Bob", LastName: "Jones", Numbers: []string{"+1 555 987 6543"}},
	}
	path := filepath.Join(t.TempDir(), "contacts.xlsx")
	if err := WriteWorkbook(records, path); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	lookup, err := LoadWorkbook(path)
	if err != nil {
		t.Fatalf("LoadWorkbook: %v", err)
	}
	if lookup.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", lookup.Len())
	}
	if got := lookup.DisplayName("15551234567"); got != "Alice Smith" {
		t.Fatalf("DisplayName = %q", got)
	}
	if got := lookup.DisplayName("5559876543"); got != "Bob Jones" {
		t.Fatalf("DisplayName = %q", got)
	}
}

func TestLoadFileDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	rawPath := filepath.Join(dir, "contacts.json")
	writeTestFile(t, rawPath, rawExport)

	lookup, err := LoadFile(rawPath)
	if err != nil {
		t.Fatalf("LoadFile raw export: %v", err)
	}
	if got := lookup.DisplayName("(555) 123-4567"); got != "Alice Smith" {
		t.Fatalf("DisplayName = %q", got)
	}
}
