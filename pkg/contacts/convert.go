package contacts

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Record is one normalized contact row extracted from a raw carrier
// contacts export.
type Record struct {
	FirstName   string
	LastName    string
	Numbers     []string
	Types       []string
	Preferences []string
	Source      string
	Created     string
}

var (
	controlChars  = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f]`)
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

// quickClean strips control characters and trailing commas that the
// carrier export leaves behind in its almost-JSON contact dumps.
func quickClean(txt string) string {
	txt = controlChars.ReplaceAllString(txt, "")
	txt = trailingComma.ReplaceAllString(txt, "$1")
	return strings.TrimSpace(txt)
}

// coerceToJSON closes the wrappers of truncated exports so they parse.
func coerceToJSON(txt string) string {
	s := strings.TrimSpace(txt)
	if strings.HasPrefix(s, `{"contacts"`) && !strings.HasSuffix(s, "}") {
		s = strings.TrimRight(s, " \t\r\n") + "}}"
	}
	if strings.HasPrefix(s, "[") && !strings.HasSuffix(s, "]") {
		s = strings.TrimRight(strings.TrimRight(s, " \t\r\n"), ",") + "]"
	}
	return s
}

// Parse extracts contact records from a raw contacts export. The payload
// is either {"contacts":{"contact":[...]}}, {"contact":[...]} or a bare
// array of contact objects.
func Parse(raw []byte) ([]Record, error) {
	txt := coerceToJSON(quickClean(string(raw)))

	var data any
	if err := json.Unmarshal([]byte(txt), &data); err != nil {
		return nil, fmt.Errorf("contacts source malformed: %w", err)
	}

	var list []any
	switch v := data.(type) {
	case []any:
		list = v
	case map[string]any:
		inner := v
		if c, ok := v["contacts"].(map[string]any); ok {
			inner = c
		}
		if c, ok := inner["contact"].([]any); ok {
			list = c
		}
	}
	if list == nil {
		return nil, fmt.Errorf("contacts source malformed: no contact list found")
	}

	var records []Record
	for _, item := range list {
		c, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rec := Record{
			FirstName: str(c["firstname"]),
			LastName:  str(c["lastname"]),
			Source:    str(c["source"]),
			Created:   str(c["created"]),
		}
		for _, tel := range telEntries(c["tel"]) {
			if n := str(tel["number"]); n != "" {
				rec.Numbers = append(rec.Numbers, n)
			}
			if t := str(tel["type"]); t != "" {
				rec.Types = append(rec.Types, t)
			}
			if p := str(tel["preference"]); p != "" {
				rec.Preferences = append(rec.Preferences, p)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseFile reads and parses a contacts export from disk.
func ParseFile(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// telEntries tolerates the tel field being a single object or a list.
func telEntries(v any) []map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return []map[string]any{t}
	case []any:
		var out []map[string]any
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		// JSON numbers; phone preferences and timestamps arrive this way.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

var workbookHeaders = []string{
	"firstname", "lastname", "phone_numbers", "phone_types",
	"phone_preferences", "source", "created",
}

// WriteWorkbook writes contact records to an xlsx workbook in the shape
// LoadWorkbook (and the transcript renderer) consumes.
func WriteWorkbook(records []Record, path string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Contacts"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	header := make([]any, len(workbookHeaders))
	for i, h := range workbookHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			rec.FirstName,
			rec.LastName,
			strings.Join(rec.Numbers, NumberSep+" "),
			strings.Join(rec.Types, NumberSep+" "),
			strings.Join(rec.Preferences, NumberSep+" "),
			rec.Source,
			rec.Created,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
