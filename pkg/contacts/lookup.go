package contacts

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"synparse/pkg/logger"
	"synparse/pkg/models"
)

// NumberSep joins multiple phone numbers inside one spreadsheet cell.
const NumberSep = ";"

// Lookup maps normalized phone numbers to display names. It is built once
// per run and read-only thereafter. Duplicate keys are resolved first-wins:
// the earliest row in the source keeps the name.
type Lookup struct {
	names map[string]string
}

func NewLookup() *Lookup {
	return &Lookup{names: map[string]string{}}
}

// Add registers a number under a display name. Empty keys and duplicates
// of already-registered keys are ignored.
func (l *Lookup) Add(number, name string) {
	key := Normalize(number)
	if key == "" || strings.TrimSpace(name) == "" {
		return
	}
	if _, ok := l.names[key]; ok {
		return
	}
	l.names[key] = strings.TrimSpace(name)
}

// DisplayName resolves a raw number to a display name, falling back to the
// normalized number itself so labels are never empty.
func (l *Lookup) DisplayName(raw string) string {
	key := Normalize(raw)
	if l != nil {
		if name, ok := l.names[key]; ok {
			return name
		}
	}
	if key == "" {
		return strings.TrimSpace(raw)
	}
	return key
}

// Len reports the number of distinct entries.
func (l *Lookup) Len() int { return len(l.names) }

// Entries returns the table ordered by number, for reporting.
func (l *Lookup) Entries() []models.ContactEntry {
	out := make([]models.ContactEntry, 0, len(l.names))
	for n, name := range l.names {
		out = append(out, models.ContactEntry{Number: n, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// LoadWorkbook builds a Lookup from a contacts spreadsheet with at least
// firstname, lastname and phone_numbers columns (numbers ;-separated).
// Other columns are ignored.
func LoadWorkbook(path string) (*Lookup, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open contacts workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read contacts sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return NewLookup(), nil
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	lookup := NewLookup()
	for _, row := range rows[1:] {
		name := strings.TrimSpace(strings.TrimSpace(cell(row, "firstname")) + " " + cell(row, "lastname"))
		if name == "" {
			continue
		}
		for _, num := range strings.Split(cell(row, "phone_numbers"), NumberSep) {
			lookup.Add(num, name)
		}
	}
	logger.Info("contacts_loaded", zap.String("path", path), zap.Int("entries", lookup.Len()))
	return lookup, nil
}

// LoadFile builds a Lookup from either a contacts workbook (.xlsx) or a raw
// carrier contacts export (anything else, parsed like `contacts convert`).
func LoadFile(path string) (*Lookup, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadWorkbook(path)
	}
	records, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	lookup := NewLookup()
	for _, rec := range records {
		name := strings.TrimSpace(rec.FirstName + " " + rec.LastName)
		if name == "" {
			continue
		}
		for _, num := range rec.Numbers {
			lookup.Add(num, name)
		}
	}
	return lookup, nil
}
