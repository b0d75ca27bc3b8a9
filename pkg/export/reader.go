// Package export reads the per-day message CSV files of a carrier backup
// export into typed records. One CSV file represents one calendar day; the
// day encoded in the file name, not the message timestamps, governs where
// that day's attachments live on disk.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"synparse/pkg/logger"
	"synparse/pkg/models"
)

// AttachmentSep joins multiple attachment filenames inside one CSV field.
const AttachmentSep = "|"

// RowIssue reports a malformed record. Rows with issues are still parsed
// best-effort and included; nothing is dropped silently.
type RowIssue struct {
	File   string
	Row    int // 1-based data row number, header excluded
	Reason string
}

func (i RowIssue) String() string {
	return fmt.Sprintf("%s row %d: %s", i.File, i.Row, i.Reason)
}

var dayPattern = regexp.MustCompile(`(\d{8})`)

// DayFromFileName derives the attachment day (YYYY-MM-DD) from a CSV file
// name carrying an 8-digit YYYYMMDD date, e.g. 20240101.csv. It returns ""
// when the name holds no valid date; messages from such a file cannot have
// their attachments resolved.
func DayFromFileName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m := dayPattern.FindString(base)
	if m == "" {
		return ""
	}
	t, err := time.Parse("20060102", m)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// SplitAttachments splits a delimiter-joined attachment field, trimming
// whitespace and dropping empty entries. An empty field yields nil.
func SplitAttachments(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, AttachmentSep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinAttachments is the inverse of SplitAttachments.
func JoinAttachments(names []string) string {
	return strings.Join(names, AttachmentSep)
}

// dateLayouts are tried in order when parsing the Date column. The export
// writes RFC 3339; the remaining layouts cover hand-edited files seen in
// the field.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006 3:04:05 PM",
	"2006-01-02",
}

func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// ReadFile parses one day's CSV into Message records, preserving row order.
// Required columns are Date, Type, Direction, Attachments, Body, Sender,
// Recipients and Message ID; a missing column yields empty strings for that
// field rather than a failure, so partial exports still parse. Malformed
// rows are reported through the returned issues and kept best-effort.
func ReadFile(path string) ([]models.Message, []RowIssue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	day := DayFromFileName(path)
	base := filepath.Base(path)

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header of %s: %w", base, err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var msgs []models.Message
	var issues []RowIssue
	row := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			issues = append(issues, RowIssue{File: base, Row: row, Reason: fmt.Sprintf("csv: %v", err)})
			continue
		}

		raw := strings.TrimSpace(field(rec, "Date"))
		msg := models.Message{
			DateRaw:       raw,
			Date:          parseDate(raw),
			Type:          strings.ToLower(strings.TrimSpace(field(rec, "Type"))),
			Direction:     strings.ToLower(strings.TrimSpace(field(rec, "Direction"))),
			Attachments:   SplitAttachments(field(rec, "Attachments")),
			Body:          field(rec, "Body"),
			Sender:        strings.TrimSpace(field(rec, "Sender")),
			Recipients:    strings.TrimSpace(field(rec, "Recipients")),
			MessageID:     strings.TrimSpace(field(rec, "Message ID")),
			AttachmentDay: day,
		}
		if msg.Date == nil && raw != "" {
			issues = append(issues, RowIssue{File: base, Row: row, Reason: fmt.Sprintf("unparseable date %q", raw)})
		}
		if len(msg.Attachments) > 0 && day == "" {
			issues = append(issues, RowIssue{File: base, Row: row, Reason: "attachments present but file name has no YYYYMMDD day"})
		}
		msgs = append(msgs, msg)
	}
	return msgs, issues, nil
}

// ReadDir parses every *.csv under dir. Files are parsed concurrently into
// independent per-file slices and concatenated in file-name order; the
// caller's assembler imposes the final chronological order.
func ReadDir(dir string) ([]models.Message, []RowIssue, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(paths)

	type fileResult struct {
		msgs   []models.Message
		issues []RowIssue
		err    error
	}
	results := make([]fileResult, len(paths))
	var wg sync.WaitGroup
	for i, p := range paths {
		wg.Add(1)
		go func(i int, p string) {
			defer wg.Done()
			msgs, issues, err := ReadFile(p)
			results[i] = fileResult{msgs: msgs, issues: issues, err: err}
		}(i, p)
	}
	wg.Wait()

	var msgs []models.Message
	var issues []RowIssue
	for i, res := range results {
		if res.err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", paths[i], res.err)
		}
		msgs = append(msgs, res.msgs...)
		issues = append(issues, res.issues...)
	}
	logger.Info("csv_parsed",
		zap.String("dir", dir),
		zap.Int("files", len(paths)),
		zap.Int("messages", len(msgs)),
		zap.Int("issues", len(issues)),
	)
	return msgs, issues, nil
}
