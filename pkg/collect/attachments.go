// Package collect implements the batch jobs that pull files out of an
// export into flat, reviewer-friendly directories with metadata workbooks:
// message attachments, backup media, and quarantined zip contents.
package collect

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"synparse/pkg/attach"
	"synparse/pkg/logger"
)

// AttachmentHeaders are the fixed workbook columns for attachment
// collection; EXIF tag columns follow them in sorted order.
var AttachmentHeaders = []string{"File Name", "Date", "Sender", "Recipient", "MD5"}

// Attachments copies every file under the export's attachments tree into
// compiledDir (flat, counter-suffixed on name clashes) and returns one
// metadata record per copied file, joined against the message index by
// resolved absolute path, plus the sorted set of EXIF keys encountered.
func Attachments(messagesRoot, compiledDir string) ([]map[string]string, []string, error) {
	if err := os.MkdirAll(compiledDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create compiled dir: %w", err)
	}

	index, _, err := attach.BuildIndex(messagesRoot)
	if err != nil {
		return nil, nil, err
	}
	root, err := filepath.Abs(attach.Root(messagesRoot))
	if err != nil {
		return nil, nil, err
	}

	var records []map[string]string
	exifKeys := map[string]bool{}
	var totalBytes int64

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		dest := UniqueName(compiledDir, d.Name())
		n, err := CopyFile(p, dest)
		if err != nil {
			return fmt.Errorf("copy %s: %w", p, err)
		}
		totalBytes += n

		md5sum, err := MD5Sum(p)
		if err != nil {
			return err
		}

		record := map[string]string{
			"File Name": filepath.Base(dest),
			"MD5":       md5sum,
		}
		if meta, ok := index[p]; ok {
			record["Date"] = meta.Date
			record["Sender"] = meta.Sender
			record["Recipient"] = meta.Recipient
		}
		mergeEXIF(record, exifKeys, p)
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info("attachments_collected",
		zap.String("from", root),
		zap.String("to", compiledDir),
		zap.Int("files", len(records)),
		zap.String("bytes", humanize.Bytes(uint64(totalBytes))),
	)
	return records, sortedKeys(exifKeys), nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteWorkbook writes collection records to an xlsx workbook. Columns are
// the fixed base headers followed by the run's EXIF keys; cells missing
// from a record stay empty.
func WriteWorkbook(path, sheet string, base, exifKeys []string, records []map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	headers := append(append([]string{}, base...), exifKeys...)
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return err
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		vals := make([]any, len(headers))
		for j, h := range headers {
			vals[j] = rec[h]
		}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
