package render

import (
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"synparse/pkg/attach"
	"synparse/pkg/logger"
)

// AttachmentLogFileName is the flat log document written under the output
// directory by the attachlog command.
const AttachmentLogFileName = "attachment_log.html"

type logRow struct {
	Href      string
	Name      string
	Date      string
	Sender    string
	Recipient string
	Thumb     string
}

type logView struct {
	Rows      []logRow
	Generated string
	RunID     string
}

var attachmentLogTmpl = template.Must(template.New("attachlog").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Attachment Log</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
img { max-width: 150px; max-height: 150px; }
</style>
</head>
<body>
<h1>Attachment Log</h1>
<table>
<tr><th>File</th><th>Date</th><th>Sender</th><th>Recipient</th><th>Thumbnail</th></tr>
{{range .Rows}}<tr>
<td><a href="{{.Href}}">{{.Name}}</a></td>
<td>{{.Date}}</td>
<td>{{.Sender}}</td>
<td>{{.Recipient}}</td>
<td>{{if .Thumb}}<img src="{{.Thumb}}" alt="{{.Name}}">{{end}}</td>
</tr>
{{end}}</table>
<div class="footer">Generated {{.Generated}} &middot; run {{.RunID}}</div>
</body>
</html>
`))

// AttachmentLog walks every physical file under the attachments tree,
// joins it against the message metadata index, and writes one HTML table
// to OutDir/attachment_log.html with a mirrored thumbnail tree. Files no
// message references still get a row; gaps are visible, not dropped.
func AttachmentLog(opts Options) (Report, error) {
	var rep Report
	outDir, err := filepath.Abs(opts.OutDir)
	if err != nil {
		return rep, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return rep, fmt.Errorf("create output dir: %w", err)
	}

	index, skipped, err := attach.BuildIndex(opts.MessagesRoot)
	if err != nil {
		return rep, err
	}
	for _, s := range skipped {
		rep.Unresolved = append(rep.Unresolved, fmt.Sprintf("%s/%s/%s/%s: %s", s.Ref.Type, s.Ref.Direction, s.Ref.Day, s.Ref.Name, s.Reason))
	}

	root, err := filepath.Abs(attach.Root(opts.MessagesRoot))
	if err != nil {
		return rep, err
	}

	type fileEntry struct {
		abs string
		rel string // forward-slash path relative to the attachments root
	}
	var files []fileEntry
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, fileEntry{abs: p, rel: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return rep, fmt.Errorf("walk attachments: %w", err)
	}

	var jobs []thumbJob
	thumbs := make([]string, len(files)) // absolute thumbnail destination per file
	for i, f := range files {
		thumbRel := path.Join(ThumbDirName, ThumbName(f.rel))
		thumbs[i] = filepath.Join(outDir, filepath.FromSlash(thumbRel))
		jobs = append(jobs, thumbJob{src: f.abs, dest: thumbs[i]})
	}
	done := generateThumbs(jobs, opts.ThumbSize, opts.Workers)

	view := logView{Generated: time.Now().UTC().Format(time.RFC3339), RunID: opts.RunID}
	for i, f := range files {
		href, err := filepath.Rel(outDir, f.abs)
		if err != nil {
			href = f.abs
		}
		row := logRow{Href: filepath.ToSlash(href), Name: path.Base(f.rel)}
		if meta, ok := index[f.abs]; ok {
			row.Date = meta.Date
			row.Sender = meta.Sender
			row.Recipient = meta.Recipient
		}
		if done[thumbs[i]] {
			rel, err := filepath.Rel(outDir, thumbs[i])
			if err == nil {
				row.Thumb = filepath.ToSlash(rel)
				rep.Thumbnails++
			}
		}
		view.Rows = append(view.Rows, row)
		rep.Attachments++
	}

	out, err := os.Create(filepath.Join(outDir, AttachmentLogFileName))
	if err != nil {
		return rep, err
	}
	defer out.Close()
	if err := attachmentLogTmpl.Execute(out, view); err != nil {
		return rep, fmt.Errorf("render attachment log: %w", err)
	}

	logger.Info("attachment_log_rendered",
		zap.String("out", filepath.Join(outDir, AttachmentLogFileName)),
		zap.Int("files", rep.Attachments),
		zap.Int("thumbnails", rep.Thumbnails),
	)
	return rep, nil
}
