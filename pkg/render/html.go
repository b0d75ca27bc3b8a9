// Package render turns an assembled thread and resolved attachments into
// reviewer-facing HTML artifacts: the conversation transcript and the flat
// attachment log. Links are relative to the output document and thumbnails
// live in a tree mirroring the attachment convention, so identical
// filenames from different type/direction/day contexts never collide.
package render

import (
	"fmt"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"synparse/pkg/attach"
	"synparse/pkg/contacts"
	"synparse/pkg/logger"
	"synparse/pkg/models"
	"synparse/pkg/thread"
)

// TranscriptFileName is the document written under the output directory.
const TranscriptFileName = "transcript.html"

// Options configures a render pass. Everything is explicit; render reads
// no ambient state.
type Options struct {
	MessagesRoot string
	OutDir       string
	ThumbSize    int
	Workers      int
	RunID        string
}

// Report accounts for everything a render pass could not fully resolve.
// Gaps are reported, never silently dropped, so reviewers can see them.
type Report struct {
	Messages    int
	Attachments int
	Thumbnails  int
	// Unresolved are attachment references with no computable path
	// (unknown day or unsafe filename).
	Unresolved []string
	// Missing are resolved paths with no file on disk; they are rendered
	// as broken links.
	Missing []string
}

type attachmentView struct {
	Name    string
	Href    string
	Thumb   string
	Missing bool
	Err     string
}

type messageView struct {
	Role        string
	Timestamp   string
	Sender      string
	Body        string
	Attachments []attachmentView
}

type transcriptView struct {
	Target       string
	Participants string
	Messages     []messageView
	Generated    string
	RunID        string
}

var transcriptTmpl = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Message Transcript</title>
<style>
body { font-family: sans-serif; margin: 2em; }
.participants { color: #555; margin-bottom: 1.5em; }
.message { border: 1px solid #ddd; border-radius: 6px; padding: 0.6em 1em; margin: 0.6em 0; max-width: 46em; }
.message.self { background: #eef6ff; margin-left: 4em; }
.message.other { background: #f7f7f7; margin-right: 4em; }
.timestamp { color: #888; font-size: 0.8em; }
.sender { font-weight: bold; }
.body { white-space: pre-wrap; }
.attachment img { max-width: 150px; max-height: 150px; display: block; margin-top: 0.3em; }
.attachment.missing a, .broken { color: #a00; }
</style>
</head>
<body>
<h1>Messages with {{.Target}}</h1>
<div class="participants">Participants: {{.Participants}}</div>
{{range .Messages}}<div class="message {{.Role}}">
<div class="timestamp">{{.Timestamp}}</div>
<div class="sender">{{.Sender}}</div>
{{if .Body}}<div class="body">{{.Body}}</div>
{{end}}{{range .Attachments}}<div class="attachment{{if .Missing}} missing{{end}}">
{{if .Href}}<a href="{{.Href}}">{{.Name}}</a>{{if .Missing}} (missing){{end}}{{else}}<span class="broken">{{.Name}} (unresolved: {{.Err}})</span>{{end}}
{{if .Thumb}}<img src="{{.Thumb}}" alt="{{.Name}}">
{{end}}</div>
{{end}}</div>
{{end}}<div class="footer">Generated {{.Generated}} &middot; run {{.RunID}}</div>
</body>
</html>
`))

// Transcript renders the thread to OutDir/transcript.html plus its
// thumbnail tree and reports every gap encountered.
func Transcript(t models.Thread, lookup *contacts.Lookup, opts Options) (Report, error) {
	var rep Report
	outDir, err := filepath.Abs(opts.OutDir)
	if err != nil {
		return rep, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return rep, fmt.Errorf("create output dir: %w", err)
	}
	root := attach.Root(opts.MessagesRoot)

	// First pass: resolve every reference and gather thumbnail work.
	type slot struct {
		view     attachmentView
		thumbAbs string
	}
	slots := make([][]slot, len(t.Messages))
	var jobs []thumbJob
	queued := map[string]bool{}
	for i, m := range t.Messages {
		for _, name := range m.Attachments {
			s := slot{view: attachmentView{Name: name}}
			p, err := attach.Resolve(root, m.Type, m.Direction, m.AttachmentDay, name)
			if err != nil {
				s.view.Missing = true
				s.view.Err = err.Error()
				rep.Unresolved = append(rep.Unresolved, fmt.Sprintf("%s/%s/%s/%s: %v", m.Type, m.Direction, m.AttachmentDay, name, err))
				slots[i] = append(slots[i], s)
				continue
			}
			abs, err := filepath.Abs(p)
			if err != nil {
				s.view.Missing = true
				s.view.Err = err.Error()
				slots[i] = append(slots[i], s)
				continue
			}
			rel, err := filepath.Rel(outDir, abs)
			if err != nil {
				rel = abs
			}
			s.view.Href = filepath.ToSlash(rel)
			if _, err := os.Stat(abs); err != nil {
				s.view.Missing = true
				rep.Missing = append(rep.Missing, s.view.Href)
				slots[i] = append(slots[i], s)
				continue
			}
			thumbRel := path.Join(ThumbDirName, m.Type, m.Direction, m.AttachmentDay, ThumbName(name))
			s.thumbAbs = filepath.Join(outDir, filepath.FromSlash(thumbRel))
			if !queued[s.thumbAbs] {
				queued[s.thumbAbs] = true
				jobs = append(jobs, thumbJob{src: abs, dest: s.thumbAbs})
			}
			slots[i] = append(slots[i], s)
		}
	}

	done := generateThumbs(jobs, opts.ThumbSize, opts.Workers)

	// Second pass: attach thumbnail references for the images that decoded.
	view := transcriptView{
		Target:    lookup.DisplayName(t.Target),
		Generated: time.Now().UTC().Format(time.RFC3339),
		RunID:     opts.RunID,
	}
	names := make([]string, 0, len(t.Participants))
	for _, p := range t.Participants {
		names = append(names, lookup.DisplayName(p))
	}
	view.Participants = strings.Join(names, ", ")

	for i, m := range t.Messages {
		mv := messageView{
			Role:      thread.Role(m, t.Target),
			Timestamp: timestampLabel(m),
			Sender:    lookup.DisplayName(m.Sender),
			Body:      m.Body,
		}
		for _, s := range slots[i] {
			rep.Attachments++
			if s.thumbAbs != "" && done[s.thumbAbs] {
				rel, err := filepath.Rel(outDir, s.thumbAbs)
				if err == nil {
					s.view.Thumb = filepath.ToSlash(rel)
					rep.Thumbnails++
				}
			}
			mv.Attachments = append(mv.Attachments, s.view)
		}
		view.Messages = append(view.Messages, mv)
	}
	rep.Messages = len(view.Messages)

	out, err := os.Create(filepath.Join(outDir, TranscriptFileName))
	if err != nil {
		return rep, err
	}
	defer out.Close()
	if err := transcriptTmpl.Execute(out, view); err != nil {
		return rep, fmt.Errorf("render transcript: %w", err)
	}

	logger.Info("transcript_rendered",
		zap.String("out", filepath.Join(outDir, TranscriptFileName)),
		zap.Int("messages", rep.Messages),
		zap.Int("attachments", rep.Attachments),
		zap.Int("thumbnails", rep.Thumbnails),
		zap.Int("unresolved", len(rep.Unresolved)),
		zap.Int("missing", len(rep.Missing)),
	)
	return rep, nil
}

func timestampLabel(m models.Message) string {
	if m.Date != nil {
		return m.Date.Format("2006-01-02 15:04:05 MST")
	}
	if m.DateRaw != "" {
		return m.DateRaw
	}
	return "unknown time"
}
