package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"synparse/pkg/banner"
	"synparse/pkg/contacts"
	"synparse/pkg/export"
	"synparse/pkg/logger"
	"synparse/pkg/render"
	"synparse/pkg/thread"
)

// targetLen is the digit count the CLI accepts for --target-number: the
// NANP number with country code, as the export records it. Comparison
// always happens on normalized keys, so 1XXXXXXXXXX meets (XXX) XXX-XXXX.
const targetLen = 11

var (
	renderIn       string
	renderOut      string
	renderTarget   string
	renderContacts string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a chronological HTML transcript with attachment links and thumbnails",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := firstNonEmpty(renderIn, cfg.Paths.Messages)
		out := firstNonEmpty(renderOut, cfg.Paths.Output)
		contactsPath := firstNonEmpty(renderContacts, cfg.Paths.Contacts)

		if !allDigits(renderTarget) || len(renderTarget) != targetLen {
			return fmt.Errorf("target phone number must be an %d-digit number, got %q", targetLen, renderTarget)
		}
		if fi, err := os.Stat(in); err != nil || !fi.IsDir() {
			return fmt.Errorf("input folder %q not found", in)
		}

		banner.Print(in, out, contactsPath, renderTarget, version)

		lookup := contacts.NewLookup()
		if contactsPath != "" {
			l, err := contacts.LoadFile(contactsPath)
			if err != nil {
				// Transcripts stay useful with raw numbers; degrade, don't die.
				logger.Warn("contacts_unreadable", zap.String("path", contactsPath), zap.Error(err))
			} else {
				lookup = l
				for _, e := range lookup.Entries() {
					logger.Debug("contact_entry", zap.String("number", e.Number), zap.String("name", e.Name))
				}
			}
		}

		msgs, issues, err := export.ReadDir(in)
		if err != nil {
			return err
		}
		for _, issue := range issues {
			logger.Warn("row_issue", zap.String("issue", issue.String()))
		}

		th := thread.Assemble(msgs, renderTarget)
		rep, err := render.Transcript(th, lookup, render.Options{
			MessagesRoot: in,
			OutDir:       out,
			ThumbSize:    cfg.Render.ThumbSize,
			Workers:      cfg.Render.Workers,
			RunID:        runID,
		})
		if err != nil {
			return err
		}
		for _, u := range rep.Unresolved {
			logger.Warn("attachment_unresolved", zap.String("ref", u))
		}
		for _, m := range rep.Missing {
			logger.Warn("attachment_missing", zap.String("path", m))
		}

		fmt.Printf("Rendered %d messages (%d attachments, %d thumbnails) to %s\n",
			rep.Messages, rep.Attachments, rep.Thumbnails, out)
		if n := len(rep.Unresolved) + len(rep.Missing); n > 0 {
			fmt.Printf("%d attachment reference(s) could not be fully resolved; see log.\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderIn, "in", "", "messages directory (day CSVs + attachments tree)")
	renderCmd.Flags().StringVar(&renderOut, "out", "", "output directory for transcript.html and thumbnails")
	renderCmd.Flags().StringVar(&renderTarget, "target-number", "", "11-digit phone number framing self/other")
	renderCmd.Flags().StringVar(&renderContacts, "contacts", "", "contacts file (.xlsx workbook or raw export)")
	_ = renderCmd.MarkFlagRequired("target-number")
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
