package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"synparse/pkg/logger"
	"synparse/pkg/render"
)

var (
	attachlogIn  string
	attachlogOut string
)

var attachlogCmd = &cobra.Command{
	Use:   "attachlog",
	Short: "Write an HTML log of every physical attachment with links and thumbnails",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := firstNonEmpty(attachlogIn, cfg.Paths.Messages)
		out := firstNonEmpty(attachlogOut, "Attachment Log")

		if fi, err := os.Stat(in); err != nil || !fi.IsDir() {
			return fmt.Errorf("messages folder %q not found", in)
		}

		rep, err := render.AttachmentLog(render.Options{
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
		fmt.Printf("Logged %d attachments (%d thumbnails) to %s\n", rep.Attachments, rep.Thumbnails, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(attachlogCmd)

	attachlogCmd.Flags().StringVar(&attachlogIn, "in", "", "messages directory (day CSVs + attachments tree)")
	attachlogCmd.Flags().StringVar(&attachlogOut, "out", "", "output directory for attachment_log.html")
}
