package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"synparse/pkg/collect"
)

var (
	collectIn  string
	collectOut string
	collectLog string
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Copy all message attachments into one folder and log metadata to a workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := firstNonEmpty(collectIn, cfg.Paths.Messages)
		out := firstNonEmpty(collectOut, "Compiled Attachments")
		logPath := firstNonEmpty(collectLog,
			filepath.Join(out, "compiled_attachment_log", "compiled_attachment_log.xlsx"))

		if fi, err := os.Stat(in); err != nil || !fi.IsDir() {
			return fmt.Errorf("messages folder %q not found", in)
		}

		records, exifKeys, err := collect.Attachments(in, out)
		if err != nil {
			return err
		}
		if err := collect.WriteWorkbook(logPath, "Attachment Metadata", collect.AttachmentHeaders, exifKeys, records); err != nil {
			return err
		}
		fmt.Printf("Copied %d files from %q to %q and logged metadata to %q.\n",
			len(records), in, out, logPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().StringVar(&collectIn, "in", "", "messages directory (day CSVs + attachments tree)")
	collectCmd.Flags().StringVar(&collectOut, "out", "", "compiled output directory")
	collectCmd.Flags().StringVar(&collectLog, "log", "", "metadata workbook path")
}
