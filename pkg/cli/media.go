package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"synparse/pkg/collect"
)

var (
	mediaRoot string
	mediaOut  string
	mediaLog  string
)

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Collect media files from a backup's date/device tree with a metadata workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		root := mediaRoot
		out := firstNonEmpty(mediaOut, filepath.Join(root, "Compiled Media"))
		logPath := firstNonEmpty(mediaLog,
			filepath.Join(out, "compiled_media_log", "compiled_media_log.xlsx"))

		if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
			return fmt.Errorf("root folder %q not found", root)
		}

		records, exifKeys, err := collect.Media(root, out)
		if err != nil {
			return err
		}
		if err := collect.WriteWorkbook(logPath, "Media Metadata", collect.MediaHeaders, exifKeys, records); err != nil {
			return err
		}
		fmt.Printf("Copied %d files to %q and logged metadata to %q.\n", len(records), out, logPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mediaCmd)

	mediaCmd.Flags().StringVar(&mediaRoot, "root", "VZMOBILE", "backup root containing YYYY-MM-DD/device folders")
	mediaCmd.Flags().StringVar(&mediaOut, "out", "", "compiled output directory")
	mediaCmd.Flags().StringVar(&mediaLog, "log", "", "metadata workbook path")
}
