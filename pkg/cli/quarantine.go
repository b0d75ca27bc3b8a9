package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"synparse/pkg/collect"
)

var (
	quarantineRoot string
	quarantineOut  string
)

var quarantineCmd = &cobra.Command{
	Use:   "quarantine",
	Short: "Recover files from quarantined zip archives, fixing extensions by content",
	RunE: func(cmd *cobra.Command, args []string) error {
		root := quarantineRoot
		out := firstNonEmpty(quarantineOut, filepath.Join(root, "Compiled Quarantine Files"))

		if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
			return fmt.Errorf("root folder %q not found", root)
		}

		copied, problems, err := collect.Quarantine(root, out)
		if err != nil {
			return err
		}
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "warning: %s\n", p)
		}
		fmt.Printf("Copied %d files from %q to %q (%d archive errors).\n",
			len(copied), root, out, len(problems))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(quarantineCmd)

	quarantineCmd.Flags().StringVar(&quarantineRoot, "root", "VZMOBILE", "backup root to scan for *.zip_file_* archives")
	quarantineCmd.Flags().StringVar(&quarantineOut, "out", "", "compiled output directory")
}
