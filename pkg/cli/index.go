package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"synparse/pkg/attach"
	"synparse/pkg/store"
)

var (
	indexIn string
	indexDB string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Persist and inspect the attachment metadata index",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Scan the export and write the attachment index to a Pebble database",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := firstNonEmpty(indexIn, cfg.Paths.Messages)
		dbPath := firstNonEmpty(indexDB, cfg.Paths.IndexDB)

		if fi, err := os.Stat(in); err != nil || !fi.IsDir() {
			return fmt.Errorf("messages folder %q not found", in)
		}

		index, skipped, err := attach.BuildIndex(in)
		if err != nil {
			return err
		}
		if err := store.Open(dbPath); err != nil {
			return err
		}
		defer store.Close()

		n, err := store.BuildFrom(index)
		if err != nil {
			return err
		}
		fmt.Printf("Indexed %d attachments to %q (%d references unresolvable).\n", n, dbPath, len(skipped))
		for _, s := range skipped {
			fmt.Fprintf(os.Stderr, "unresolved: %s/%s/%s/%s: %s\n",
				s.Ref.Type, s.Ref.Direction, s.Ref.Day, s.Ref.Name, s.Reason)
		}
		return nil
	},
}

var indexInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize a previously built attachment index",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := firstNonEmpty(indexDB, cfg.Paths.IndexDB)
		if err := store.OpenReadOnly(dbPath); err != nil {
			return fmt.Errorf("open index %q: %w", dbPath, err)
		}
		defer store.Close()

		total := 0
		byContext := map[string]int{}
		err := store.Each(func(key string, meta attach.Meta) error {
			total++
			ctx := meta.Ref.Type + "/" + meta.Ref.Direction
			byContext[ctx]++
			if total <= 5 {
				fmt.Printf("%s -> %s (%s)\n", strings.TrimPrefix(key, "attach:"), meta.Sender, meta.Date)
			}
			return nil
		})
		if err != nil {
			return err
		}

		fmt.Printf("\nIndex summary for %q:\n", dbPath)
		fmt.Printf("  Total attachments: %d\n", total)
		for ctx, n := range byContext {
			fmt.Printf("  %-10s %d\n", ctx+":", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexBuildCmd, indexInspectCmd)

	indexCmd.PersistentFlags().StringVar(&indexIn, "in", "", "messages directory (day CSVs + attachments tree)")
	indexCmd.PersistentFlags().StringVar(&indexDB, "db", "", "Pebble database path")
}
