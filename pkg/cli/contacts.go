package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"synparse/pkg/contacts"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts <contacts.txt> <contacts.xlsx>",
	Short: "Convert a raw carrier contacts export into a contacts workbook",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, out := args[0], args[1]

		records, err := contacts.ParseFile(in)
		if err != nil {
			return err
		}
		if err := contacts.WriteWorkbook(records, out); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
		fmt.Printf("Wrote %d rows to %q.\n", len(records), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contactsCmd)
}
