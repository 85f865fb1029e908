package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var formatYes bool

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Erase both pages and start with no stored values",
	Args:  cobra.NoArgs,
	RunE: withDB(func(cmd *cobra.Command, args []string) error {
		if !formatYes {
			return fmt.Errorf("format erases every stored value, pass --yes to confirm")
		}
		if err := db.Format(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Formatted")
		return nil
	}),
}

func init() {
	formatCmd.Flags().BoolVar(&formatYes, "yes", false, "confirm erasing all values")
	rootCmd.AddCommand(formatCmd)
}
