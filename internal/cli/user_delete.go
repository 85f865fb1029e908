package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"go.eeprom/internal/auth"
)

var userDeleteCmd = &cobra.Command{
	Use:   "user-delete <username>",
	Args:  cobra.ExactArgs(1),
	Short: "Delete a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := auth.NewFileStore(afero.NewOsFs(), cfg.UserFile)
		if err != nil {
			return err
		}

		if err := fs.DeleteUser(args[0]); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "User %s deleted\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userDeleteCmd)
}
