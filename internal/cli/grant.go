package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"go.eeprom/internal/auth"
)

var grantCmd = &cobra.Command{
	Use:   "grant <username> <role>",
	Args:  cobra.ExactArgs(2),
	Short: "Change the role of a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]

		role, ok := auth.ParseRole(args[1])
		if !ok {
			return fmt.Errorf("invalid role %q", args[1])
		}

		fs, err := auth.NewFileStore(afero.NewOsFs(), cfg.UserFile)
		if err != nil {
			return err
		}

		u, err := fs.GetUser(username)
		if err != nil {
			return err
		}

		u.Role = role
		if err := fs.SaveUser(u); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Granted %s role %s\n", username, role)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(grantCmd)
}
