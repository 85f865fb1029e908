package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"go.eeprom/internal/auth"
)

var userCreateCmd = &cobra.Command{
	Use:   "user-create <username> <password> <role>",
	Args:  cobra.ExactArgs(3),
	Short: "Create a new user (roles: admin, operator, viewer)",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, password, roleStr := args[0], args[1], args[2]

		role, ok := auth.ParseRole(roleStr)
		if !ok {
			return fmt.Errorf("invalid role %q", roleStr)
		}

		fs, err := auth.NewFileStore(afero.NewOsFs(), cfg.UserFile)
		if err != nil {
			return err
		}

		if u, _ := fs.GetUser(username); u != nil {
			return fmt.Errorf("user %s already exists", username)
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}

		u := &auth.User{
			Username: username,
			Password: string(hash),
			Role:     role,
		}

		if err := fs.SaveUser(u); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "User %s created\n", username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCreateCmd)
}
