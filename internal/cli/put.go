package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var putCmd = &cobra.Command{
	Use:     "put <key> <value>",
	Aliases: []string{"set"},
	Short:   "Store <value> under <key>",
	Args:    cobra.ExactArgs(2),
	RunE: withDB(func(cmd *cobra.Command, args []string) error {
		key, err := parseKey(args[0])
		if err != nil {
			return err
		}
		value, err := strconv.ParseUint(args[1], 0, 16)
		if err != nil {
			return fmt.Errorf("invalid value %q, expected 0-65535", args[1])
		}

		if err := db.Put(key, uint16(value)); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d stored\n", key)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(putCmd)
}
