package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"go.eeprom/internal/eeprom"
)

func parseKey(s string) (uint8, error) {
	k, err := strconv.ParseUint(s, 0, 8)
	if err != nil || k == uint64(eeprom.NoKey) {
		return 0, fmt.Errorf("invalid key %q, expected 0-254", s)
	}
	return uint8(k), nil
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the value stored under <key>",
	Args:  cobra.ExactArgs(1),
	RunE: withDB(func(cmd *cobra.Command, args []string) error {
		key, err := parseKey(args[0])
		if err != nil {
			return err
		}

		val, err := db.Get(key)
		if errors.Is(err, eeprom.ErrIntegrity) {
			fmt.Fprintf(cmd.OutOrStdout(), "%d (integrity check failed)\n", val)
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), val)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(getCmd)
}
