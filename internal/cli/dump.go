package cli

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "List the current value of every stored key",
	Args:  cobra.NoArgs,
	RunE: withDB(func(cmd *cobra.Command, args []string) error {
		records, err := db.Dump()
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header("Key", "Value", "Hex", "Name")
		for _, r := range records {
			name := ""
			if reg, ok := db.Register(uint8(r.Key)); ok {
				name = reg.Name
			}
			if err := table.Append([]string{
				strconv.Itoa(int(r.Key)),
				strconv.Itoa(int(r.Value)),
				fmt.Sprintf("0x%04x", r.Value),
				name,
			}); err != nil {
				return err
			}
		}
		return table.Render()
	}),
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
