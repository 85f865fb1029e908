package cli

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var slotsPage int

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "List the raw slots of a page",
	Args:  cobra.NoArgs,
	RunE: withDB(func(cmd *cobra.Command, args []string) error {
		page := slotsPage
		if page < 0 {
			st, err := db.Stats()
			if err != nil {
				return err
			}
			page = st.ActivePage
		}

		slots, err := db.Slots(page)
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header("Addr", "State", "Key", "Value")
		for _, s := range slots {
			row := []string{fmt.Sprintf("0x%04x", s.Addr), "empty", "", ""}
			if !s.Empty {
				row[1] = "corrupt"
				if s.Valid {
					row[1] = "valid"
				}
				row[2] = strconv.Itoa(int(s.Record.Key))
				row[3] = strconv.Itoa(int(s.Record.Value))
			}
			if err := table.Append(row); err != nil {
				return err
			}
		}
		return table.Render()
	}),
}

func init() {
	slotsCmd.Flags().IntVar(&slotsPage, "page", -1, "page index (defaults to the active page)")
	rootCmd.AddCommand(slotsCmd)
}
