package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statCmd = &cobra.Command{
	Use:   "stat",
	Short: "Show page states and slot usage",
	Args:  cobra.NoArgs,
	RunE: withDB(func(cmd *cobra.Command, args []string) error {
		st, err := db.Stats()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "image:      %s\n", cfg.Image)
		fmt.Fprintf(out, "pages:      2 x %s at %#x\n", humanize.IBytes(uint64(st.PageSize)), st.Base)
		fmt.Fprintf(out, "page 0:     %s\n", st.Status[0])
		fmt.Fprintf(out, "page 1:     %s\n", st.Status[1])
		fmt.Fprintf(out, "active:     %d\n", st.ActivePage)
		fmt.Fprintf(out, "slots:      %d used, %d free of %d\n", st.UsedSlots, st.FreeSlots, st.Capacity)
		fmt.Fprintf(out, "keys:       %d\n", st.Keys)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(statCmd)
}
