package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Starts an interactive command session
// Forwards commands to cobra
func startREPL(root *cobra.Command) {
	reader := bufio.NewScanner(root.InOrStdin())
	out := root.OutOrStdout()

	for {
		fmt.Fprint(out, "eeprom> ")

		if !reader.Scan() {
			return
		}

		input := strings.TrimSpace(reader.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			return
		}

		root.SetArgs(strings.Fields(input))

		// Errors are already printed by cobra
		_ = root.ExecuteContext(context.Background())
	}
}
