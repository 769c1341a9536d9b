package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// inspectCommand creates the inspect command, an interactive browser over
// the reduced graph.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse the reduced graph of a circuit interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, ch, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer ch.Close()

			res, _, err := reduceFile(ctx, runner, args[0], false)
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewInspectModel(res), tea.WithContext(ctx), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
