package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gogpu/gpumark/gfx"
)

func (a *app) newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List registered rendering backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			green := color.New(color.FgGreen).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			available := make(map[string]bool)
			for _, name := range gfx.Available() {
				available[name] = true
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPRIORITY\tSTATUS")
			for _, name := range gfx.List() {
				e, ok := gfx.Get(name)
				if !ok {
					continue
				}
				status := red("unavailable")
				if available[name] {
					status = green("available")
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\n", name, e.Priority, status)
			}
			return tw.Flush()
		},
	}
}
