package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geochemlab/icpqc/internal/channel"
	"github.com/geochemlab/icpqc/internal/report"
	"github.com/geochemlab/icpqc/internal/table"
)

var channelsCmd = &cobra.Command{
	Use:   "channels <export>",
	Short: "List the acquisition channels found in an export",
	Long: `Channels parses an export's column headers without processing any data,
showing the derived channel id, element, masses and collision gas for each
analyte column. Useful for checking what a run actually measured before
processing it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, loadWarnings, err := table.LoadInstrumentExport(args[0])
		if err != nil {
			return fmt.Errorf("load export: %w", err)
		}
		for _, w := range loadWarnings {
			fmt.Fprintf(os.Stderr, "⚠ %s\n", w)
		}

		set, err := channel.ParseHeaders(table.ChannelHeaders(tbl))
		if err != nil {
			return err
		}
		for _, w := range set.Warnings {
			fmt.Fprintf(os.Stderr, "⚠ %s\n", w)
		}

		report.RenderChannels(os.Stdout, set)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(channelsCmd)
}
