package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/encodeous/dvsim/core"
	"github.com/encodeous/dvsim/state"
	"github.com/spf13/cobra"
)

var (
	quietPeriod     time.Duration
	convergeTimeout time.Duration
)

var tableCmd = &cobra.Command{
	Use:     "table",
	Aliases: []string{"t"},
	Short:   "Runs the topology until routing converges and prints every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := state.ReadSimConfig(cmd.Flag("config").Value.String())
		if err != nil {
			return err
		}
		level := slog.LevelWarn
		if ok, _ := cmd.Flags().GetBool("verbose"); ok {
			level = slog.LevelDebug
		}
		return core.Converge(*cfg, level, quietPeriod, convergeTimeout, os.Stdout)
	},
	GroupID: "sim",
}

func init() {
	rootCmd.AddCommand(tableCmd)

	tableCmd.Flags().BoolP("verbose", "v", false, "Verbose output")
	tableCmd.Flags().DurationVarP(&quietPeriod, "quiet", "q", 200*time.Millisecond, "how long the network must stay idle to count as converged")
	tableCmd.Flags().DurationVarP(&convergeTimeout, "timeout", "t", 30*time.Second, "give up after this long")
}
