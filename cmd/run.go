package cmd

import (
	"github.com/encodeous/dvsim/core"
	"github.com/encodeous/dvsim/state"
	"github.com/spf13/cobra"
)

var logPath string

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation",
	Long:  `Runs every router and host in the topology for the configured duration, sends the scripted messages, then prints the routing tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		return core.Bootstrap(cmd.Flag("config").Value.String(), logPath, verbose)
	},
	GroupID: "sim",
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("verbose", "v", false, "Verbose output, includes every routing update and table")
	runCmd.Flags().StringVarP(&logPath, "log", "l", "", "Also write logs to this file")
	runCmd.Flags().BoolVar(&state.DBG_debug, "dbg", false, "Serve expvar metrics and pprof")
	runCmd.Flags().StringVar(&state.DebugAddr, "dbg-addr", state.DebugAddr, "Address of the debug server")
	runCmd.Flags().BoolVar(&state.DBG_trace, "trace", false, "Write a runtime trace to trace.out")
}
