package cmd

import (
	"fmt"
	"os"

	"github.com/encodeous/dvsim/state"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var (
	lineRouters int
	lineCost    uint32
)

// netCmd represents the new-net command
var netCmd = &cobra.Command{
	Use:   "new-net",
	Short: "Writes a sample topology: a line of routers with a host at each end",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := state.LineTopology(lineRouters, lineCost)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		if _, err := os.Stat(state.ConfigPath); err == nil {
			return fmt.Errorf("%s already exists", state.ConfigPath)
		}
		err = os.WriteFile(state.ConfigPath, out, 0600)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote a %d router topology to %s\n", lineRouters, state.ConfigPath)
		return nil
	},
	GroupID: "cfg",
}

func init() {
	rootCmd.AddCommand(netCmd)

	netCmd.Flags().IntVarP(&lineRouters, "routers", "r", 3, "number of routers in the line")
	netCmd.Flags().Uint32Var(&lineCost, "cost", 1, "cost of every link")
}
