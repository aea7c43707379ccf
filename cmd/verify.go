package cmd

import (
	"fmt"

	"github.com/encodeous/dvsim/state"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Validates the topology file and prints it with defaults applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := state.ReadSimConfig(cmd.Flag("config").Value.String())
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Println("Topology is valid")
		for _, e := range cfg.Edges() {
			fmt.Printf("  %s <-> %s\n", e.V1, e.V2)
		}
		fmt.Print(string(out))
		return nil
	},
	GroupID: "cfg",
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
