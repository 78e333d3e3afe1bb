package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func runParams(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(cfg.Parameters()); err != nil {
		return err
	}
	return enc.Close()
}
