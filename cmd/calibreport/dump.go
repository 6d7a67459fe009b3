package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"calibreport/internal/model"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [report]",
	Short: "以 YAML 输出报告内容",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	blocks, err := a.Pipeline.Blocks(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(&model.Document{Name: args[0], Blocks: blocks}); err != nil {
		return err
	}
	return enc.Close()
}
