package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"calibreport/internal/config"
	"calibreport/internal/service/reference"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "列出参考工作簿中各工作表的键（可选的仪器与参数）",
	RunE:  runTables,
}

func runTables(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	files := []string{cfg.Reference.InstrumentFile, cfg.Reference.ParameterFile}
	for _, file := range files {
		path := config.ReferencePath(a.DataDir, file)
		names, err := reference.SheetNames(path)
		if err != nil {
			return err
		}
		tables, err := reference.LoadWorkbook(path)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", file)
		for _, name := range names {
			table := tables[name]
			fmt.Fprintf(cmd.OutOrStdout(), "  [%s] %d 行\n", name, len(table.Rows))
			for _, row := range table.Rows {
				fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", row[0])
			}
		}
	}
	return nil
}
