package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"schedule-planner/internal/planner"
)

func newCatalogCmd() *cobra.Command {
	var variants int
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "列出模拟课程目录",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printCatalog(cmd.OutOrStdout(), planner.GenerateCatalog(variants))
		},
	}
	cmd.Flags().IntVar(&variants, "variants", planner.DefaultVariantsPerSlot, "每个格子的候选课程数")
	return cmd
}

func printCatalog(w io.Writer, catalog []planner.Course) error {
	for _, c := range catalog {
		final := ""
		if c.HasFinal {
			final = "期末"
		}
		_, err := fmt.Fprintf(w, "%3d  %s 第%d节  %-16s %-10s %-4s %-4s %s\n",
			c.ID, c.Day.Label(), c.Period, c.Name, c.Professor, c.Modality.Label(), c.Category.Label(), final)
		if err != nil {
			return err
		}
	}
	return nil
}
