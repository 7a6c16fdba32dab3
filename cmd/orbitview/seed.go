package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"orbitview/internal/domain"
	"orbitview/internal/loader"
	"orbitview/internal/repository/sqlite"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Replace the node tree in the database with a seed file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		repo, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer repo.Close()

		nodes, err := loader.Seed(context.Background(), repo, args[0])
		if err != nil {
			return err
		}

		set := domain.NewNodeSet(nodes)
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d nodes (%d themes) into %s\n",
			color.GreenString("Imported"), len(nodes), len(set.Themes()), cfg.Database.Path)
		return nil
	},
}
