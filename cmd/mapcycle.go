package cmd

import (
	"fmt"
	"strings"

	"kf2-manager/feature/catalog"
	"kf2-manager/feature/mapcycle"

	"github.com/spf13/cobra"
)

var mapcycleIndex int

var mapcycleCmd = &cobra.Command{
	Use:   "mapcycle",
	Short: "Manage the server map cycles",
}

var mapcycleRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Write all custom maps into one map cycle",
	Long: `Writes a GameMapCycles line listing every map found in the workshop cache
and the custom map directories. An index past the last cycle appends a new
cycle instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		index := e.cfg.KF2.MapCycleIndex
		if cmd.Flags().Changed("index") {
			index = mapcycleIndex
		}

		svc := mapcycle.NewService(catalog.NewFileCatalog(e.logger), e.layout, e.logger)
		_, err = svc.Rebuild(cmd.Context(), index)
		return err
	},
}

var mapcycleListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the map cycles",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}

		cycles, err := mapcycle.NewService(catalog.NewFileCatalog(e.logger), e.layout, e.logger).Cycles()
		if err != nil {
			return err
		}
		for i, maps := range cycles {
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", i, strings.Join(maps, ", "))
		}
		return nil
	},
}

func init() {
	mapcycleRebuildCmd.Flags().IntVar(&mapcycleIndex, "index", 1, "Map cycle index to rewrite (defaults to kf2.mapcycle_index)")
	mapcycleCmd.AddCommand(mapcycleRebuildCmd, mapcycleListCmd)
	RootCmd.AddCommand(mapcycleCmd)
}
