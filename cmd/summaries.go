package cmd

import (
	"kf2-manager/feature/catalog"
	"kf2-manager/feature/summary"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var summariesCmd = &cobra.Command{
	Use:   "summaries",
	Short: "Manage custom map summaries",
}

var summariesRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Regenerate map summaries from the map directories",
	Long: `Removes every generated [<map> KFMapSummary] section of PCServer-KFGame.ini
and adds one for each KF-*.kfm map found in the workshop cache and the custom
map directories. Hand-written summaries are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		svc := summary.NewService(catalog.NewFileCatalog(e.logger), e.layout, e.logger)
		res, err := svc.Rebuild(cmd.Context())
		if err != nil {
			return err
		}
		e.logger.Info("Summary report",
			zap.Strings("removed", res.Removed),
			zap.Strings("added", res.Added),
		)
		return nil
	},
}

func init() {
	summariesCmd.AddCommand(summariesRebuildCmd)
	RootCmd.AddCommand(summariesCmd)
}
