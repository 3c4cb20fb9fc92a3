package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"kf2-manager/feature/cache"
	"kf2-manager/feature/workshop"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var yesConfirm bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the workshop download cache",
}

var cacheReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Delete cached workshop items that are no longer subscribed",
	Long: `Lists KFGame/Cache and deletes every directory whose name is not a
subscribed workshop id. Deleted content is gone; Steam downloads it again
if the item is subscribed later.

Examples:
  # Report and ask for confirmation
  cache reconcile

  # Non-interactive
  cache reconcile --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		ids, err := workshop.NewService(e.layout.EngineINI(), e.logger).Items()
		if err != nil {
			return err
		}

		root := e.layout.CacheDir()
		stale, kept, err := cache.Plan(root, ids)
		if err != nil {
			return err
		}
		e.logger.Info("Cache report",
			zap.String("root", root),
			zap.Int("subscribed", len(ids)),
			zap.Strings("stale", stale),
			zap.Int("kept", len(kept)),
		)
		if len(stale) == 0 {
			e.logger.Info("Nothing to remove")
			return nil
		}

		if !confirmDestructiveAction(cmd, fmt.Sprintf("delete %d cache directories", len(stale))) {
			e.logger.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}

		res, err := cache.NewReconciler(e.logger).Reconcile(cmd.Context(), root, ids)
		if err != nil {
			return err
		}
		return res.Err()
	},
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction(cmd *cobra.Command, action string) bool {
	out := cmd.OutOrStdout()
	if yesConfirm {
		fmt.Fprintf(out, "Auto-confirmed via --yes flag: %s\n", action)
		return true
	}

	fmt.Fprintf(out, "Type 'yes' to %s: ", action)
	reader := bufio.NewReader(cmd.InOrStdin())
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(strings.ToLower(response)) == "yes"
}

func init() {
	cacheReconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm deletion (non-interactive)")
	cacheCmd.AddCommand(cacheReconcileCmd)
	RootCmd.AddCommand(cacheCmd)
}
