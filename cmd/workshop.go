package cmd

import (
	"fmt"

	"kf2-manager/feature/workshop"

	"github.com/spf13/cobra"
)

var workshopCmd = &cobra.Command{
	Use:   "workshop",
	Short: "Manage workshop subscriptions",
	Long:  `Edits the ServerSubscribedWorkshopItems list of PCServer-KFEngine.ini.`,
}

var workshopListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the subscribed workshop items",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		items, err := workshop.NewService(e.layout.EngineINI(), e.logger).Items()
		if err != nil {
			return err
		}
		for _, id := range items {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

var workshopSetCmd = &cobra.Command{
	Use:   "set <id>...",
	Short: "Replace the subscriptions with the given items",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWorkshopSet(workshop.Replace),
}

var workshopAddCmd = &cobra.Command{
	Use:   "add <id>...",
	Short: "Add items to the subscriptions",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWorkshopSet(workshop.Merge),
}

var workshopRemoveCmd = &cobra.Command{
	Use:   "remove [id]...",
	Short: "Remove items, or every subscription when none are given",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := workshop.ParseIDs(args)
		if err != nil {
			return err
		}
		if len(ids) == 0 && !confirmDestructiveAction(cmd, "remove every workshop subscription") {
			return nil
		}

		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		_, err = workshop.NewService(e.layout.EngineINI(), e.logger).Remove(ids)
		return err
	},
}

func runWorkshopSet(mode workshop.Mode) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ids, err := workshop.ParseIDs(args)
		if err != nil {
			return err
		}

		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		_, err = workshop.NewService(e.layout.EngineINI(), e.logger).Set(ids, mode)
		return err
	}
}

func init() {
	workshopRemoveCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm removing every subscription")
	workshopCmd.AddCommand(workshopListCmd, workshopSetCmd, workshopAddCmd, workshopRemoveCmd)
	RootCmd.AddCommand(workshopCmd)
}
