package cmd

import (
	"fmt"

	"kf2-manager/core/process"
	"kf2-manager/feature/kf2"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var steamCmd = &cobra.Command{
	Use:   "steam",
	Short: "SteamCMD operations",
}

var steamUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Install or update the dedicated server through SteamCMD",
	Long:  `Runs SteamCMD with +app_update <steam.app_id> validate and waits for it to exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		spec := kf2.UpdateSpec(kf2.SteamVariant(e.cfg.Steam), e.cfg.Steam.AppID)
		h, err := process.NewExecLauncher(e.logger).Start(cmd.Context(), spec)
		if err != nil {
			return err
		}

		code, err := h.Wait()
		if err != nil {
			return err
		}
		if code != 0 {
			return fmt.Errorf("%s exited with code %d", spec.Name, code)
		}
		e.logger.Info("Server updated", zap.Int("app_id", e.cfg.Steam.AppID))
		return nil
	},
}

func init() {
	steamCmd.AddCommand(steamUpdateCmd)
	RootCmd.AddCommand(steamCmd)
}
