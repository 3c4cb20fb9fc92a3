package cmd

import (
	"context"
	"fmt"
	"os"

	"kf2-manager/core/config"
	"kf2-manager/core/logger"
	"kf2-manager/core/storage"
	"kf2-manager/feature/approved"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var approvedCmd = &cobra.Command{
	Use:   "approved",
	Short: "Inspect and publish the approved workshop list",
}

var approvedListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the approved workshop items from the configured source",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}

		src, err := newApprovedSource(cmd.Context(), e)
		if err != nil {
			return err
		}
		ids, err := src.Fetch(cmd.Context())
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

var approvedUploadCmd = &cobra.Command{
	Use:   "upload <file.csv>",
	Short: "Upload an approved list to object storage",
	Long: `Validates a CSV file with the configured approved.column and uploads it
as approved.object to storage.bucket, creating the bucket if needed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer l.Sync()

		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		return uploadApproved(cmd.Context(), l, client, cfg, args[0])
	},
}

func uploadApproved(ctx context.Context, l *zap.Logger, client storage.Client, cfg *config.Config, path string) error {
	ids, err := approved.FileSource{Path: path, Column: cfg.Approved.Column}.Fetch(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
		return err
	}
	_, err = client.PutObject(ctx, cfg.Storage.Bucket, cfg.Approved.Object, f, info.Size(), minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}

	l.Info("Approved list uploaded",
		zap.String("bucket", cfg.Storage.Bucket),
		zap.String("object", cfg.Approved.Object),
		zap.Int("items", len(ids)),
	)
	return nil
}

func init() {
	approvedCmd.AddCommand(approvedListCmd, approvedUploadCmd)
	RootCmd.AddCommand(approvedCmd)
}
