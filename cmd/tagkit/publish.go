package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rushteam/tagkit/artifact"
)

func NewPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <dir>",
		Short: "Publish local artifacts to Redis",
		Long:  `Validate the artifacts in <dir> and write them to the Redis instance configured under artifacts.redis, so that services using source "redis" can load them.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runPublish,
	}
	cmd.Flags().String("prefix", "", "Key prefix, overrides artifacts.redis.prefix")
	return cmd
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd, "cli")
	if err != nil {
		return err
	}
	prefix := cfg.Artifacts.Redis.Prefix
	if p, _ := cmd.Flags().GetString("prefix"); p != "" {
		prefix = p
	}

	rs, err := cfg.Artifacts.OpenRedis(cmd.Context())
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rs.Close()

	if err := artifact.Publish(cmd.Context(), artifact.NewFileSource(args[0]), rs, prefix, cfg.Artifacts.Names); err != nil {
		return err
	}
	logger.Info("artifacts published",
		slog.String("addr", cfg.Artifacts.Redis.Addr),
		slog.String("prefix", prefix),
		slog.Any("names", cfg.Artifacts.Names.List()))
	return nil
}
