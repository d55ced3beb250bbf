package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rushteam/tagkit/artifact"
	"github.com/rushteam/tagkit/config"
	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/pkg/logging"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tagkit",
		Short:         "Text tagging and post recommendation service",
		Long:          `Predicts tags for free text with a pretrained multi-label classifier and ranks candidate posts for a user.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error), overrides config")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text|json|cli), overrides config")
	rootCmd.PersistentFlags().String("artifacts-dir", "", "Read artifacts from this directory, overrides config")

	rootCmd.AddCommand(
		NewServeCmd(),
		NewCheckCmd(),
		NewPredictCmd(),
		NewPublishCmd(),
	)
	return rootCmd
}

// loadConfig 读取配置并应用命令行覆盖项，同时初始化默认 logger。
// format 非空时覆盖配置中的日志格式（命令行工具使用 cli 格式），--log-format 优先级最高。
func loadConfig(cmd *cobra.Command, format string) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if dir, _ := cmd.Flags().GetString("artifacts-dir"); dir != "" {
		cfg.Artifacts.Source = config.SourceFile
		cfg.Artifacts.Dir = dir
	}

	level := cfg.Log.Level
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		level = v
	}
	if format == "" {
		format = cfg.Log.Format
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		format = v
	}

	logger := logging.SetDefault(level, format, cmd.ErrOrStderr())
	return cfg, logger, nil
}

// loadArtifacts 按配置打开来源并加载三个模型文件
func loadArtifacts(ctx context.Context, cfg *config.Config) (*artifact.Artifacts, error) {
	src, closeSrc, err := cfg.Artifacts.OpenSource(ctx)
	if err != nil {
		return nil, core.NewArtifactLoadError("open artifact source", err)
	}
	defer closeSrc()
	return artifact.Load(ctx, src, cfg.Artifacts.Names)
}
