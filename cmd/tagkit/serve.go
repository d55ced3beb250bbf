package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rushteam/tagkit/inference"
	"github.com/rushteam/tagkit/recommend"
	"github.com/rushteam/tagkit/server"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP service",
		Long:  `Load artifacts once, then serve POST /predict, POST /recommend and GET /health until SIGINT or SIGTERM.`,
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "Listen address, overrides config")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	arts, err := loadArtifacts(ctx, cfg)
	if err != nil {
		return fmt.Errorf("load artifacts: %w", err)
	}
	info := arts.Info()
	logger.Info("artifacts loaded",
		slog.String("source", info.Source),
		slog.Int("feature_dim", info.FeatureDim),
		slog.Int("label_count", info.LabelCount))

	p, err := recommend.NewPipeline(cfg.Ranking)
	if err != nil {
		return fmt.Errorf("build ranking pipeline: %w", err)
	}
	logger.Info("ranking pipeline ready", slog.Any("nodes", p.Describe()))

	srv := server.New(server.Options{
		Addr:            cfg.Server.Addr,
		Mode:            cfg.Server.Mode,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, inference.NewService(arts, logger), recommend.NewService(p, logger), info, logger)

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
