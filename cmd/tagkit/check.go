package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load and validate artifacts",
		Long:  `Fetch the three artifacts from the configured source, check that they are mutually compatible and print their shape.`,
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd, "cli")
	if err != nil {
		return err
	}
	arts, err := loadArtifacts(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	info := arts.Info()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	logger.Info("artifacts ok", slog.String("source", info.Source))
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "extractor:   %s (%d features)\n", info.Extractor, info.FeatureDim)
	fmt.Fprintf(out, "classifier:  %s\n", info.Classifier)
	fmt.Fprintf(out, "labels (%d): %v\n", info.LabelCount, info.Labels)
	return nil
}
