package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rushteam/tagkit/inference"
)

func NewPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict [text...]",
		Short: "Predict tags for a piece of text",
		Long:  `Predict tags for the text given as arguments, or read from stdin when no arguments are given.`,
		RunE:  runPredict,
	}
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd, "cli")
	if err != nil {
		return err
	}

	content := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		content = string(data)
	}

	arts, err := loadArtifacts(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	resp, err := inference.NewService(arts, logger).Predict(cmd.Context(), &inference.Request{Content: &content})
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(resp)
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(resp.Tags, ","))
	return nil
}
