package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"aiengine/internal/manager"
	"aiengine/pkg/types"
)

func newModelsCmd(f *rootFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "models",
		Short:   "List builtin models and manifests found in the models dir",
		Example: "  aiengine models --models-dir ./models --json",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(f)
			if err != nil {
				return err
			}
			mgr := manager.NewWithConfig(manager.ManagerConfig{
				Logger: zerolog.Nop(),
				OpenAI: manager.OpenAIConfig{
					APIKey:  cfg.OpenAI.APIKey,
					BaseURL: cfg.OpenAI.BaseURL,
					Model:   cfg.OpenAI.Model,
				},
			})
			defer mgr.Close()
			models, err := listModels(cmd.Context(), mgr, cfg.ModelCacheDir)
			if err != nil {
				return err
			}
			if asJSON {
				return writeModelsJSON(cmd.OutOrStdout(), models)
			}
			return writeModelsTable(cmd.OutOrStdout(), models)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print models as JSON")
	return cmd
}

func listModels(ctx context.Context, mgr *manager.Manager, dir string) ([]types.ModelInfo, error) {
	if err := mgr.InitModels(ctx, dir); err != nil {
		return nil, err
	}
	return mgr.ListAvailableModels(ctx)
}

func writeModelsJSON(w io.Writer, models []types.ModelInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"models": models})
}

func writeModelsTable(w io.Writer, models []types.ModelInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tENGINE\tVERSION\tSOURCE")
	for _, m := range models {
		version := m.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.Name, m.Kind, m.Engine, version, m.Source)
	}
	return tw.Flush()
}
