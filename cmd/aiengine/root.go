package main

import (
	"strings"

	"github.com/spf13/cobra"

	"aiengine/internal/config"
)

// rootFlags are the persistent flags shared by every subcommand. Set flags
// win over the config file and the environment.
type rootFlags struct {
	configPath string
	port       int
	logLevel   string
	modelsDir  string
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:           "aiengine",
		Short:         "HTTP service for dataset analysis, queries, predictions and insights",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Config file (.yaml, .yml, .json or .toml)")
	pf.IntVar(&f.port, "port", 0, "HTTP port (defaults PORT or 5000)")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level: debug|info|warn|error|off (defaults LOG_LEVEL or INFO)")
	pf.StringVar(&f.modelsDir, "models-dir", "", "Directory scanned for model manifests (defaults MODEL_CACHE_DIR or ./models)")

	root.AddCommand(newServeCmd(f), newModelsCmd(f), newVersionCmd(f))
	return root
}

// resolveConfig layers the flags over config.Resolve.
func resolveConfig(f *rootFlags) (config.Config, error) {
	cfg, err := config.Resolve(f.configPath)
	if err != nil {
		return cfg, err
	}
	if f.port != 0 {
		cfg.Port = f.port
	}
	if v := strings.TrimSpace(f.logLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(f.modelsDir); v != "" {
		cfg.ModelCacheDir = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
