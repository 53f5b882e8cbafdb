package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/siherrmann/featuregraph"
	"github.com/siherrmann/featuregraph/helper"
	"github.com/siherrmann/featuregraph/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the CLI configuration read from flags, FEATUREGRAPH_* variables and the config file.
type Config struct {
	Registry      string                    `mapstructure:"registry"`
	LogLevel      string                    `mapstructure:"log_level"`
	Addr          string                    `mapstructure:"addr"`
	Visualization model.VisualizationConfig `mapstructure:"visualization"`
}

// app holds the state shared by all subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     Config
	logger  *slog.Logger
}

func newRootCmd(version string) *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:     "featuregraph",
		Short:   "Lineage graph and search for a feature store registry",
		Long:    `Builds the lineage graph of a feature store registry (data sources, entities, feature views and feature services), lays it out and serves search, tag filters and snapshots.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./featuregraph.yaml)")
	rootCmd.PersistentFlags().StringP("registry", "r", "",
		"registry file (json or yaml)")
	rootCmd.PersistentFlags().String("log-level", "info",
		"log level (debug, info, warn, error)")

	_ = a.v.BindPFlag("registry", rootCmd.PersistentFlags().Lookup("registry"))
	_ = a.v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(
		a.newGraphCmd(),
		a.newRelationshipsCmd(),
		a.newSearchCmd(),
		a.newTagsCmd(),
		a.newStatsCmd(),
		a.newServeCmd(),
		a.newPersistCmd(),
	)

	return rootCmd
}

func (a *app) initConfig() error {
	defaults := model.DefaultVisualizationConfig()
	a.v.SetDefault("log_level", "info")
	a.v.SetDefault("addr", ":8080")
	a.v.SetDefault("visualization.direction", string(defaults.Direction))
	a.v.SetDefault("visualization.fallback_limit", defaults.FallbackLimit)
	a.v.SetDefault("visualization.node_separation", defaults.NodeSeparation)
	a.v.SetDefault("visualization.rank_separation", defaults.RankSeparation)
	a.v.SetDefault("visualization.cache_ttl", defaults.CacheTTL)

	a.v.SetEnvPrefix("FEATUREGRAPH")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("featuregraph")
		a.v.SetConfigType("yaml")
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return helper.NewError("read config", err)
		}
	}

	if err := a.v.Unmarshal(&a.cfg); err != nil {
		return helper.NewError("decode config", err)
	}
	a.cfg.Visualization.Direction = model.ParseLayoutDirection(strings.ToUpper(string(a.cfg.Visualization.Direction)))

	a.logger = slog.New(helper.NewPrettyHandler(os.Stderr, helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: helper.ParseLevel(a.cfg.LogLevel)},
	}))

	return nil
}

// featuregraph loads the configured registry.
func (a *app) featuregraph() (*featuregraph.Featuregraph, error) {
	if a.cfg.Registry == "" {
		return nil, fmt.Errorf("no registry file given, use --registry or FEATUREGRAPH_REGISTRY")
	}

	return featuregraph.NewFromFile(
		a.cfg.Registry,
		featuregraph.WithConfig(a.cfg.Visualization),
		featuregraph.WithLogger(a.logger),
	)
}

// direction parses the --direction flag, falling back to the configured direction.
func (a *app) direction(cmd *cobra.Command) (model.LayoutDirection, error) {
	value, _ := cmd.Flags().GetString("direction")
	switch strings.ToUpper(value) {
	case "":
		return a.cfg.Visualization.Direction, nil
	case string(model.LayoutLeftRight):
		return model.LayoutLeftRight, nil
	case string(model.LayoutTopBottom):
		return model.LayoutTopBottom, nil
	default:
		return "", fmt.Errorf("unknown direction %q, use LR or TB", value)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
