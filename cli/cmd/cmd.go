package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/malusev998/money"
	"github.com/malusev998/money/server"
)

type (
	// Dependencies are built once per command invocation by Config.Setup.
	Dependencies struct {
		Converter server.Converter
		Registry  *money.Registry
		// Service is nil when no storage is configured.
		Service money.SnapshotService
		Metrics *prometheus.Registry
		Logger  *zap.Logger
		Addr    string
		Close   func() error
	}

	SetupFunc func(ctx context.Context, configFile string, debug bool) (*Dependencies, error)

	Config struct {
		Ctx   context.Context
		Setup SetupFunc

		deps *Dependencies
	}
)

func NewRootCommand(config *Config) *cobra.Command {
	var (
		debug      bool
		configFile string
	)

	if config.Ctx == nil {
		config.Ctx = context.Background()
	}

	rootCmd := &cobra.Command{
		Use:           "money",
		Short:         "Currency conversion with exchange rate snapshots",
		Version:       "v2.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			absolutePath, err := filepath.Abs(configFile)
			if err != nil {
				return err
			}

			deps, err := config.Setup(config.Ctx, absolutePath, debug)
			if err != nil {
				return fmt.Errorf("setting up: %w", err)
			}

			if deps.Logger == nil {
				deps.Logger = zap.NewNop()
			}

			config.deps = deps

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if config.deps == nil || config.deps.Close == nil {
				return nil
			}

			return config.deps.Close()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug flag")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./config.yml", "Path to config file")

	rootCmd.AddCommand(
		convert(config),
		format(config),
		distribute(config),
		rates(config),
		serve(config),
	)

	return rootCmd
}

func Execute(config *Config) error {
	return NewRootCommand(config).Execute()
}

func parseMoney(registry *money.Registry, amount, code string) (money.Money, error) {
	c, err := money.ParseCode(code)
	if err != nil {
		return money.Money{}, err
	}

	return money.FromString(amount, registry.LookupOrMinimal(c))
}
