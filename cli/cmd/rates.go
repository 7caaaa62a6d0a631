package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/malusev998/money"
)

func printSnapshot(w io.Writer, snapshot money.RateSnapshot) {
	fmt.Fprintf(w, "Provider: %s\tBase: %s\tFetched: %s\n",
		snapshot.Provider, snapshot.Base, snapshot.FetchedAt.Format("2006-01-02 15:04:05 MST"))

	for _, code := range snapshot.Codes() {
		rate, _ := snapshot.Rate(code)
		fmt.Fprintf(w, "%s\t%s\n", code, rate)
	}
}

func rates(config *Config) *cobra.Command {
	var save bool

	ratesCmd := &cobra.Command{
		Use:   "rates",
		Short: "Fetch the latest exchange rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps := config.deps

			if !save {
				if err := deps.Converter.Refresh(config.Ctx); err != nil {
					return err
				}

				snapshot, _ := deps.Converter.Snapshot()
				printSnapshot(cmd.OutOrStdout(), snapshot)

				return nil
			}

			if deps.Service == nil {
				return fmt.Errorf("%w: --save needs at least one storage", money.ErrInvalidArgument)
			}

			snapshot, saved, err := deps.Service.Save(config.Ctx)
			if err != nil {
				return err
			}

			printSnapshot(cmd.OutOrStdout(), snapshot)

			names := make([]string, 0, len(saved))
			for name := range saved {
				names = append(names, name)
			}

			sort.Strings(names)

			for _, name := range names {
				deps.Logger.Debug("snapshot saved",
					zap.String("storage", name),
					zap.Any("id", saved[name].ID),
				)
				fmt.Fprintf(cmd.OutOrStdout(), "Saved to %s: %v\n", name, saved[name].ID)
			}

			return nil
		},
	}

	ratesCmd.Flags().BoolVar(&save, "save", false, "Save the fetched snapshot into the configured storages")

	return ratesCmd
}
