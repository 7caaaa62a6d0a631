package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/malusev998/money"
)

// maxParts matches the limit of the distribute HTTP endpoint.
const maxParts = 1000

func convert(config *Config) *cobra.Command {
	return &cobra.Command{
		Use:     "convert AMOUNT FROM TO",
		Short:   "Convert an amount into another currency",
		Example: "money convert 100 USD EUR",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps := config.deps

			m, err := parseMoney(deps.Registry, args[0], args[1])
			if err != nil {
				return err
			}

			target, err := money.ParseCode(args[2])
			if err != nil {
				return err
			}

			converted, err := deps.Converter.Convert(config.Ctx, m, target)
			if err != nil {
				return err
			}

			rate, err := deps.Converter.Rate(config.Ctx, m.Code(), target)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (rate %s)\n", m, converted.Round(), rate)

			return nil
		},
	}
}

func format(config *Config) *cobra.Command {
	return &cobra.Command{
		Use:     "format AMOUNT CODE",
		Short:   "Format an amount with its currency symbol and precision",
		Example: "money format 1234.5 JPY",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMoney(config.deps.Registry, args[0], args[1])
			if err != nil {
				return err
			}

			formatted, err := m.Format()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatted)

			return nil
		},
	}
}

func distribute(config *Config) *cobra.Command {
	return &cobra.Command{
		Use:     "distribute AMOUNT CODE PARTS",
		Short:   "Split an amount into equal parts that sum to the amount",
		Example: "money distribute 10 USD 3",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMoney(config.deps.Registry, args[0], args[1])
			if err != nil {
				return err
			}

			parts, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("%w: parts %q", money.ErrInvalidArgument, args[2])
			}

			if parts > maxParts {
				return fmt.Errorf("%w: parts must be at most %d, got %d", money.ErrInvalidArgument, maxParts, parts)
			}

			shares, err := m.Split(parts)
			if err != nil {
				return err
			}

			for i, share := range shares {
				fmt.Fprintf(cmd.OutOrStdout(), "%d/%d\t%s\n", i+1, len(shares), share)
			}

			return nil
		},
	}
}
