package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"clearmoney/config"
	"clearmoney/domain"
	"clearmoney/service"
)

func newCompareCmd() *cobra.Command {
	var (
		file      string
		extra     float64
		maxMonths int
		summary   bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare snowball and avalanche for the debts in a JSON file",
		Long: `Reads {"debts": [...], "extraPayment": N} from --file (or stdin when
--file is "-") and prints the comparison as JSON.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			input, err := readPayoffInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("extra") {
				input.ExtraPayment = extra
			}

			opts := service.SimulationOptions{MaxMonths: cfg.Simulation.MaxMonths}
			if cmd.Flags().Changed("max-months") {
				if err := service.ValidateMaxMonths(maxMonths); err != nil {
					return fmt.Errorf("--max-months: %w", err)
				}
				opts.MaxMonths = maxMonths
			}

			clean, err := service.SanitizeInput(input, service.Limits{MaxDebts: cfg.Simulation.MaxDebts})
			if err != nil {
				return err
			}
			result := service.Compare(clean, opts)

			out := cmd.OutOrStdout()
			if summary {
				_, err := fmt.Fprintln(out, service.FallbackExplanation(result))
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "JSON input file, - for stdin")
	cmd.Flags().Float64Var(&extra, "extra", 0, "monthly extra payment, overrides the file")
	cmd.Flags().IntVar(&maxMonths, "max-months", 0, "month cap for the simulation, overrides the config")
	cmd.Flags().BoolVar(&summary, "summary", false, "print a short text summary instead of JSON")
	return cmd
}

func readPayoffInput(stdin io.Reader, file string) (domain.PayoffInput, error) {
	r := stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return domain.PayoffInput{}, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var input domain.PayoffInput
	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return domain.PayoffInput{}, fmt.Errorf("decode input: %w", err)
	}
	return input, nil
}
