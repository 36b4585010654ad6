package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/retiresim/retiresim/internal/calculation"
	"github.com/retiresim/retiresim/internal/compare"
	"github.com/retiresim/retiresim/internal/config"
	"github.com/retiresim/retiresim/internal/historical"
	"github.com/spf13/cobra"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "retiresim",
	Short: "Retirement age Monte Carlo simulator",
	Long:  "Estimates retirement-outcome probabilities across candidate retirement ages by block-bootstrap simulation of market and inflation paths",
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [plan-file]",
	Short: "Run the Monte Carlo simulation for a plan",
	Long: `Run the Monte Carlo simulation described by a plan file and report
per-age success rates, ending-value percentiles, and the marginal benefit
of each additional working year.

Examples:
  retiresim simulate plan.yaml
  retiresim simulate plan.yaml --format csv --out results
  retiresim simulate plan.yaml --seed 42 --simulations 1000 --chart
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		planFile := args[0]

		parser := config.NewInputParser()
		plan, err := parser.LoadFromFile(planFile)
		if err != nil {
			log.Fatal(err)
		}

		// Flag overrides for quick experiments
		if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
			plan.Simulation.Seed = seed
		}
		if sims, _ := cmd.Flags().GetInt("simulations"); sims != 0 {
			plan.Simulation.NumSimulations = sims
		}

		data, err := historical.Load()
		if err != nil {
			log.Fatal(err)
		}

		engine := calculation.NewMonteCarloEngine(plan, data)
		debugMode, _ := cmd.Flags().GetBool("debug")
		if debugMode {
			engine.SetLogger(simpleCLILogger{})
		}

		result, err := engine.Run(context.Background())
		if err != nil {
			log.Fatal(err)
		}

		compSet := compare.BuildComparison(result, planFile)

		outputFormat, _ := cmd.Flags().GetString("format")
		verbose, _ := cmd.Flags().GetBool("verbose")

		switch outputFormat {
		case "table", "":
			tf := &compare.TableFormatter{}
			if verbose {
				fmt.Print(tf.FormatVerbose(compSet))
			} else {
				fmt.Print(tf.Format(compSet))
			}
		case "csv":
			if err := writeCSV(compSet, cmd); err != nil {
				log.Fatal(err)
			}
		case "json":
			jf := &compare.JSONFormatter{Pretty: true}
			out, err := jf.Format(compSet)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Println(out)
		default:
			log.Fatalf("unknown format %q (want table, csv, or json)", outputFormat)
		}

		if showChart, _ := cmd.Flags().GetBool("chart"); showChart {
			fmt.Println()
			fmt.Print(compare.NewChartFormatter().Format(compSet))
		}
	},
}

// writeCSV emits the two tabular exports. With --out they land in
// <out>-ages.csv and <out>-marginal.csv; otherwise both go to stdout.
func writeCSV(compSet *compare.AgeComparisonSet, cmd *cobra.Command) error {
	cf := &compare.CSVFormatter{}

	ages, err := cf.FormatAges(compSet)
	if err != nil {
		return fmt.Errorf("failed to format per-age CSV: %w", err)
	}
	marginal, err := cf.FormatMarginal(compSet)
	if err != nil {
		return fmt.Errorf("failed to format marginal CSV: %w", err)
	}

	outPrefix, _ := cmd.Flags().GetString("out")
	if outPrefix == "" {
		fmt.Print(ages)
		fmt.Println()
		fmt.Print(marginal)
		return nil
	}

	agesPath := outPrefix + "-ages.csv"
	if err := os.WriteFile(agesPath, []byte(ages), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", agesPath, err)
	}
	marginalPath := outPrefix + "-marginal.csv"
	if err := os.WriteFile(marginalPath, []byte(marginal), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", marginalPath, err)
	}

	fmt.Printf("Wrote %s and %s\n", agesPath, marginalPath)
	return nil
}

var validateCmd = &cobra.Command{
	Use:   "validate [plan-file]",
	Short: "Validate a plan file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		planFile := args[0]

		parser := config.NewInputParser()
		if _, err := parser.LoadFromFile(planFile); err != nil {
			log.Fatal(err)
		}

		fmt.Printf("Plan file %s is valid\n", planFile)
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "retiresim %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(os.Stdout, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

func init() {
	simulateCmd.Flags().String("format", "table", "Output format: table, csv, or json")
	simulateCmd.Flags().String("out", "", "File prefix for CSV exports (csv format only)")
	simulateCmd.Flags().Int64("seed", 0, "Override the plan's random seed")
	simulateCmd.Flags().Int("simulations", 0, "Override the plan's simulation count")
	simulateCmd.Flags().Bool("chart", false, "Render a success-rate chart after the report")
	simulateCmd.Flags().Bool("verbose", false, "Include depletion checkpoints in the table output")
	simulateCmd.Flags().Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
