package main

import (
	"fmt"
	"os"
	"os/signal"
	"pgtpch/internal/aggregate"
	"pgtpch/internal/config"
	"pgtpch/internal/policy"
	"pgtpch/internal/stats"
	"pgtpch/internal/telemetry"
	"pgtpch/internal/ui"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exit = os.Exit
var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tpch-agg",
	Short: "Compare test results with their references",
	Long: `tpch-agg scans the results directory, groups the test result
directories, pairs every test with its reference and writes median, min and
mean speedups with 0.95 confidence intervals to a tab-separated report
(res.csv inside the results directory by default).`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE:              runAggregate,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Wrap Execute in panic recovery for graceful shutdown
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n=== CRITICAL ERROR: Command Execution Panic ===\n")
			fmt.Fprintf(os.Stderr, "Error: %v\n", r)
			exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./pgtpch.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.Flags().StringP("denominator", "d", "rd", "Speedup denominator: rd divides by the reference value, anything else by the test value")
	rootCmd.Flags().StringP("results", "r", "res", "Directory with results")
	rootCmd.Flags().String("output", "", "Report path (default <results>/res.csv)")
	rootCmd.Flags().String("samples-file", "exectime.txt", "Name of the sample file inside each test directory")
	rootCmd.Flags().Bool("watch", false, "Regenerate the report whenever sample files change")
}

// bindFlags maps flags onto their viper keys so config files and
// environment variables supply the defaults.
func bindFlags(cmd *cobra.Command) {
	bindings := map[string]string{
		"verbose":      "verbose",
		"no-color":     "no_color",
		"denominator":  "aggregate.denominator",
		"results":      "results",
		"output":       "aggregate.output",
		"samples-file": "aggregate.samples_file",
	}
	for flag, key := range bindings {
		if f := cmd.Flags().Lookup(flag); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig(cmd *cobra.Command, args []string) error {
	if err := config.Load(cfgFile, config.DefaultEnvPrefix); err != nil {
		return err
	}
	bindFlags(cmd)
	if err := config.ValidateConfig(); err != nil {
		return err
	}
	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_format"), viper.GetString("log_file"))
	return nil
}

func newAggregator(cmd *cobra.Command, metrics *telemetry.Metrics) (*aggregate.Aggregator, error) {
	pol, err := policy.NewRegexPolicy(
		viper.GetString("policy.group_pattern"),
		viper.GetString("policy.pair_pattern"),
		viper.GetString("policy.pair_replacement"),
	)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	return aggregate.New(
		pol,
		policy.TrimExtremes(viper.GetInt("preprocess.trim")),
		stats.ParseDenominator(viper.GetString("aggregate.denominator")),
		aggregate.WithSamplesFile(viper.GetString("aggregate.samples_file")),
		aggregate.WithMetrics(metrics),
		aggregate.WithConsole(out, ui.NewStyles(out, viper.GetBool("no_color"))),
	), nil
}

func runAggregate(cmd *cobra.Command, args []string) error {
	metrics := telemetry.NewMetrics()
	agg, err := newAggregator(cmd, metrics)
	if err != nil {
		return err
	}

	results := viper.GetString("results")
	output := viper.GetString("aggregate.output")
	textfile := viper.GetString("metrics.textfile")

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		if err := agg.Run(results, output); err != nil {
			return err
		}
		return metrics.WriteTextfile(textfile)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return agg.Watch(ctx, results, output, aggregate.DefaultDebounce, func(err error) {
		if err != nil {
			telemetry.LogError("Aggregation failed", err)
			return
		}
		if err := metrics.WriteTextfile(textfile); err != nil {
			telemetry.LogError("Failed to write metrics textfile", err)
		}
	})
}
