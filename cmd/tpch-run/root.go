package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"pgtpch/internal/benchmark"
	"pgtpch/internal/config"
	"pgtpch/internal/history"
	"pgtpch/internal/notify"
	"pgtpch/internal/orchestrator"
	"pgtpch/internal/telemetry"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exit = os.Exit
var cfgFile string

// Factories, replaced in tests.
var (
	newRunnerFunc = func(script string, chunkSize int) benchmark.Runner {
		return benchmark.NewScriptRunner(script, chunkSize)
	}
	newStoreFunc    = history.NewStore
	newNotifierFunc = notify.NewManager
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tpch-run",
	Short: "Run TPC-H benchmark configurations against PostgreSQL",
	Long: `tpch-run executes the benchmark script once per entry of the run
configuration file, each entry merged over the shared defaults file. The
script output is mirrored to <results>/<testname>-<scale>/log.txt and the
execution times it records are summarized after every successful run.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE:              runBatch,
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
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./pgtpch.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("results", "res", "Directory receiving per-run result directories")

	rootCmd.Flags().String("rc", "runconf.json", "JSON file with the configurations to run")
	rootCmd.Flags().String("defaults", "pgtpch.conf", "File with default key=value settings")
	rootCmd.Flags().String("script", "./run.sh", "Benchmark script to execute")
	rootCmd.Flags().Bool("select", false, "Interactively choose which configurations to run")

	initHistoryCmd(rootCmd)
}

// bindFlags maps flags onto their viper keys so config files and
// environment variables supply the defaults.
func bindFlags(cmd *cobra.Command) {
	bindings := map[string]string{
		"verbose":  "verbose",
		"no-color": "no_color",
		"results":  "results",
		"rc":       "runconf",
		"defaults": "defaults",
		"script":   "script",
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

func openStore() (history.Store, error) {
	return newStoreFunc(history.StoreConfig{
		Type:             viper.GetString("history.type"),
		ConnectionString: viper.GetString("history.dsn"),
	})
}

func runBatch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	defaults, err := config.ParseDefaults(viper.GetString("defaults"))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Common (default) conf is\n%s\n", defaults)

	overrides, err := config.LoadRunConfs(viper.GetString("runconf"))
	if err != nil {
		return err
	}

	if selectFlag, _ := cmd.Flags().GetBool("select"); selectFlag {
		overrides, err = selectConfs(defaults, overrides)
		if err != nil {
			return err
		}
	}

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := telemetry.NewMetrics()
	if addr := viper.GetString("metrics.addr"); addr != "" {
		go func() {
			if err := metrics.StartMetricsServer(ctx, addr); err != nil {
				telemetry.LogError("Metrics server failed", err)
			}
		}()
	}

	o := orchestrator.New(newRunnerFunc(viper.GetString("script"), viper.GetInt("chunk_size")), viper.GetString("results"))
	o.Stdout = out
	o.Store = store
	o.Metrics = metrics
	o.Notifier = newNotifierFunc()
	o.Timeout = config.Timeout()

	_, runErr := o.Run(ctx, slog.Default(), defaults, overrides)

	if err := metrics.WriteTextfile(viper.GetString("metrics.textfile")); err != nil {
		telemetry.LogError("Failed to write metrics textfile", err)
	}
	if errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("interrupted")
	}
	return runErr
}
