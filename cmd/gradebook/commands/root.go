package commands

import (
	"context"
	"os"

	"gradebook/internal/analytics"
	"gradebook/internal/chart"
	"gradebook/internal/repl"
	"gradebook/internal/telemetry"
	libtelemetry "gradebook/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	userFlag   *string
	verbose    *bool
)

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "gradebook.json5", "The config file to read.")
	userFlag = rootCmd.PersistentFlags().String("user", "", "The user to load the gradebook of, overrides the config.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
}

var rootCmd = &cobra.Command{
	Use:           "gradebook [--config <path/to/gradebook.json5>] [--user <user>]",
	Short:         "gradebook is an interactive REPL for exploring your grades.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		libtelemetry.InitSlog(*verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		return runRepl(cmd.Context(), config)
	},
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig reads the --config file and applies the --user flag.
func loadConfig() (Config, error) {
	config, err := LoadConfig(*configPath)
	if err != nil {
		return Config{}, err
	}
	if *userFlag != "" {
		config.User = *userFlag
	}
	if config.Log.Debug && !*verbose {
		libtelemetry.InitSlog(true)
	}
	return config, nil
}

func runRepl(ctx context.Context, config Config) error {
	tel := telemetry.SlogAPI{}

	source, closeSource, err := config.Source.OpenSource(ctx, tel)
	if err != nil {
		return err
	}
	defer closeSource()

	agg := analytics.New(source, chart.NewPlotCharter(config.Charts.PlotOptions()), tel)
	dispatcher := repl.NewDispatcher(
		agg,
		repl.NewLineInput(os.Stdin, os.Stdout),
		os.Stdout,
		tel,
		repl.Options{DefaultCode: config.Repl.DefaultCode},
	)
	return dispatcher.Run(ctx, repl.NewSession(config.User))
}
