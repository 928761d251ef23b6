package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quickcalc/internal/core/calclogic"
	"quickcalc/internal/core/evaluator"
	"quickcalc/internal/core/secret"
	"quickcalc/internal/observability"
	"quickcalc/internal/storage"
	"quickcalc/internal/ui/preferences"
)

const appName = "QuickCalc"

type rootOptions struct {
	configPath string
	debug      bool
	trace      bool
}

// environment is the ambient state shared by every command.
type environment struct {
	logger     *zap.Logger
	settings   preferences.Settings
	configPath string
	shutdown   func(context.Context) error
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	options := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:          "quickcalc",
		Short:        "QuickCalc - a small desktop calculator",
		Long:         `A small desktop calculator with a keypad window and a few secrets.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap(cmd, options)
			if err != nil {
				return err
			}
			defer env.close(cmd.Context())
			return runGUI(env)
		},
	}

	rootCmd.PersistentFlags().StringVar(&options.configPath, "config", "", "Settings file (default: user config dir)")
	rootCmd.PersistentFlags().BoolVar(&options.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&options.trace, "trace", false, "Print evaluation spans to stderr")

	rootCmd.AddCommand(newEvalCmd(options), newPressCmd(options))
	return rootCmd
}

func bootstrap(cmd *cobra.Command, options *rootOptions) (*environment, error) {
	logger, err := observability.NewLogger(options.debug)
	if err != nil {
		return nil, err
	}

	env := &environment{logger: logger, configPath: options.configPath}
	env.settings, err = env.loadSettings()
	if err != nil {
		logger.Warn("using default settings", zap.String("path", env.configPath), zap.Error(err))
	}

	if options.trace {
		env.shutdown, err = observability.InitTracing(contextOf(cmd), appName, cmd.ErrOrStderr())
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
	}
	return env, nil
}

// loadSettings reads the --config file, or the per-user settings file when
// no path was given.
func (env *environment) loadSettings() (preferences.Settings, error) {
	if env.configPath == "" {
		return storage.LoadSettings(appName)
	}
	return storage.LoadSettingsFile(env.configPath)
}

func (env *environment) saveSettings(settings preferences.Settings) error {
	if env.configPath == "" {
		return storage.SaveSettings(appName, settings)
	}
	return storage.SaveSettingsFile(env.configPath, settings)
}

func (env *environment) newLogic(scheduler secret.Scheduler) (*calclogic.Logic, error) {
	eval, err := evaluator.New()
	if err != nil {
		return nil, err
	}
	return calclogic.New(env.settings.CalculatorConfig(), calclogic.Options{
		Evaluator: eval,
		Scheduler: scheduler,
		Logger:    env.logger,
	}), nil
}

func (env *environment) close(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	if env.shutdown != nil {
		if err := env.shutdown(ctx); err != nil {
			env.logger.Warn("tracing shutdown", zap.Error(err))
		}
	}
	observability.Sync(env.logger)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
