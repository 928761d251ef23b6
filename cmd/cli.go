package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"quickcalc/internal/core/calclogic"
	"quickcalc/internal/core/secret"
)

var errEvaluation = errors.New("expression could not be evaluated")

func newEvalCmd(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression...>",
		Short: "Evaluate an expression and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap(cmd, options)
			if err != nil {
				return err
			}
			defer env.close(cmd.Context())

			logic, err := env.newLogic(nil)
			if err != nil {
				return err
			}
			defer logic.Close()

			logic.SetExpression(strings.Join(args, " "))
			logic.Evaluate()
			return printResult(cmd.OutOrStdout(), logic.Result())
		},
	}
}

func newPressCmd(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "press <token...>",
		Short: "Feed button presses to the calculator",
		Long: `Feed button presses to the calculator one by one.

Digits and operators are appended, "=" evaluates, "C" clears and "hold"
holds the "=" button until the hold timer expires.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap(cmd, options)
			if err != nil {
				return err
			}
			defer env.close(cmd.Context())

			clock := &secret.ManualScheduler{}
			logic, err := env.newLogic(clock)
			if err != nil {
				return err
			}
			defer logic.Close()

			events := logic.Subscribe(len(args)*4 + 4)
			for _, token := range args {
				switch token {
				case "=":
					logic.Evaluate()
				case "C", "c":
					logic.Clear()
				case "hold":
					logic.StartHold()
					clock.Expire()
					logic.StopHold()
				default:
					logic.Append(token)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "expression: %s\n", logic.Expression())
			for _, source := range secretSources(events) {
				color.New(color.FgMagenta, color.Bold).Fprintf(out, "secret window opened (%s)\n", source)
			}
			if logic.Result() == "" {
				return nil
			}
			return printResult(out, logic.Result())
		},
	}
}

func printResult(out io.Writer, result string) error {
	if result == calclogic.ErrorResult {
		color.New(color.FgRed).Fprintln(out, result)
		return errEvaluation
	}
	color.New(color.FgGreen).Fprintln(out, result)
	return nil
}

func secretSources(events <-chan calclogic.Event) []secret.Source {
	var sources []secret.Source
	for {
		select {
		case event := <-events:
			if event.Type == calclogic.EventOpenSecretWindow {
				sources = append(sources, event.Source)
			}
		default:
			return sources
		}
	}
}
