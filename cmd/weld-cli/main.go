// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"golang.org/x/term"

	"weld/internal/config"
)

var version = "0.1.0"

// settings is the configuration resolved before any subcommand runs
var settings = config.Default()

var rootCmd = &cobra.Command{
	Use:               "weld",
	Short:             "Unify front-end and runtime IR into target-language IR",
	Long:              `weld pairs front-end calls with the runtime functions implementing them and lowers both into one target-language tree`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(unifyCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(inspectCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("config", "", "path to weld.toml (default: search upward from the working directory)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity (repeatable)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup resolves colour mode, configuration and logging for every command
func setup(cmd *cobra.Command, args []string) error {
	colorFlag, err := cmd.Flags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("unknown color mode %q (want auto, on or off)", colorFlag)
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath != "" {
		settings, err = config.Load(configPath)
	} else {
		var wd string
		if wd, err = os.Getwd(); err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		settings, _, err = config.Discover(wd)
	}
	if err != nil {
		return err
	}

	verbose, err := cmd.Flags().GetCount("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	commonlog.Configure(max(settings.Log.Verbosity, verbose), nil)
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
