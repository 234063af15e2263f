package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"weld/grammar"
	"weld/internal/catalog"
	"weld/internal/errors"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns [flags]",
	Short: "List the known unification patterns",
	Long:  `List the built-in patterns followed by those loaded from the configured pattern-rule files`,
	Args:  cobra.NoArgs,
	RunE:  runPatterns,
}

var patternsCheckCmd = &cobra.Command{
	Use:   "check <file.patterns>...",
	Short: "Check pattern-rule files without registering them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPatternsCheck,
}

func init() {
	patternsCmd.Flags().StringSlice("rules", nil, "extra pattern-rule files to load")
	patternsCmd.AddCommand(patternsCheckCmd)
}

func runPatterns(cmd *cobra.Command, args []string) error {
	rules, err := cmd.Flags().GetStringSlice("rules")
	if err != nil {
		return fmt.Errorf("failed to get rules flag: %w", err)
	}

	cat, err := settings.BuildCatalog()
	if err != nil {
		return err
	}
	for _, path := range rules {
		if _, err := cat.LoadRules(path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	writePatternTable(cmd.OutOrStdout(), cat.All())
	return nil
}

// runPatternsCheck reports every problem of every file, unlike LoadRules
// which stops at the first one
func runPatternsCheck(cmd *cobra.Command, args []string) error {
	base, err := settings.BuildCatalog()
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	failed := 0
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read pattern rules: %w", err)
		}
		reporter := errors.NewErrorReporter(path, string(src))

		file, err := grammar.ParseString(path, string(src))
		if err != nil {
			fmt.Fprint(stderr, reporter.FormatError(errors.RuleSyntax(path, err)))
			failed++
			continue
		}
		entries, ruleErrs := base.Compile(file)
		for _, re := range ruleErrs {
			fmt.Fprint(stderr, reporter.FormatError(errors.FromRuleError(re)))
		}
		if len(ruleErrs) > 0 {
			failed++
			continue
		}
		color.New(color.FgGreen).Fprintf(stderr, "%s: %d rule(s) ok\n", path, len(entries))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pattern file(s) have errors", failed, len(args))
	}
	return nil
}

var patternColumns = []string{"NAME", "FRONT", "NATIVE", "TARGET", "RESULT"}

// writePatternTable prints entries in aligned columns. Widths are measured
// in terminal cells so that non-ASCII names line up.
func writePatternTable(w io.Writer, entries []catalog.Entry) {
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, patternColumns)
	for _, e := range entries {
		rows = append(rows, []string{e.Name, e.FrontCallee, e.NativeCallee, e.TargetCallee, e.Result.String()})
	}

	widths := make([]int, len(patternColumns))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	bold := color.New(color.Bold).SprintFunc()
	for r, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			if i > 0 {
				line.WriteString("  ")
			}
			if i < len(row)-1 {
				cell = runewidth.FillRight(cell, widths[i])
			}
			line.WriteString(cell)
		}
		text := line.String()
		if r == 0 {
			text = bold(text)
		}
		fmt.Fprintln(w, text)
	}
}
