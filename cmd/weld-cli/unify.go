package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"weld/internal/catalog"
	"weld/internal/emit"
	"weld/internal/errors"
	"weld/internal/hir"
	"weld/internal/irio"
	"weld/internal/unify"
)

var unifyCmd = &cobra.Command{
	Use:   "unify [flags] <front.yaml> <native.yaml> [<front.yaml> <native.yaml>...]",
	Short: "Unify pairs of front and native IR documents",
	Long: `Unify decodes each front document together with the native document that
implements it, unifies the pair, runs the optimisation pipeline over all
resulting modules and prints them.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || len(args)%2 != 0 {
			return fmt.Errorf("expected pairs of front and native documents, got %d argument(s)", len(args))
		}
		return nil
	},
	RunE: runUnify,
}

func init() {
	unifyCmd.Flags().StringSlice("passes", nil, "optimisation passes to run, in order (overrides [pipeline].passes)")
	unifyCmd.Flags().Int("jobs", 0, "modules optimised in parallel (0 = one per CPU)")
	unifyCmd.Flags().StringSlice("rules", nil, "extra pattern-rule files (added to [catalog].rules)")
	unifyCmd.Flags().String("output", "rust", "what to print (rust|ir|none)")
	unifyCmd.Flags().String("snapshot-dir", "", "also write each unified module as <dir>/<module>.weld")
	unifyCmd.Flags().Bool("warnings-as-errors", false, "fail when unification reports warnings")
}

// unit is one decoded document pair and what became of it
type unit struct {
	frontPath string
	session   string
	module    *hir.UnifiedModule
}

var errUnifyFailed = stderrors.New("unification failed")

func runUnify(cmd *cobra.Command, args []string) error {
	start := time.Now()
	cfg := settings

	if cmd.Flags().Changed("passes") {
		passes, err := cmd.Flags().GetStringSlice("passes")
		if err != nil {
			return fmt.Errorf("failed to get passes flag: %w", err)
		}
		cfg.Pipeline.Passes = passes
	}
	if cmd.Flags().Changed("jobs") {
		jobs, err := cmd.Flags().GetInt("jobs")
		if err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
		cfg.Pipeline.Jobs = jobs
	}
	rules, err := cmd.Flags().GetStringSlice("rules")
	if err != nil {
		return fmt.Errorf("failed to get rules flag: %w", err)
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	if output != "rust" && output != "ir" && output != "none" {
		return fmt.Errorf("unknown output %q (want rust, ir or none)", output)
	}
	snapshotDir, err := cmd.Flags().GetString("snapshot-dir")
	if err != nil {
		return fmt.Errorf("failed to get snapshot-dir flag: %w", err)
	}
	strict, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}

	cat, err := cfg.BuildCatalog()
	if err != nil {
		return err
	}
	for _, path := range rules {
		if _, err := cat.LoadRules(path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	pipeline, err := cfg.BuildPipeline()
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	var units []unit
	warnings := 0
	for i := 0; i < len(args); i += 2 {
		u, n, err := unifyPair(cmd, cat, args[i], args[i+1])
		if err != nil {
			return err
		}
		warnings += n
		units = append(units, u)
	}
	if strict && warnings > 0 {
		color.New(color.FgRed).Fprintf(stderr, "%d warning(s) treated as errors\n", warnings)
		return errUnifyFailed
	}

	trees := make([]hir.UnifiedNode, len(units))
	for i, u := range units {
		trees[i] = u.module
	}
	optimized, err := pipeline.RunAll(cmd.Context(), trees, cfg.Pipeline.Jobs)
	if err != nil {
		return fmt.Errorf("optimisation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	rust := emit.NewRust()
	for i, tree := range optimized {
		mod := tree.(*hir.UnifiedModule)
		units[i].module = mod

		if len(optimized) > 1 && output != "none" {
			fmt.Fprintf(out, "// %s\n", mod.Name)
		}
		switch output {
		case "rust":
			text, err := rust.Emit(mod)
			if err != nil {
				return fmt.Errorf("%s: %w", units[i].frontPath, err)
			}
			fmt.Fprint(out, text)
		case "ir":
			fmt.Fprint(out, hir.PrintUnified(mod))
		}

		if snapshotDir != "" {
			path := filepath.Join(snapshotDir, mod.Name+".weld")
			if err := irio.WriteSnapshot(path, units[i].session, mod); err != nil {
				return err
			}
			fmt.Fprintf(stderr, "wrote %s\n", path)
		}
	}

	color.New(color.FgGreen).Fprintf(stderr, "Unified %d module(s) with %d warning(s) in %s\n",
		len(units), warnings, formatDuration(time.Since(start)))
	return nil
}

// unifyPair decodes and unifies one front/native pair, printing its
// diagnostics. It returns the number of warnings reported.
func unifyPair(cmd *cobra.Command, cat *catalog.Catalog, frontPath, nativePath string) (unit, int, error) {
	dec := irio.NewDecoder(nil)
	front, err := dec.LoadFront(frontPath)
	if err != nil {
		return unit{}, 0, err
	}
	tu, err := dec.LoadNative(nativePath)
	if err != nil {
		return unit{}, 0, err
	}

	stderr := cmd.ErrOrStderr()
	u := unify.New(cat)
	mod, err := u.UnifyModule(front, tu)
	if err != nil {
		var ue *errors.UnificationError
		if stderrors.As(err, &ue) {
			fmt.Fprint(stderr, report(ue.ToCompilerError(), frontPath))
			return unit{}, 0, errUnifyFailed
		}
		return unit{}, 0, fmt.Errorf("%s: %w", frontPath, err)
	}

	for _, w := range u.Warnings() {
		fmt.Fprint(stderr, report(w, frontPath))
	}
	return unit{frontPath: frontPath, session: u.Session(), module: mod}, len(u.Warnings()), nil
}

// report formats d. The source file named by its position is looked up next
// to the IR document for context lines; without it only the location is shown.
func report(d errors.CompilerError, docPath string) string {
	name := d.Position.Filename
	if name == "" {
		name = docPath
	}
	var source string
	if d.Position.Filename != "" {
		candidate := d.Position.Filename
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(filepath.Dir(docPath), candidate)
		}
		if data, err := os.ReadFile(candidate); err == nil {
			source = strings.TrimSuffix(string(data), "\n")
		}
	}
	return errors.NewErrorReporter(name, source).FormatError(d)
}
