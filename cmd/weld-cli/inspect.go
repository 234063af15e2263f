package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"weld/internal/emit"
	"weld/internal/hir"
	"weld/internal/irio"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <module.weld>",
	Short: "Print a unified module snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().Bool("rust", false, "render the module as Rust instead of IR")
}

func runInspect(cmd *cobra.Command, args []string) error {
	asRust, err := cmd.Flags().GetBool("rust")
	if err != nil {
		return fmt.Errorf("failed to get rust flag: %w", err)
	}

	snap, err := irio.ReadSnapshot(args[0])
	if err != nil {
		return err
	}

	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintln(cmd.ErrOrStderr(), dim(fmt.Sprintf("module %s, session %s", snap.Module.Name, snap.Session)))

	out := cmd.OutOrStdout()
	if !asRust {
		fmt.Fprint(out, hir.PrintUnified(snap.Module))
		return nil
	}
	text, err := emit.NewRust().Emit(snap.Module)
	if err != nil {
		return err
	}
	fmt.Fprint(out, text)
	return nil
}
