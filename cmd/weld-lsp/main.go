// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"weld/internal/config"
	"weld/internal/lsp"
)

const lsName = "weld-patterns"

var log = commonlog.GetLogger("weld.lsp.main")

var rootCmd = &cobra.Command{
	Use:          "weld-lsp",
	Short:        "Language server for weld pattern-rule files",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func main() {
	rootCmd.Flags().Int("verbosity", -1, "log verbosity (default: [log].verbosity from weld.toml)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	verbosity, err := cmd.Flags().GetInt("verbosity")
	if err != nil {
		return err
	}

	cfg := config.Default()
	if wd, err := os.Getwd(); err == nil {
		if found, _, err := config.Discover(wd); err == nil {
			cfg = found
		}
	}
	if verbosity >= 0 {
		cfg.Log.Verbosity = verbosity
	}
	commonlog.Configure(cfg.Log.Verbosity, nil)

	// rules are checked against the project's catalog so that conflicts
	// with rules loaded by weld.toml show up in the editor
	base, err := cfg.BuildCatalog()
	if err != nil {
		log.Warningf("using built-in patterns only: %s", err)
		base = nil
	}
	patterns := lsp.NewPatternsHandler(base)

	handler := protocol.Handler{
		Initialize:                     patterns.Initialize,
		Initialized:                    patterns.Initialized,
		Shutdown:                       patterns.Shutdown,
		SetTrace:                       patterns.SetTrace,
		TextDocumentDidOpen:            patterns.TextDocumentDidOpen,
		TextDocumentDidClose:           patterns.TextDocumentDidClose,
		TextDocumentDidChange:          patterns.TextDocumentDidChange,
		TextDocumentCompletion:         patterns.TextDocumentCompletion,
		TextDocumentSemanticTokensFull: patterns.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Info("starting weld pattern language server")

	if err := s.RunStdio(); err != nil {
		log.Errorf("language server stopped: %s", err)
		return err
	}
	return nil
}
