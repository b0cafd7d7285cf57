// Package main implements the recaf-mcp-sub000 entry point: a thin CLI
// wrapping config load, engine wiring, and a line-oriented request/response
// harness over stdin/stdout. The real MCP-style RPC transport, tool
// metadata wire format, and decompiler/assembler/script-execution
// backends are external collaborators this binary only exposes
// ops.Adapters hooks for.
//
// # File Index
//
//   - main.go  - entry point, rootCmd, global flags, init()
//   - serve.go - serveCmd, runServe(), the stdin/stdout dispatch loop
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tha23rd/recaf-mcp-sub000/internal/logging"
)

var (
	verbose     bool
	configPath  string
	primaryName string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "recaf-mcp",
	Short: "recaf-mcp-sub000 - JVM bytecode analysis operation server",
	Long: `recaf-mcp-sub000 exposes navigation, decompile, search, xref,
call-graph, inheritance, mapping, and transform operations over one
in-memory bytecode workspace, dispatched through a single typed
operation registry.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file (defaults applied when omitted)")
	rootCmd.PersistentFlags().StringVarP(&primaryName, "workspace", "w", "primary", "Primary resource name for the opened workspace")

	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
