package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tha23rd/recaf-mcp-sub000/internal/config"
	"github.com/tha23rd/recaf-mcp-sub000/internal/dispatch"
	"github.com/tha23rd/recaf-mcp-sub000/internal/logging"
	"github.com/tha23rd/recaf-mcp-sub000/internal/ops"
	"github.com/tha23rd/recaf-mcp-sub000/internal/workspace"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Open a workspace and dispatch newline-delimited JSON operation requests from stdin",
	Long: `serve reads one JSON object per line from stdin, each shaped as
{"operation": "<name>", "args": {...}}, dispatches it against the
registered operation set, and writes one JSON Response per line to
stdout. This is a minimal harness: the real MCP-style RPC transport is
an external collaborator this binary does not implement.`,
	RunE: runServe,
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		cfg := config.DefaultConfig()
		return cfg, nil
	}
	return config.Load(configPath)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	wd, _ := os.Getwd()
	if err := logging.Initialize(wd, cfg.Logging.DebugMode, cfg.Logging.Categories, cfg.Logging.Level, cfg.Logging.Format == "json"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
	}

	w := workspace.Open(resolvedPrimaryName())
	engine := ops.NewEngine(w, cfg, ops.Adapters{})

	d := dispatch.NewDispatcher()
	if err := engine.RegisterAll(d); err != nil {
		return fmt.Errorf("register operations: %w", err)
	}

	logging.Boot("recaf-mcp-sub000 serving %d operations over stdin/stdout", d.Count())
	return serveLoop(os.Stdin, os.Stdout, d)
}

func resolvedPrimaryName() string {
	if primaryName == "" {
		return "primary"
	}
	return primaryName
}

type request struct {
	Operation string         `json:"operation"`
	Args      map[string]any `json:"args"`
}

// serveLoop reads one JSON request per line from r, dispatches it, and
// writes one JSON dispatch.Response per line to w, until r is exhausted
// or a line fails to parse (which itself is reported as a response, not
// a fatal error, so one malformed line does not kill the session).
func serveLoop(r io.Reader, w io.Writer, d *dispatch.Dispatcher) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			if encErr := encoder.Encode(map[string]string{"error": fmt.Sprintf("invalid request: %v", err)}); encErr != nil {
				return encErr
			}
			continue
		}

		resp := d.Dispatch(context.Background(), req.Operation, req.Args)
		if err := encoder.Encode(resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}
