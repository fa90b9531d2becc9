// Command docsight-mcp serves outline extraction and persona analysis as MCP
// tools over stdio.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dgallion1/docsight/internal/config"
	"github.com/dgallion1/docsight/internal/parser"
	"github.com/dgallion1/docsight/internal/schema"
)

const (
	version    = "0.3.0"
	serverName = "docsight-mcp"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("%s version %s\n", serverName, version)
		os.Exit(0)
	}

	// stdout carries the protocol.
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg := config.Load()
	validator, err := schema.New()
	if err != nil {
		log.Error("compile schemas", "error", err)
		os.Exit(1)
	}

	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	ts := &toolset{
		loader:      &parser.FileLoader{Options: parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext}},
		validator:   validator,
		log:         log,
		concurrency: cfg.MaxConcurrentDecode,
	}
	ts.register(server)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting docsight-mcp", "version", version)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
