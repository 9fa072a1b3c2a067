package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hyperjump/hairmatch/internal/config"
	"github.com/hyperjump/hairmatch/internal/session"
)

// statusResponse is printed by the status command.
type statusResponse struct {
	Strategy       string `json:"strategy"`
	Products       int    `json:"products"`
	SearchDocs     uint64 `json:"search_docs"`
	Sessions       int64  `json:"sessions"`
	SessionBackend string `json:"session_backend"`
	LLMEnabled     bool   `json:"llm_enabled"`
	LLMModel       string `json:"llm_model,omitempty"`
	DiskUsageBytes *int64 `json:"disk_usage_bytes,omitempty"`
	ConfigPath     string `json:"config_path,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("format", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	cfg, resolved, logger := setup(*configPath, false)
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	status, err := collectStatus(context.Background(), cfg, components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	status.ConfigPath = resolved

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		writeStatusText(os.Stdout, status)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func collectStatus(ctx context.Context, cfg *config.Config, c *Components) (*statusResponse, error) {
	status := &statusResponse{
		Strategy:       c.Engine.Strategy(),
		Products:       c.Catalog.Len(),
		SessionBackend: cfg.Session.Backend,
		LLMEnabled:     c.LLM != nil,
	}
	if c.LLM != nil {
		status.LLMModel = c.LLM.Model()
	}
	docs, err := c.Search.DocCount()
	if err != nil {
		return nil, fmt.Errorf("count search docs: %w", err)
	}
	status.SearchDocs = docs
	if c.Sessions != nil {
		n, err := c.Sessions.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count sessions: %w", err)
		}
		status.Sessions = n
	}

	paths := []string{cfg.Catalog.SearchIndexPath}
	if cfg.Session.Backend == session.BackendSQLite {
		paths = append(paths, cfg.Session.Path)
	}
	if n, err := diskUsageBytes(paths...); err == nil && n > 0 {
		status.DiskUsageBytes = &n
	}
	return status, nil
}

func writeStatusText(w io.Writer, s *statusResponse) {
	fmt.Fprintf(w, "strategy:           %s\n", s.Strategy)
	fmt.Fprintf(w, "products:           %d   # catalog size\n", s.Products)
	fmt.Fprintf(w, "search_docs:        %d   # products in the search index\n", s.SearchDocs)
	fmt.Fprintf(w, "sessions:           %d   # stored diagnosis sessions\n", s.Sessions)
	fmt.Fprintf(w, "session_backend:    %s\n", s.SessionBackend)
	fmt.Fprintf(w, "llm_enabled:        %t\n", s.LLMEnabled)
	if s.LLMModel != "" {
		fmt.Fprintf(w, "llm_model:          %s\n", s.LLMModel)
	}
	if s.DiskUsageBytes != nil {
		fmt.Fprintf(w, "disk_usage_bytes:   %d   # session db + search index on disk\n", *s.DiskUsageBytes)
	}
	if s.ConfigPath != "" {
		fmt.Fprintf(w, "config_path:        %s\n", s.ConfigPath)
	}
}

// diskUsageBytes returns the total size of the given files and directories.
// Empty and missing paths contribute 0.
func diskUsageBytes(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		err := filepath.Walk(p, func(_ string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() {
				total += info.Size()
			}
			return nil
		})
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}
