package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/poiesic/vecseed"
	"github.com/poiesic/vecseed/core"
	"github.com/poiesic/vecseed/ingestion"
	"github.com/poiesic/vecseed/server"
	"github.com/urfave/cli/v2"
)

func serveCommand(c *cli.Context) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}
	seeder, err := vecseed.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open seeder: %w", err)
	}
	defer seeder.Close()

	handler, err := server.NewHandler(seeder.Bootstrapper())
	if err != nil {
		return err
	}
	srv, err := server.New(c.String("listen"), handler, slog.Default())
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}

func bootstrapCommand(c *cli.Context) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}

	progress := ingestion.NewProgressTracker(os.Stderr, c.Int("report-interval"))
	seeder, err := vecseed.Open(ctx, cfg, vecseed.WithProgress(progress))
	if err != nil {
		return fmt.Errorf("failed to open seeder: %w", err)
	}
	defer seeder.Close()

	fmt.Fprintf(os.Stderr, "Docs: %s\n", cfg.DocsPath)
	fmt.Fprintf(os.Stderr, "Index backend: %s\n", cfg.IndexBackend)
	fmt.Fprintf(os.Stderr, "Embedding provider: %s\n", cfg.AI.Provider)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	summary, err := seeder.Run(ctx, "")
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}
	printSummary(os.Stdout, summary)
	return nil
}

func statusCommand(c *cli.Context) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}
	seeder, err := vecseed.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open seeder: %w", err)
	}
	defer seeder.Close()

	status, err := seeder.Status(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to read index status: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Index: %s\nPopulated: %t\nVectors: %d\n", status.TargetIndex, status.Populated, status.Count)
	return nil
}

func triggerCommand(c *cli.Context) error {
	ctx, stop := signalContext()
	defer stop()

	if timeout := c.Duration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	summary, err := triggerBootstrap(ctx, http.DefaultClient, c.String("base-url"), c.String("target-index"))
	if err != nil {
		return err
	}
	printSummary(os.Stdout, summary)
	return nil
}

type triggerResponse struct {
	Success bool             `json:"success"`
	Summary *core.RunSummary `json:"summary"`
	Error   string           `json:"error"`
}

// triggerBootstrap posts to <baseURL>/api/ingest and decodes the summary.
func triggerBootstrap(ctx context.Context, client *http.Client, baseURL, targetIndex string) (*core.RunSummary, error) {
	body, err := json.Marshal(map[string]string{"targetIndex": targetIndex})
	if err != nil {
		return nil, err
	}
	url := strings.TrimSuffix(baseURL, "/") + "/api/ingest"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var out triggerResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unexpected response (%d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if resp.StatusCode != http.StatusOK || !out.Success {
		return nil, fmt.Errorf("bootstrap failed (%d): %s", resp.StatusCode, out.Error)
	}
	return out.Summary, nil
}

func printSummary(w io.Writer, s *core.RunSummary) {
	if s == nil {
		return
	}
	if s.AlreadyPopulated {
		fmt.Fprintf(w, "Index %s already populated, nothing to do\n", s.TargetIndex)
		return
	}
	fmt.Fprintf(w, "Index: %s\n", s.TargetIndex)
	fmt.Fprintf(w, "Documents: %d loaded, %d valid, %d dropped\n", s.Loaded, s.Valid, s.Dropped)
	fmt.Fprintf(w, "Chunks: %d (%d dropped)\n", s.Chunks, s.ChunksDropped)
	fmt.Fprintf(w, "Batches: %d (%d skipped)\n", len(s.Batches), s.Skipped)
	fmt.Fprintf(w, "Vectors upserted: %d\n", s.Upserted)
	fmt.Fprintf(w, "Duration: %s\n", s.Duration)
	for _, b := range s.Batches {
		if !b.Completed() {
			fmt.Fprintf(w, "  batch %d skipped: %s\n", b.Index+1, b.Reason)
		}
	}
}
