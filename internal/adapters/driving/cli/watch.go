package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/parchment-labs/docask-cli/internal/core/services"
	"github.com/parchment-labs/docask-cli/internal/logger"
)

// settleDelay is how long a file must be quiet after its last write
// event before it is ingested. Editors and downloads write in bursts.
const settleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest new or changed files",
	Long: `Watches a directory and automatically ingests files as they are
created or modified. Runs until interrupted with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	warnMissingTools(cmd)

	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	queue := services.NewIngestQueue(p.ingest, 64)
	defer queue.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", dir)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	// pending collapses event bursts per file until the file settles.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if shouldIgnore(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < settleDelay {
					continue
				}
				delete(pending, path)
				enqueueFile(cmd, queue, path)
			}

		case <-interrupt:
			cmd.Println("\nStopping")
			return nil
		}
	}
}

// enqueueFile reads the file and hands it to the ingest queue, then
// reports the outcome.
func enqueueFile(cmd *cobra.Command, queue *services.IngestQueue, path string) {
	payload, err := os.ReadFile(path)
	if err != nil {
		// The file may have been removed between the event and now.
		if !errors.Is(err, os.ErrNotExist) {
			cmd.Printf("  ✗ %s: %v\n", path, err)
		}
		return
	}
	if len(payload) == 0 {
		return
	}

	id, err := queue.Enqueue(filepath.Base(path), payload)
	if err != nil {
		cmd.Printf("  ✗ %s: %v\n", path, err)
		return
	}
	job := queue.Wait(id)
	if job.Err != nil {
		cmd.Printf("  ✗ %s: %s\n", path, ingestErrorMessage(job.Err))
		return
	}
	cmd.Printf("  ✓ %s: %s, %d chunks\n", path, job.Report.KindName, job.Report.Chunks)
}

// shouldIgnore filters out editor temp files and hidden files.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if base == "" || base[0] == '.' {
		return true
	}
	switch filepath.Ext(base) {
	case ".tmp", ".swp", ".part":
		return true
	}
	return false
}
