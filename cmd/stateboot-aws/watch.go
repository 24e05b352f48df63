package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// newWatchCmd creates the "watch" subcommand for auto-rebuilding on
// configuration changes.
func newWatchCmd() *cobra.Command {
	var (
		debounce     time.Duration
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "watch [config-file]",
		Short: "Auto-rebuild the plan on configuration changes",
		Long: `Watch monitors the configuration file and rebuilds the plan on change.

Rapid edits are debounced so a save storm triggers a single rebuild.

Examples:
    stateboot-aws watch stateboot.yaml -o plan.json
    stateboot-aws watch stateboot.yaml --debounce 1s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args[0], watchOptions{
				debounce:     debounce,
				outputFormat: outputFormat,
				outputFile:   outputFile,
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format for build: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for build (default: stdout)")

	return cmd
}

type watchOptions struct {
	debounce     time.Duration
	outputFormat string
	outputFile   string
}

// runWatch monitors the config file and rebuilds on changes.
func runWatch(configPath string, opts watchOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return err
	}

	// Watch the parent directory: editors replace files on save, which
	// drops a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}
	fmt.Printf("Watching: %s\n", absPath)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Initial build
	rebuild(absPath, opts)

	var debounceTimer *time.Timer
	rebuildChan := make(chan struct{}, 1)

	fmt.Println("\nWatching for changes... (Ctrl+C to stop)")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			eventPath, err := filepath.Abs(event.Name)
			if err != nil || eventPath != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// Debounce: reset timer on each change
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(opts.debounce, func() {
				select {
				case rebuildChan <- struct{}{}:
				default:
				}
			})

		case <-rebuildChan:
			fmt.Printf("\n[%s] Change detected, rebuilding...\n", time.Now().Format("15:04:05"))
			rebuild(absPath, opts)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)

		case <-sigChan:
			fmt.Println("\nStopping watch...")
			return nil
		}
	}
}

// rebuild runs a single build, reporting failures without stopping the
// watch loop.
func rebuild(configPath string, opts watchOptions) {
	if err := runBuild(configPath, opts.outputFormat, opts.outputFile); err != nil {
		log.Error().Err(err).Msg("rebuild failed")
	}
}
