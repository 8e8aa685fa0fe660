package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/mvp-joe/exportgen/internal/generator"
	"github.com/mvp-joe/exportgen/internal/watcher"
	"github.com/spf13/cobra"
)

// watchCmd regenerates manifests whenever a model source changes.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate manifests when model sources change",
	Long: `Watch generates every manifest once, then watches the configured model
sources and regenerates all manifests after each burst of changes.

Press Ctrl+C to stop.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	return executeWatch(ctx, cmd.OutOrStdout(), generateOptions{root: rootDir, configFile: cfgFile})
}

// executeWatch blocks until ctx is cancelled. Generation failures are reported
// and watching continues, since the next edit may fix them.
func executeWatch(ctx context.Context, out io.Writer, opts generateOptions) error {
	root, cfg, err := loadProject(opts.root, opts.configFile)
	if err != nil {
		return err
	}

	gen := generator.New(cfg, root, out)
	if _, err := runOnce(ctx, gen, out, generator.Options{}); err != nil {
		log.Printf("initial generation: %v", err)
	}

	debounce := time.Duration(cfg.DebounceMS) * time.Millisecond
	w, err := watcher.NewSourceWatcher(gen.SourcePaths(), debounce)
	if err != nil {
		return fmt.Errorf("failed to watch sources: %w", err)
	}
	defer w.Stop()

	err = w.Start(ctx, func(files []string) {
		rel := make([]string, 0, len(files))
		for _, f := range files {
			if r, err := filepath.Rel(root, f); err == nil {
				f = r
			}
			rel = append(rel, f)
		}
		fmt.Fprintf(out, "\nChange detected: %s\n", strings.Join(rel, ", "))

		if _, err := runOnce(ctx, gen, out, generator.Options{}); err != nil {
			log.Printf("regeneration: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Fprintf(out, "\nWatching %d sources for changes (Ctrl+C to stop)\n", len(gen.SourcePaths()))
	<-ctx.Done()
	return nil
}
