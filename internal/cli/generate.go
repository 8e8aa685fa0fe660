package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mvp-joe/exportgen/internal/config"
	"github.com/mvp-joe/exportgen/internal/generator"
	"github.com/spf13/cobra"
)

var (
	checkFlag   bool
	moduleFlags []string
)

// generateOptions carries the flag values of one invocation.
type generateOptions struct {
	root       string
	configFile string
	check      bool
	modules    []string
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts := generateOptions{
		root:       rootDir,
		configFile: cfgFile,
		check:      checkFlag,
		modules:    moduleFlags,
	}
	_, err := executeGenerate(cmd.Context(), cmd.OutOrStdout(), opts)
	return err
}

// executeGenerate loads configuration and runs one generation pass, printing
// progress to out. Every selected module is attempted; the returned error
// summarizes the modules that failed.
func executeGenerate(ctx context.Context, out io.Writer, opts generateOptions) (*generator.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	root, cfg, err := loadProject(opts.root, opts.configFile)
	if err != nil {
		return nil, err
	}

	gen := generator.New(cfg, root, out)
	return runOnce(ctx, gen, out, generator.Options{Check: opts.check, Modules: opts.modules})
}

// runOnce runs the generator and prints the summary line.
func runOnce(ctx context.Context, gen *generator.Generator, out io.Writer, opts generator.Options) (*generator.Report, error) {
	report, err := gen.Run(ctx, opts)
	if err != nil {
		return report, err
	}

	failed := report.Count(generator.StatusFailed)
	stale := report.Count(generator.StatusStale)

	switch {
	case failed > 0:
		fmt.Fprintf(out, "\n✗ %d of %d manifests failed\n", failed, len(report.Results))
	case stale > 0:
		fmt.Fprintf(out, "\n✗ %d manifests are out of date, run exportgen to regenerate\n", stale)
	case opts.Check:
		fmt.Fprintln(out, "\n✓ All manifests are up to date")
	default:
		fmt.Fprintf(out, "\n✓ Successfully generated %d manifests!\n", report.Count(generator.StatusGenerated))
	}
	if warnings := report.Warnings(); len(warnings) > 0 {
		fmt.Fprintf(out, "  %d warning(s), see above\n", len(warnings))
	}

	if err := report.Err(); err != nil {
		return report, fmt.Errorf("generation failed: %w", err)
	}
	return report, nil
}

// loadProject resolves the project root and loads its configuration.
func loadProject(root, configFile string) (string, *config.Config, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}

	var loaderOpts []config.LoaderOption
	if configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(configFile))
	}

	cfg, err := config.NewLoader(root, loaderOpts...).Load()
	if err != nil {
		return "", nil, fmt.Errorf("failed to load config: %w", err)
	}

	return root, cfg, nil
}
