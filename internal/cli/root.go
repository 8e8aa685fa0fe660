package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	rootDir string
	verbose bool
)

// rootCmd generates the manifests when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "exportgen",
	Short: "Generate package export manifests for generated data models",
	Long: `exportgen inspects generated data-model sources, collects every public
model and enum type, removes types owned by a sibling module, and writes a
deterministic manifest declaring each module's public surface.

By default two modules are generated:
  search  generated/python/search/models.py -> generated/python/search/__init__.py
  jobs    generated/python/jobs/models.py   -> generated/python/jobs/__init__.py

The module table can be changed in .exportgen/config.yml.

Examples:
  # Regenerate every manifest
  exportgen

  # Fail if a committed manifest is out of date (CI)
  exportgen --check

  # Regenerate a single module
  exportgen --module search
`,
	SilenceUsage: true,
	RunE:         runGenerate,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <root>/.exportgen/config.yml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "C", "", "project root (default is the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.Flags().BoolVar(&checkFlag, "check", false, "verify manifests are up to date without writing them")
	rootCmd.Flags().StringSliceVarP(&moduleFlags, "module", "m", nil, "only generate modules matching this glob (repeatable)")
}

// initLogging routes diagnostic logging to stderr only in verbose mode.
func initLogging() {
	if verbose {
		log.SetOutput(os.Stderr)
		log.SetFlags(0)
		return
	}
	log.SetOutput(io.Discard)
}
