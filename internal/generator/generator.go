package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/mvp-joe/exportgen/internal/config"
	"github.com/mvp-joe/exportgen/internal/exports"
)

// Options controls one generation run.
type Options struct {
	// Check compares manifests with their targets instead of writing them.
	Check bool

	// Modules restricts the run to modules matching any of these glob
	// selectors (e.g. "search", "j*"). Empty means every module.
	Modules []string
}

// Generator runs Extract → Filter → Emit for every configured module.
// Modules are processed sequentially and independently: a failure in one
// module is recorded and the next module is still attempted.
type Generator struct {
	cfg        *config.Config
	rootDir    string
	out        io.Writer
	extractors map[string]exports.Extractor
}

// New creates a generator. Relative paths in cfg resolve against rootDir;
// console lines are written to out.
func New(cfg *config.Config, rootDir string, out io.Writer) *Generator {
	if out == nil {
		out = io.Discard
	}
	return &Generator{
		cfg:     cfg,
		rootDir: rootDir,
		out:     out,
		extractors: map[string]exports.Extractor{
			config.FormatPython:     exports.NewPythonExtractor(),
			config.FormatTypeScript: exports.NewTypeScriptExtractor(),
		},
	}
}

// Run generates every selected module and then every index whose modules all
// succeeded. The returned error is only for invalid options; per-module
// failures are in the report (see Report.Err).
func (g *Generator) Run(ctx context.Context, opts Options) (*Report, error) {
	selected, err := g.selectModules(opts.Modules)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	manifests := make(map[string]exports.Manifest)

	for _, m := range selected {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res, manifest := g.runModule(ctx, m, opts.Check)
		report.add(res)
		if res.Status != StatusFailed && res.Status != StatusSkipped {
			manifests[m.Name] = manifest
		}
	}

	for _, idx := range g.cfg.Indexes {
		if !indexSelected(idx, selected) {
			continue
		}
		report.add(g.runIndex(idx, manifests, opts.Check))
	}

	return report, nil
}

// selectModules returns the configured modules matching any selector, in
// configuration order.
func (g *Generator) selectModules(selectors []string) ([]config.ModuleConfig, error) {
	if len(selectors) == 0 {
		return g.cfg.Modules, nil
	}

	matchers := make([]glob.Glob, 0, len(selectors))
	for _, s := range selectors {
		m, err := glob.Compile(s)
		if err != nil {
			return nil, fmt.Errorf("invalid module selector %q: %w", s, err)
		}
		matchers = append(matchers, m)
	}

	var selected []config.ModuleConfig
	for _, m := range g.cfg.Modules {
		for _, matcher := range matchers {
			if matcher.Match(m.Name) {
				selected = append(selected, m)
				break
			}
		}
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("no module matches %s (configured: %s)",
			strings.Join(selectors, ", "), strings.Join(g.cfg.ModuleNames(), ", "))
	}
	return selected, nil
}

func indexSelected(idx config.IndexConfig, selected []config.ModuleConfig) bool {
	names := make(map[string]bool, len(selected))
	for _, m := range selected {
		names[m.Name] = true
	}
	for _, name := range idx.Modules {
		if !names[name] {
			return false
		}
	}
	return true
}

// runModule processes one module. The manifest is only meaningful when the
// result is neither failed nor skipped.
func (g *Generator) runModule(ctx context.Context, m config.ModuleConfig, check bool) (Result, exports.Manifest) {
	source := g.resolve(m.Source)
	target := g.resolve(m.Target)
	res := Result{Module: m.Name, Source: source, Target: target}

	if _, err := os.Stat(source); errors.Is(err, fs.ErrNotExist) {
		res.Status = StatusSkipped
		res.Err = &MissingSourceError{Module: m.Name, Path: source}
		fmt.Fprintf(g.out, "Warning: %s not found\n", source)
		return res, exports.Manifest{}
	}

	fmt.Fprintf(g.out, "Processing %s module...\n", m.Name)

	data, err := os.ReadFile(source)
	if err != nil {
		return g.fail(res, &SourceError{Module: m.Name, Path: source, Err: err}), exports.Manifest{}
	}

	extractor := g.extractors[m.FormatOrDefault()]
	extraction, err := extractor.Extract(ctx, data)
	if err != nil {
		return g.fail(res, &SourceError{Module: m.Name, Path: source, Err: err}), exports.Manifest{}
	}

	symbols := exports.Filter(extraction.Names, exports.NewBoundaryPolicy(m.Exclude))
	log.Printf("%s: %d exported declarations, %d excluded by boundary policy",
		m.Name, len(extraction.Names), len(extraction.Names)-len(symbols))

	manifest := exports.Manifest{
		Module:     m.Name,
		SchemaPath: m.SchemaPathOrDefault(),
		Symbols:    symbols,
	}

	var rendered []byte
	switch m.FormatOrDefault() {
	case config.FormatTypeScript:
		manifest.ImportPath = m.ImportPath
		if manifest.ImportPath == "" {
			manifest.ImportPath = relativeImport(target, source)
		}
		rendered = exports.RenderTypeScript(manifest)
	default:
		manifest.ImportPath = m.PythonImportPath(g.cfg.Package)
		rendered = exports.RenderPython(manifest)
	}

	res.Symbols = symbols
	g.emit(&res, rendered, check)
	return res, manifest
}

// runIndex renders an index from the manifests produced earlier in the run.
func (g *Generator) runIndex(idx config.IndexConfig, manifests map[string]exports.Manifest, check bool) Result {
	target := g.resolve(idx.Target)
	res := Result{Module: idx.Target, Index: true, Target: target}

	index := exports.Index{
		Title:   idx.Title,
		Renames: make(map[string]string, len(idx.Renames)),
	}
	if index.Title == "" {
		index.Title = humanize(g.cfg.Package)
	}
	for _, r := range idx.Renames {
		index.Renames[r.From] = r.To
	}

	for _, name := range idx.Modules {
		manifest, ok := manifests[name]
		if !ok {
			res.Status = StatusSkipped
			res.Err = &SkippedIndexError{Index: idx.Target, Module: name}
			fmt.Fprintf(g.out, "Warning: skipping %s, module %s was not generated\n", target, name)
			return res
		}

		modCfg, _ := g.cfg.Module(name)
		if modCfg.ImportPath == "" {
			manifest.ImportPath = relativeImport(target, g.resolve(modCfg.Source))
		}
		index.Modules = append(index.Modules, manifest)
		res.Symbols = append(res.Symbols, manifest.Symbols...)
	}

	g.emit(&res, exports.RenderIndex(index), check)
	return res
}

// emit writes rendered to the result's target, or compares it in check mode.
func (g *Generator) emit(res *Result, rendered []byte, check bool) {
	if check {
		same, exists, err := upToDate(res.Target, rendered)
		switch {
		case err != nil:
			*res = g.fail(*res, &WriteError{Module: res.Module, Path: res.Target, Err: err})
		case same:
			res.Status = StatusUpToDate
			fmt.Fprintf(g.out, "✓ %s is up to date (%d symbols)\n", res.Target, len(res.Symbols))
		default:
			res.Status = StatusStale
			res.Err = &StaleError{Module: res.Module, Path: res.Target, Absent: !exists}
			fmt.Fprintf(g.out, "✗ %s: %v\n", res.Module, res.Err)
		}
		return
	}

	if err := writeAtomic(res.Target, rendered); err != nil {
		*res = g.fail(*res, &WriteError{Module: res.Module, Path: res.Target, Err: err})
		return
	}

	res.Status = StatusGenerated
	fmt.Fprintf(g.out, "✓ Generated %s with %d symbols\n", res.Target, len(res.Symbols))
}

func (g *Generator) fail(res Result, err error) Result {
	res.Status = StatusFailed
	res.Err = err
	fmt.Fprintf(g.out, "✗ %s: %v\n", res.Module, err)
	if IsParseError(err) {
		log.Printf("%s: source has syntax errors, leaving %s unchanged", res.Module, res.Target)
	}
	return res
}

// resolve makes p absolute against the project root.
func (g *Generator) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(g.rootDir, p)
}

// SourcePaths returns the resolved source path of every configured module.
func (g *Generator) SourcePaths() []string {
	paths := make([]string, 0, len(g.cfg.Modules))
	for _, m := range g.cfg.Modules {
		paths = append(paths, g.resolve(m.Source))
	}
	return paths
}

// relativeImport returns the TypeScript import specifier for source as seen
// from target, e.g. "../search" for target src/search.ts and source search.ts.
func relativeImport(target, source string) string {
	rel, err := filepath.Rel(filepath.Dir(target), source)
	if err != nil {
		rel = source
	}
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, ".d.ts")
	rel = strings.TrimSuffix(rel, ".ts")
	if !strings.HasPrefix(rel, "../") && !strings.HasPrefix(rel, "./") && !strings.HasPrefix(rel, "/") {
		rel = "./" + rel
	}
	return rel
}

// humanize turns a package name such as "jobs_data_contracts" into "Jobs Data Contracts".
func humanize(pkg string) string {
	words := strings.FieldsFunc(pkg, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for i, w := range words {
		words[i] = exports.Title(w)
	}
	return strings.Join(words, " ")
}
