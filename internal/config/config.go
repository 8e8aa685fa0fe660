// Package config provides configuration loading for exportgen.
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Environment variables (EXPORTGEN_*)
//  2. Project config (.exportgen/config.yml, or the file given by --config)
//  3. Built-in defaults (the search and jobs modules)
//
// Only scalar settings (package, debounce_ms) are bound to environment
// variables; the module and index tables come from the file or defaults.
package config

import (
	"path"
	"strings"
)

// Manifest formats.
const (
	FormatPython     = "python"
	FormatTypeScript = "typescript"
)

// Config represents the complete exportgen configuration.
// It can be loaded from .exportgen/config.yml with environment variable overrides.
type Config struct {
	Package    string         `yaml:"package" mapstructure:"package"`         // top-level python package, e.g. "jobs_data_contracts"
	DebounceMS int            `yaml:"debounce_ms" mapstructure:"debounce_ms"` // quiet period for watch mode
	Modules    []ModuleConfig `yaml:"modules" mapstructure:"modules"`
	Indexes    []IndexConfig  `yaml:"indexes" mapstructure:"indexes"`
}

// ModuleConfig maps one module to its source file, manifest file and boundary policy.
// Paths are relative to the project root unless absolute.
type ModuleConfig struct {
	Name       string   `yaml:"name" mapstructure:"name"`
	Source     string   `yaml:"source" mapstructure:"source"`
	Target     string   `yaml:"target" mapstructure:"target"`
	Format     string   `yaml:"format" mapstructure:"format"`           // "python" (default) or "typescript"
	Exclude    []string `yaml:"exclude" mapstructure:"exclude"`         // names owned by a sibling module
	ImportPath string   `yaml:"import_path" mapstructure:"import_path"` // overrides the derived import path
	SchemaPath string   `yaml:"schema_path" mapstructure:"schema_path"` // overrides schemas/<name>/openapi.yaml
}

// IndexConfig aggregates TypeScript modules into one index file.
type IndexConfig struct {
	Target  string   `yaml:"target" mapstructure:"target"`
	Title   string   `yaml:"title" mapstructure:"title"`
	Modules []string `yaml:"modules" mapstructure:"modules"` // earlier modules own shared schema names
	Renames []Rename `yaml:"renames" mapstructure:"renames"`
}

// Rename exports schema From under the alias To in an index.
type Rename struct {
	From string `yaml:"from" mapstructure:"from"`
	To   string `yaml:"to" mapstructure:"to"`
}

// searchOwnedByJobs lists the Jobs-only types that also appear in the shared
// search models. Singular FixedLocation/OverseasLocation are the search
// versions and stay exported.
var searchOwnedByJobs = []string{
	"Job",
	"JobCreate",
	"JobUpdate",
	"JobSummary",
	"Contacts",
	"JobAttachment",
	"DCStatus",
	"FixedLocations",
	"OverseasLocations",
	"Location",
	"Location1",
	"Location2",
	"Location3",
	"Location4",
	"Location5",
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Package:    "jobs_data_contracts",
		DebounceMS: 500,
		Modules: []ModuleConfig{
			{
				Name:    "search",
				Source:  "generated/python/search/models.py",
				Target:  "generated/python/search/__init__.py",
				Format:  FormatPython,
				Exclude: append([]string(nil), searchOwnedByJobs...),
			},
			{
				Name:    "jobs",
				Source:  "generated/python/jobs/models.py",
				Target:  "generated/python/jobs/__init__.py",
				Format:  FormatPython,
				Exclude: []string{},
			},
		},
		Indexes: []IndexConfig{},
	}
}

// Module returns the module named name.
func (c *Config) Module(name string) (ModuleConfig, bool) {
	for _, m := range c.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return ModuleConfig{}, false
}

// ModuleNames returns configured module names in configuration order.
func (c *Config) ModuleNames() []string {
	names := make([]string, 0, len(c.Modules))
	for _, m := range c.Modules {
		names = append(names, m.Name)
	}
	return names
}

// FormatOrDefault returns the module format, defaulting to python.
func (m ModuleConfig) FormatOrDefault() string {
	if m.Format == "" {
		return FormatPython
	}
	return strings.ToLower(m.Format)
}

// PythonImportPath returns the dotted module path re-exported by a python manifest.
// Example: package "jobs_data_contracts", module "search" -> "jobs_data_contracts.search.models"
func (m ModuleConfig) PythonImportPath(pkg string) string {
	if m.ImportPath != "" {
		return m.ImportPath
	}
	if pkg == "" {
		return m.Name + ".models"
	}
	return pkg + "." + m.Name + ".models"
}

// SchemaPathOrDefault returns the schema referenced in the manifest header.
func (m ModuleConfig) SchemaPathOrDefault() string {
	if m.SchemaPath != "" {
		return m.SchemaPath
	}
	return path.Join("schemas", m.Name, "openapi.yaml")
}
