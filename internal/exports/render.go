package exports

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// namespacedExports are the top-level interfaces emitted by openapi-typescript.
var namespacedExports = []string{"paths", "webhooks", "components", "operations", "$defs"}

// Title capitalizes a module name the way the docstrings expect: first rune
// upper case, remaining runes lower case.
func Title(module string) string {
	r, size := utf8.DecodeRuneInString(module)
	if r == utf8.RuneError {
		return module
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(module[size:])
}

// RenderPython renders a package __init__.py re-exporting the manifest symbols.
// The output depends only on m, so identical manifests render identical bytes.
func RenderPython(m Manifest) []byte {
	title := Title(m.Module)

	var b strings.Builder
	b.WriteString("\"\"\"\n")
	fmt.Fprintf(&b, "%s API module - Pydantic models for %s API\n", title, title)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Generated from %s\n", m.SchemaPath)
	b.WriteString("\"\"\"\n\n")

	// "from x import ()" is a syntax error, so an empty manifest has no import.
	if len(m.Symbols) == 0 {
		b.WriteString("__all__ = []\n")
		return []byte(b.String())
	}

	fmt.Fprintf(&b, "from %s import (\n", m.ImportPath)
	for _, sym := range m.Symbols {
		fmt.Fprintf(&b, "    %s,\n", sym)
	}
	b.WriteString(")\n\n")

	b.WriteString("__all__ = [\n")
	for _, sym := range m.Symbols {
		fmt.Fprintf(&b, "    %q,\n", sym)
	}
	b.WriteString("]\n")

	return []byte(b.String())
}

// RenderTypeScript renders a re-export module for one openapi-typescript file.
func RenderTypeScript(m Manifest) []byte {
	title := Title(m.Module)

	var b strings.Builder
	b.WriteString("/**\n")
	fmt.Fprintf(&b, " * %s API TypeScript types\n", title)
	b.WriteString(" * Auto-generated from OpenAPI schema - do not edit manually\n")
	b.WriteString(" */\n\n")

	writeNamespacedExports(&b, title, m.ImportPath)
	b.WriteString("\n")
	fmt.Fprintf(&b, "export type { %s } from '%s';\n", strings.Join(namespacedExports, ", "), m.ImportPath)

	if len(m.Symbols) > 0 {
		b.WriteString("\n// Re-export commonly used schema types for convenience\n")
		fmt.Fprintf(&b, "import type { components } from '%s';\n\n", m.ImportPath)
		for _, sym := range m.Symbols {
			writeAlias(&b, sym, "components", sym)
		}
	}

	return []byte(b.String())
}

// Index aggregates several TypeScript manifests into one entry point.
type Index struct {
	Title   string            // package title for the header comment
	Modules []Manifest        // in priority order: earlier modules own shared names
	Renames map[string]string // schema name -> exported alias
}

// RenderIndex renders the aggregated index. A schema exported by an earlier
// module is skipped for later ones; renames only change the alias name.
func RenderIndex(idx Index) []byte {
	var b strings.Builder
	b.WriteString("/**\n")
	fmt.Fprintf(&b, " * %s\n", idx.Title)
	b.WriteString(" * TypeScript types generated from OpenAPI schemas\n")
	b.WriteString(" *\n")
	b.WriteString(" * @packageDocumentation\n")
	b.WriteString(" */\n")

	for _, m := range idx.Modules {
		title := Title(m.Module)
		fmt.Fprintf(&b, "\n// Re-export %s API with namespaced exports\n", title)
		writeNamespacedExports(&b, title, m.ImportPath)
	}

	if len(idx.Modules) > 0 {
		b.WriteString("\n// Export commonly used types at the top level for convenience\n")
	}
	for _, m := range idx.Modules {
		fmt.Fprintf(&b, "import type { components as %sSchemas } from '%s';\n", Title(m.Module), m.ImportPath)
	}

	seen := make(map[string]bool)
	for _, m := range idx.Modules {
		title := Title(m.Module)
		fmt.Fprintf(&b, "\n// %s API types\n", title)
		for _, sym := range m.Symbols {
			if seen[sym] {
				continue
			}
			seen[sym] = true

			alias := sym
			if renamed, ok := idx.Renames[sym]; ok {
				alias = renamed
			}
			writeAlias(&b, alias, title+"Schemas", sym)
		}
	}

	return []byte(b.String())
}

func writeNamespacedExports(b *strings.Builder, title, from string) {
	b.WriteString("export {\n")
	for i, name := range namespacedExports {
		sep := ","
		if i == len(namespacedExports)-1 {
			sep = ""
		}
		fmt.Fprintf(b, "  %s as %s%s%s\n", name, title, Title(name), sep)
	}
	fmt.Fprintf(b, "} from '%s';\n", from)
}

func writeAlias(b *strings.Builder, alias, namespace, schema string) {
	fmt.Fprintf(b, "export type %s = %s['schemas']['%s'];\n", alias, namespace, schema)
}
