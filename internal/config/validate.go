package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyModules indicates that no module is configured
	ErrEmptyModules = errors.New("no modules configured")

	// ErrEmptyModuleName indicates a module without a name
	ErrEmptyModuleName = errors.New("empty module name")

	// ErrDuplicateModule indicates two modules sharing a name
	ErrDuplicateModule = errors.New("duplicate module")

	// ErrEmptyPath indicates a missing source or target path
	ErrEmptyPath = errors.New("empty path")

	// ErrInvalidFormat indicates an unsupported manifest format
	ErrInvalidFormat = errors.New("invalid manifest format")

	// ErrUnknownModule indicates an index referencing an unconfigured module
	ErrUnknownModule = errors.New("unknown module")

	// ErrInvalidRename indicates a rename with an empty side
	ErrInvalidRename = errors.New("invalid rename")

	// ErrInvalidDebounce indicates a negative watch debounce
	ErrInvalidDebounce = errors.New("invalid debounce")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidDebounce, cfg.DebounceMS))
	}

	if err := validateModules(cfg.Modules); err != nil {
		errs = append(errs, err)
	}

	for i := range cfg.Indexes {
		if err := validateIndex(cfg, &cfg.Indexes[i]); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateModules(modules []ModuleConfig) error {
	if len(modules) == 0 {
		return fmt.Errorf("%w: at least one module required", ErrEmptyModules)
	}

	var errs []error
	seen := make(map[string]bool)

	for i, m := range modules {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("%w: modules[%d]", ErrEmptyModuleName, i))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateModule, name))
		}
		seen[name] = true

		if strings.TrimSpace(m.Source) == "" {
			errs = append(errs, fmt.Errorf("%w: module %s has no source", ErrEmptyPath, name))
		}
		if strings.TrimSpace(m.Target) == "" {
			errs = append(errs, fmt.Errorf("%w: module %s has no target", ErrEmptyPath, name))
		}

		switch m.FormatOrDefault() {
		case FormatPython, FormatTypeScript:
		default:
			errs = append(errs, fmt.Errorf("%w: module %s: must be '%s' or '%s', got '%s'",
				ErrInvalidFormat, name, FormatPython, FormatTypeScript, m.Format))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateIndex(cfg *Config, idx *IndexConfig) error {
	var errs []error

	if strings.TrimSpace(idx.Target) == "" {
		errs = append(errs, fmt.Errorf("%w: index has no target", ErrEmptyPath))
	}

	for _, name := range idx.Modules {
		m, ok := cfg.Module(name)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: index %s references %s", ErrUnknownModule, idx.Target, name))
			continue
		}
		if m.FormatOrDefault() != FormatTypeScript {
			errs = append(errs, fmt.Errorf("%w: index %s requires typescript module, %s is %s",
				ErrInvalidFormat, idx.Target, name, m.FormatOrDefault()))
		}
	}

	for _, r := range idx.Renames {
		if strings.TrimSpace(r.From) == "" || strings.TrimSpace(r.To) == "" {
			errs = append(errs, fmt.Errorf("%w: index %s: from and to are required", ErrInvalidRename, idx.Target))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error.
// Sentinel errors stay reachable through errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return &validationErrors{errs: errs}
}

type validationErrors struct {
	errs []error
}

func (v *validationErrors) Error() string {
	msgs := make([]string, 0, len(v.errs))
	for _, err := range v.errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (v *validationErrors) Unwrap() []error {
	return v.errs
}
