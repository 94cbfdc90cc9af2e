// Package manifest reads the project file that names the views to explore,
// binds them to OpenAPI operations and layers per-view run settings over
// shared defaults.
package manifest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-viewcheck/pkg/settings"
)

// CurrentVersion is the only manifest schema version this build reads.
const CurrentVersion = 1

// Formats a manifest may select for its report.
var knownFormats = map[string]bool{"": true, "text": true, "json": true, "html": true}

// Load reads a manifest from disk.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadFS reads a manifest from the provided filesystem.
func LoadFS(fsys fs.FS, name string) (Manifest, error) {
	if fsys == nil {
		return Manifest{}, fmt.Errorf("manifest: filesystem is required")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: read %s: %w", name, err)
	}
	return Parse(data)
}

// Parse decodes JSON or YAML manifest data, fills defaults and validates.
func Parse(data []byte) (Manifest, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Manifest{}, fmt.Errorf("manifest: document is empty")
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		m = Manifest{}
		if err := yaml.Unmarshal(data, &m); err != nil {
			return Manifest{}, fmt.Errorf("manifest: invalid JSON or YAML")
		}
	}

	m.normalise()
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func (m *Manifest) normalise() {
	if m.Version == 0 {
		m.Version = CurrentVersion
	}
	for i := range m.Views {
		view := &m.Views[i]
		view.Name = strings.TrimSpace(view.Name)
		view.Operation = strings.TrimSpace(view.Operation)
		if view.Operation == "" {
			view.Operation = view.Name
		}
	}
	m.Report.Format = strings.ToLower(strings.TrimSpace(m.Report.Format))
}

// Validate checks the intra-file rules: a supported version, at least one
// uniquely named view, one document source at most, non-negative budgets
// and a known report format. Operation ids are resolved later, against the
// parsed document.
func (m Manifest) Validate() error {
	if m.Version != CurrentVersion {
		return fmt.Errorf("manifest: unsupported version %d", m.Version)
	}
	if m.Source.Path != "" && m.Source.URL != "" {
		return fmt.Errorf("manifest: source declares both a path and a url")
	}
	if len(m.Views) == 0 {
		return fmt.Errorf("manifest: no views declared")
	}
	seen := make(map[string]bool, len(m.Views))
	for i, view := range m.Views {
		if view.Name == "" {
			return fmt.Errorf("manifest: view %d has no name", i)
		}
		if seen[view.Name] {
			return fmt.Errorf("manifest: duplicate view %q", view.Name)
		}
		seen[view.Name] = true
		if err := view.Run.validate(); err != nil {
			return fmt.Errorf("manifest: view %q: %w", view.Name, err)
		}
	}
	if err := m.Defaults.validate(); err != nil {
		return fmt.Errorf("manifest: defaults: %w", err)
	}
	if !knownFormats[m.Report.Format] {
		return fmt.Errorf("manifest: unknown report format %q", m.Report.Format)
	}
	return nil
}

func (r Run) validate() error {
	if r.MaxExamples < 0 {
		return fmt.Errorf("max examples must not be negative, got %d", r.MaxExamples)
	}
	if r.MaxShrinks < 0 {
		return fmt.Errorf("max shrinks must not be negative, got %d", r.MaxShrinks)
	}
	return nil
}

// View returns the named entry.
func (m Manifest) View(name string) (View, bool) {
	for _, view := range m.Views {
		if view.Name == name {
			return view, true
		}
	}
	return View{}, false
}

// Enabled returns the views that are not skipped, in declaration order.
func (m Manifest) Enabled() []View {
	out := make([]View, 0, len(m.Views))
	for _, view := range m.Views {
		if view.Skip {
			continue
		}
		out = append(out, view)
	}
	return out
}

// SettingsFor resolves the option chain for a named view: manifest defaults
// first, then the view's own overrides. Unknown names get the defaults.
func (m Manifest) SettingsFor(name string) []settings.Option {
	opts := m.Defaults.options()
	if view, ok := m.View(name); ok {
		opts = append(opts, view.Run.options()...)
	}
	return opts
}

func (r Run) options() []settings.Option {
	var opts []settings.Option
	if r.MaxExamples > 0 {
		opts = append(opts, settings.WithMaxExamples(r.MaxExamples))
	}
	if r.MaxShrinks > 0 {
		opts = append(opts, settings.WithMaxShrinks(r.MaxShrinks))
	}
	if r.Seed != nil {
		opts = append(opts, settings.WithSeed(*r.Seed))
	}
	return opts
}
