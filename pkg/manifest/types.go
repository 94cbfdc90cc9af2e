package manifest

// Manifest is the project file declaring which views get explored, the
// OpenAPI document they bind to, and how large each run is.
type Manifest struct {
	Version  int    `json:"version,omitempty" yaml:"version,omitempty"`
	Source   Source `json:"source,omitempty" yaml:"source,omitempty"`
	Defaults Run    `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	Views    []View `json:"views" yaml:"views"`
	Report   Report `json:"report,omitempty" yaml:"report,omitempty"`
}

// Source points at the OpenAPI document operations are read from. Path and
// URL are mutually exclusive; both empty defers the choice to the caller.
type Source struct {
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Run sizes an exploration. Zero values inherit from the level above:
// view inherits manifest defaults, defaults inherit the engine's.
type Run struct {
	MaxExamples int    `json:"maxExamples,omitempty" yaml:"maxExamples,omitempty"`
	MaxShrinks  int    `json:"maxShrinks,omitempty" yaml:"maxShrinks,omitempty"`
	Seed        *int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// View binds one registered view to an OpenAPI operation. Operation
// defaults to the view name; Skip keeps the entry without running it.
type View struct {
	Name      string `json:"name" yaml:"name"`
	Operation string `json:"operation,omitempty" yaml:"operation,omitempty"`
	Skip      bool   `json:"skip,omitempty" yaml:"skip,omitempty"`
	Run       `yaml:",inline"`
}

// Report selects how a suite result is written out.
type Report struct {
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	Out    string `json:"out,omitempty" yaml:"out,omitempty"`
	Theme  string `json:"theme,omitempty" yaml:"theme,omitempty"`
}
