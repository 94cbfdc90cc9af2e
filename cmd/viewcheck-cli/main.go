// Command viewcheck-cli lints the parametrizations an OpenAPI document
// declares: it derives a generator per view, draws sample records, and
// writes the outcome with any of the registered report writers. Views are
// Go functions and live in the host test suite; a broken schema or a
// generator that cannot produce records is what this tool catches before
// that suite runs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-viewcheck"
	"github.com/goliatone/go-viewcheck/pkg/compose"
	"github.com/goliatone/go-viewcheck/pkg/harness"
	"github.com/goliatone/go-viewcheck/pkg/manifest"
	"github.com/goliatone/go-viewcheck/pkg/prompt"
	"github.com/goliatone/go-viewcheck/pkg/report"
	"github.com/goliatone/go-viewcheck/pkg/schema"
	"github.com/goliatone/go-viewcheck/pkg/settings"
	"github.com/goliatone/go-viewcheck/pkg/strategy"
)

const (
	exitOK      = 0
	exitFailing = 1
	exitSetup   = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	spec := flag.String("spec", "", "OpenAPI document path or URL")
	manifestPath := flag.String("manifest", "", "run manifest path (YAML or JSON)")
	viewFlag := flag.String("view", "", "comma-separated view names to check (default: all)")
	interactive := flag.Bool("interactive", false, "pick views interactively")
	list := flag.Bool("list", false, "list discovered views and exit")
	maxExamples := flag.Int("max-examples", 0, "records drawn per view (default from manifest or 100)")
	seed := flag.Int64("seed", 0, "fixed random seed (0: fresh randomness)")
	format := flag.String("format", "", "report format: text, json or html (default text)")
	out := flag.String("out", "", "output file (stdout if empty)")
	themeName := flag.String("theme", "", "theme for the html report")
	themeVariant := flag.String("variant", "", "theme variant")
	flag.Parse()

	ctx := context.Background()

	var m manifest.Manifest
	haveManifest := *manifestPath != ""
	if haveManifest {
		loaded, err := manifest.Load(*manifestPath)
		if err != nil {
			log.Printf("%v", err)
			return exitSetup
		}
		m = loaded
	}

	params, err := loadParametrizations(ctx, *spec, m)
	if err != nil {
		log.Printf("%v", err)
		return exitSetup
	}

	names, err := selectViews(ctx, params, m, haveManifest, *viewFlag, *interactive && !*list)
	if err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			log.Printf("aborted")
			return exitSetup
		}
		log.Printf("%v", err)
		return exitSetup
	}

	if *list {
		for _, name := range names {
			fmt.Println(name)
		}
		return exitOK
	}

	result := lintViews(params, names, m, *maxExamples, *seed)

	if err := writeReport(ctx, result, m, *format, *out, *themeName, *themeVariant); err != nil {
		log.Printf("%v", err)
		return exitSetup
	}

	switch {
	case len(result.Setup) > 0:
		return exitSetup
	case !result.Passing():
		return exitFailing
	}
	return exitOK
}

func loadParametrizations(ctx context.Context, spec string, m manifest.Manifest) (map[string]schema.Parametrization, error) {
	location := strings.TrimSpace(spec)
	if location == "" {
		switch {
		case m.Source.Path != "":
			location = m.Source.Path
		case m.Source.URL != "":
			location = m.Source.URL
		}
	}
	if location == "" {
		return nil, fmt.Errorf("no OpenAPI document: pass -spec or declare a manifest source")
	}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return viewcheck.FromURL(ctx, location)
	}
	return viewcheck.FromFile(ctx, location)
}

// selectViews resolves which views to lint: the manifest's enabled entries
// when one is loaded, otherwise every operation in the document, narrowed
// by -view and, when asked, an interactive picker.
func selectViews(ctx context.Context, params map[string]schema.Parametrization, m manifest.Manifest, haveManifest bool, viewFlag string, interactive bool) ([]string, error) {
	var names []string
	if haveManifest {
		for _, view := range m.Enabled() {
			if _, ok := params[view.Operation]; !ok {
				return nil, fmt.Errorf("manifest view %q: operation %q not in document", view.Name, view.Operation)
			}
			names = append(names, view.Name)
		}
	} else {
		for name := range params {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	requested := splitViews(viewFlag)
	if len(requested) > 0 && !interactive {
		filtered, err := filterViews(names, requested)
		if err != nil {
			return nil, err
		}
		names = filtered
	}

	if interactive {
		return prompt.SelectViews(ctx, prompt.NewDriver(), names, requested)
	}
	return names, nil
}

func splitViews(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func filterViews(known, requested []string) ([]string, error) {
	allowed := make(map[string]bool, len(known))
	for _, name := range known {
		allowed[name] = true
	}
	var out []string
	for _, name := range requested {
		if !allowed[name] {
			return nil, fmt.Errorf("unknown view %q (known: %s)", name, strings.Join(known, ", "))
		}
		out = append(out, name)
	}
	return out, nil
}

// lintViews dry-runs derivation and composition per view and draws the
// configured number of sample records, so every generator the host test
// suite would rely on is exercised once without invoking any view.
func lintViews(params map[string]schema.Parametrization, names []string, m manifest.Manifest, maxExamples int, seed int64) harness.SuiteResult {
	registry := strategy.Default()

	var result harness.SuiteResult
	for _, name := range names {
		p, ok := params[name]
		if !ok {
			if view, found := m.View(name); found {
				p = params[view.Operation]
			}
		}

		runSettings := settings.Default().Override(m.SettingsFor(name)...)
		if maxExamples > 0 {
			runSettings = runSettings.Override(settings.WithMaxExamples(maxExamples))
		}
		if seed != 0 {
			runSettings = runSettings.Override(settings.WithSeed(seed))
		}

		fields, err := strategy.Derive(registry, p)
		if err != nil {
			result.Setup = append(result.Setup, harness.SetupError{View: name, Err: err})
			continue
		}
		records, err := compose.Compose(fields)
		if err != nil {
			result.Setup = append(result.Setup, harness.SetupError{View: name, Err: err})
			continue
		}

		drawSeed := time.Now().UnixNano()
		if runSettings.Seed != nil {
			drawSeed = *runSettings.Seed
		}
		if _, err := records.Samples(runSettings.MaxExamples, drawSeed); err != nil {
			result.Verdicts = append(result.Verdicts, harness.Verdict{
				View:    name,
				Failure: &harness.Failure{Cause: err},
			})
			continue
		}
		result.Verdicts = append(result.Verdicts, harness.Verdict{
			View:     name,
			Passing:  true,
			Examples: runSettings.MaxExamples,
		})
	}
	return result
}

func writeReport(ctx context.Context, result harness.SuiteResult, m manifest.Manifest, format, out, themeName, themeVariant string) error {
	if format == "" {
		format = m.Report.Format
	}
	if format == "" {
		format = "text"
	}
	if out == "" {
		out = m.Report.Out
	}
	if themeName == "" {
		themeName = m.Report.Theme
	}

	writer, err := report.Builtin().Get(format)
	if err != nil {
		return err
	}

	var options report.Options
	if themeName != "" {
		cfg, err := report.ThemeFor(report.DefaultThemes(), themeName, themeVariant)
		if err != nil {
			return err
		}
		options.Theme = cfg
	}

	rendered, err := writer.Render(ctx, report.Build(result, report.WithTitle("viewcheck lint")), options)
	if err != nil {
		return err
	}

	if out != "" {
		if err := os.WriteFile(out, rendered, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("report written to %s\n", out)
		return nil
	}
	fmt.Println(string(rendered))
	return nil
}
