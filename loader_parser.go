package viewcheck

import (
	"context"
	"io/fs"

	internalLoader "github.com/goliatone/go-viewcheck/internal/openapi/loader"
	internalParser "github.com/goliatone/go-viewcheck/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-viewcheck/pkg/openapi"
	"github.com/goliatone/go-viewcheck/pkg/schema"
)

// NewLoader constructs a loader using the internal implementation while
// keeping the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	cfg := pkgopenapi.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// Parse converts a pre-loaded OpenAPI document into parametrizations keyed
// by operation id. Operations without a request schema are left out.
func Parse(ctx context.Context, doc pkgopenapi.Document, options ...pkgopenapi.ParserOption) (map[string]schema.Parametrization, error) {
	operations, err := NewParser(options...).Operations(ctx, doc)
	if err != nil {
		return nil, err
	}
	return pkgopenapi.Parametrizations(operations)
}

// FromFile loads an OpenAPI document from disk and converts its operations.
func FromFile(ctx context.Context, path string) (map[string]schema.Parametrization, error) {
	doc, err := NewLoader().Load(ctx, pkgopenapi.SourceFromFile(path))
	if err != nil {
		return nil, err
	}
	return Parse(ctx, doc)
}

// FromFS loads an OpenAPI document from an fs.FS and converts its operations.
func FromFS(ctx context.Context, files fs.FS, name string) (map[string]schema.Parametrization, error) {
	doc, err := NewLoader(pkgopenapi.WithFileSystem(files)).Load(ctx, pkgopenapi.SourceFromFS(name))
	if err != nil {
		return nil, err
	}
	return Parse(ctx, doc)
}

// FromURL fetches an OpenAPI document over HTTP and converts its operations.
func FromURL(ctx context.Context, url string, options ...pkgopenapi.LoaderOption) (map[string]schema.Parametrization, error) {
	opts := append([]pkgopenapi.LoaderOption{pkgopenapi.WithHTTPFallback(0)}, options...)
	doc, err := NewLoader(opts...).Load(ctx, pkgopenapi.SourceFromURL(url))
	if err != nil {
		return nil, err
	}
	return Parse(ctx, doc)
}
