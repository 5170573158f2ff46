package tool

import (
	"context"
	"fmt"

	"github.com/jonwraymond/docproc/cache"
	"github.com/jonwraymond/docproc/observe"
	"github.com/jonwraymond/docproc/upstage"
)

// DocumentParser is the remote parsing capability the parse tool
// delegates to. *upstage.Client satisfies it.
type DocumentParser interface {
	ParseDocument(ctx context.Context, document []byte, filename string, format upstage.OutputFormat) (string, error)
}

// ParseInput is the invocation input for the parse tool.
type ParseInput struct {
	// Document is the raw file content. Required.
	Document []byte

	// Filename names the uploaded file. Required.
	Filename string

	// OutputFormat selects the rendering. Empty means markdown.
	OutputFormat string
}

// ParseTool converts documents into structured text via the remote
// digitization endpoint, with results cached by document content and
// output format.
type ParseTool struct {
	client DocumentParser
	cache  *cache.Middleware
	keyer  cache.Keyer
	logger observe.Logger
}

// NewParseTool creates the parse tool. A nil cache middleware disables
// caching; a nil keyer uses the default content-hash keyer.
func NewParseTool(client DocumentParser, cm *cache.Middleware, keyer cache.Keyer, logger observe.Logger) *ParseTool {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = observe.NopLogger()
	}
	return &ParseTool{client: client, cache: cm, keyer: keyer, logger: logger}
}

// Meta returns the tool identity for telemetry.
func (t *ParseTool) Meta() observe.ToolMeta {
	return observe.ToolMeta{Name: NameParse, Version: Version}
}

// Invoke validates the input, consults the cache, and parses the
// document remotely on a miss.
func (t *ParseTool) Invoke(ctx context.Context, in ParseInput) (Message, error) {
	if len(in.Document) == 0 {
		return Message{}, ErrEmptyDocument
	}
	if in.Filename == "" {
		return Message{}, ErrMissingFilename
	}

	format := upstage.OutputFormat(in.OutputFormat)
	if format == "" {
		format = upstage.FormatMarkdown
	}
	if !format.Valid() {
		return Message{}, fmt.Errorf("tool: unsupported output format %q", in.OutputFormat)
	}

	key, err := t.keyer.Key(NameParse, in.Document, map[string]any{
		"output_format": string(format),
	})
	if err != nil {
		// An unkeyable invocation still runs, just uncached.
		t.logger.Warn(ctx, "cache key derivation failed", observe.Field{Key: "error", Value: err.Error()})
		key = ""
	}

	out, hit, err := t.cache.Do(ctx, key, func(ctx context.Context) ([]byte, error) {
		content, err := t.client.ParseDocument(ctx, in.Document, in.Filename, format)
		if err != nil {
			return nil, err
		}
		return []byte(content), nil
	})
	if err != nil {
		return Message{}, err
	}

	return TextMessage(string(out), hit), nil
}
