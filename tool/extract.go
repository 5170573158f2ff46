package tool

import (
	"context"
	"encoding/json"

	"github.com/jonwraymond/docproc/cache"
	"github.com/jonwraymond/docproc/observe"
)

// InformationExtractor is the remote extraction capability the extract
// tool delegates to. *upstage.Client satisfies it.
type InformationExtractor interface {
	ExtractInformation(ctx context.Context, document []byte, filename string, fields map[string]string) (json.RawMessage, error)
}

// ExtractInput is the invocation input for the extraction tool.
type ExtractInput struct {
	// Document is the raw file content. Required.
	Document []byte

	// Filename names the uploaded file. Required.
	Filename string

	// Schema is a JSON object mapping field names to descriptions of
	// what to extract. Required; see ParseSchema.
	Schema string
}

// ExtractTool pulls structured fields out of documents via the remote
// extraction endpoint, with results cached by document content and
// schema.
type ExtractTool struct {
	client InformationExtractor
	cache  *cache.Middleware
	keyer  cache.Keyer
	logger observe.Logger
}

// NewExtractTool creates the extraction tool. A nil cache middleware
// disables caching; a nil keyer uses the default content-hash keyer.
func NewExtractTool(client InformationExtractor, cm *cache.Middleware, keyer cache.Keyer, logger observe.Logger) *ExtractTool {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = observe.NopLogger()
	}
	return &ExtractTool{client: client, cache: cm, keyer: keyer, logger: logger}
}

// Meta returns the tool identity for telemetry.
func (t *ExtractTool) Meta() observe.ToolMeta {
	return observe.ToolMeta{Name: NameExtract, Version: Version}
}

// Invoke validates the input and schema, consults the cache, and
// extracts fields remotely on a miss. Equivalent schemas that differ
// only in field order produce the same cache key.
func (t *ExtractTool) Invoke(ctx context.Context, in ExtractInput) (Message, error) {
	if len(in.Document) == 0 {
		return Message{}, ErrEmptyDocument
	}
	if in.Filename == "" {
		return Message{}, ErrMissingFilename
	}

	fields, err := ParseSchema(in.Schema)
	if err != nil {
		return Message{}, err
	}

	key, err := t.keyer.Key(NameExtract, in.Document, fields)
	if err != nil {
		t.logger.Warn(ctx, "cache key derivation failed", observe.Field{Key: "error", Value: err.Error()})
		key = ""
	}

	out, hit, err := t.cache.Do(ctx, key, func(ctx context.Context) ([]byte, error) {
		raw, err := t.client.ExtractInformation(ctx, in.Document, in.Filename, fields)
		if err != nil {
			return nil, err
		}
		return raw, nil
	})
	if err != nil {
		return Message{}, err
	}

	return JSONMessage(out, hit), nil
}
