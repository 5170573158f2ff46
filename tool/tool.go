package tool

import (
	"encoding/json"
	"errors"
)

// Tool names as registered with the workflow host.
const (
	NameParse   = "document_parse"
	NameExtract = "information_extraction"
)

// Version is the plugin version reported in tool telemetry.
const Version = "0.2.0"

// Common invocation errors.
var (
	// ErrEmptyDocument indicates the invocation carried no document bytes.
	ErrEmptyDocument = errors.New("tool: document is empty")

	// ErrMissingFilename indicates the invocation carried no filename.
	ErrMissingFilename = errors.New("tool: filename is required")
)

// MessageType identifies the payload kind of a tool result.
type MessageType string

const (
	// MessageText carries plain text content.
	MessageText MessageType = "text"
	// MessageJSON carries a JSON object.
	MessageJSON MessageType = "json"
)

// Message is the result of a tool invocation, delivered back to the
// workflow host.
type Message struct {
	// Type identifies the payload kind.
	Type MessageType

	// Text is the payload for MessageText results.
	Text string

	// JSON is the payload for MessageJSON results.
	JSON json.RawMessage

	// CacheHit reports whether the result was served from the cache
	// rather than a fresh remote call.
	CacheHit bool
}

// TextMessage creates a text result.
func TextMessage(text string, cacheHit bool) Message {
	return Message{Type: MessageText, Text: text, CacheHit: cacheHit}
}

// JSONMessage creates a JSON result.
func JSONMessage(raw json.RawMessage, cacheHit bool) Message {
	return Message{Type: MessageJSON, JSON: raw, CacheHit: cacheHit}
}
