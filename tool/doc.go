// Package tool implements the document-processing tools exposed by the
// plugin: document parsing and schema-driven information extraction.
//
// Each tool validates its input, consults the result cache keyed by
// document content and parameters, and delegates to the remote service
// only on a miss. Remote failures are returned to the caller and never
// cached, so a later invocation retries the call.
package tool
