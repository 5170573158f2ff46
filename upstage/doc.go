// Package upstage is a client for the Upstage document AI API.
//
// It covers the two endpoints the plugin uses: document digitization
// (parse to markdown/html/text) and information extraction (structured
// fields from a document image or PDF), plus a credential validation
// probe. All document intelligence lives on the remote side; this
// package is request construction and response decoding.
package upstage
