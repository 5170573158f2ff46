// Package observe provides observability primitives for the
// document-processing plugin.
//
// It is a pure instrumentation library: no execution, no transport, no
// I/O beyond exporter setup. The tool layer wires the observer around
// remote calls and cache lookups.
package observe
