// Package health provides component health checks for the plugin: an
// aggregator that fans out to registered checkers, HTTP probe handlers,
// and built-in checkers for the result cache and the remote document
// service.
package health
