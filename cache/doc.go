// Package cache provides a bounded in-memory result cache for document
// processing calls.
//
// It provides a Cache interface with an LRU + TTL implementation,
// SHA-256-based fingerprint derivation over document bytes and request
// parameters, and a middleware that collapses concurrent identical
// remote calls and never caches failures.
package cache
