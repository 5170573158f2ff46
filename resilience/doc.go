// Package resilience guards calls to the remote document-processing
// service.
//
// It provides retry with exponential backoff, a circuit breaker, a token
// bucket rate limiter, and an in-flight concurrency cap, composed into a
// single Executor that wraps every remote call the plugin makes.
package resilience
