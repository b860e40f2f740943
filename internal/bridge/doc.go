// Package bridge implements the HTTP client for the MT5 python bridge.
//
// The bridge exposes a small REST API in front of the MetaTrader 5
// terminal. Every call here is bounded by the caller's context; server
// errors (5xx, 429) are retried with exponential backoff, everything
// else fails fast as an *APIError.
package bridge
