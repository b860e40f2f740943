// Package rest exposes the HTTP API in front of the MT5 bridge.
//
// Read endpoints (prices, account, positions) go through the resilient
// feed, so a dead bridge yields synthetic data flagged degraded rather
// than an error. Action endpoints (connect, trades, history) proxy the
// bridge directly and relay its status codes; a successful trade also
// fires the positions broadcast so every streaming client refreshes.
package rest
