// Package live implements the real-time subscription layer.
//
// Each WebSocket client gets a Session owning at most one poll task
// per channel kind (prices, account, positions). A poll task fetches
// from the resilient feed on a fixed cadence and pushes the result to
// the client; the hub fans the positions-changed signal out to every
// positions task for an immediate out-of-cadence refresh.
//
// Lifecycle guarantees:
//   - resubscribing a kind cancels the old task to completion before
//     the replacement starts
//   - closing a session cancels every task it owns; no task outlives
//     its session
//   - cancellation interrupts the cadence sleep, never a push
package live
