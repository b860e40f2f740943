// Package model defines shared domain types used across components.
//
// Conventions:
//   - Prices: float64, matching the bridge's JSON wire format
//   - Spreads: pips, JPY pairs use a 100 multiplier, all others 10000
//   - Timestamps: ISO 8601 strings, relayed from the bridge as-is
//   - Position sides: "BUY" or "SELL"
package model
