// Package events defines the closed catalog of domain events recorded in
// the event log.
//
// Each event is an immutable record carrying only the fields relevant to
// the state change it represents. The Event interface is sealed: only the
// types in this package implement it, so projections can fold with an
// exhaustive type switch.
package events
