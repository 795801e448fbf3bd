// Package api provides the HTTP shell over the event-sourced core: thin
// handlers that call the Decks command API and read from the projections.
// The shell holds no state of its own.
package api
