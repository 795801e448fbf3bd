// Package deckview contains the read models: projections that subscribe
// to the event log and rebuild their state by folding events.
//
// DeckViewModel tracks per-card state (question, answer, due date, review
// count); ModelViewModel tracks card model schemas. Each projection owns
// its derived state privately and is only ever mutated from its own fold
// function; reads go against the projections, never against the log.
package deckview
