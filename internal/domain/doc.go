// Package domain contains the core entities of the spaced repetition
// system: cards, card models, and review scores.
//
// Entities in this package carry no behavior beyond validation; every
// state transition happens through an event recorded in the event log and
// folded into a read model.
package domain
