// Package deck implements the write side of the system: the Decks service
// translates user intents (score a card, edit a card, change a model) into
// validated events appended to the event log.
//
// The only non-trivial computation is the spaced-repetition interval
// algorithm in ScoreCard; every other command is a pure translation from
// intent to event.
package deck
