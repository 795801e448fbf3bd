package deck

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/revlog/internal/domain"
	"github.com/phrazzld/revlog/internal/events"
	"github.com/phrazzld/revlog/internal/eventstore"
)

// EventLog is the slice of the event store the Decks service depends on.
// *eventstore.Store satisfies it.
type EventLog interface {
	Record(streamID uuid.UUID, event events.Event) (int, error)
	RecordWithVersion(streamID uuid.UUID, event events.Event, expectedVersion int) (int, error)
	Subscribe(listener eventstore.Listener) error
	Version(streamID uuid.UUID) int
}

// schedule is the running spacing state of a single card: the interval (in
// days) applied at its last review, and the absolute day the card is next
// due. Both start at zero for an unreviewed card.
type schedule struct {
	interval int
	due      int
}

// Decks is the scheduling service. It owns no persistent state of its own:
// the per-card schedule cache is derived entirely from CardReviewed events
// replayed from the log, so a freshly constructed service over the same
// log always computes the same next interval.
type Decks struct {
	log    EventLog
	logger *slog.Logger

	mu        sync.Mutex
	schedules map[uuid.UUID]schedule
}

// New creates a Decks service over the given event log and catches up on
// the log's history.
func New(log EventLog, logger *slog.Logger) (*Decks, error) {
	if logger == nil {
		logger = slog.Default()
	}

	d := &Decks{
		log:       log,
		logger:    logger.With(slog.String("component", "decks")),
		schedules: map[uuid.UUID]schedule{},
	}

	if err := log.Subscribe(eventstore.ListenerFunc(d.handleEvent)); err != nil {
		return nil, fmt.Errorf("subscribe to event log: %w", err)
	}

	return d, nil
}

// handleEvent folds CardReviewed events into the schedule cache. All other
// event kinds are irrelevant to scheduling.
func (d *Decks) handleEvent(streamID uuid.UUID, event events.Event) error {
	reviewed, ok := event.(events.CardReviewed)
	if !ok {
		return nil
	}

	d.mu.Lock()
	d.schedules[streamID] = schedule{interval: reviewed.Interval, due: reviewed.NextDueDate}
	d.mu.Unlock()
	return nil
}

// ScoreCard records a review outcome for the given card and schedules its
// next due date:
//
//   - good doubles the previous interval (minimum 1) and moves the due
//     date forward by the new interval.
//   - poor repeats the previous interval (minimum 1), producing a plateau
//     instead of growth.
//   - fail resets the interval progression; the due date stays where it
//     is, and the next successful review restarts from an interval of 1.
//
// The emitted CardReviewed event carries the card stream's current version
// as the expected version, so a concurrent review of the same card is
// rejected with eventstore.ErrWrongVersion.
func (d *Decks) ScoreCard(cardID uuid.UUID, score domain.Score) error {
	if !score.Valid() {
		return fmt.Errorf("score card %s: %w: %q", cardID, domain.ErrInvalidScore, score)
	}

	d.mu.Lock()
	current := d.schedules[cardID]
	d.mu.Unlock()

	next := nextSchedule(current, score)

	version := d.log.Version(cardID)
	_, err := d.log.RecordWithVersion(cardID, events.CardReviewed{
		Score:       score,
		NextDueDate: next.due,
		Interval:    next.interval,
	}, version)
	if err != nil {
		return fmt.Errorf("record review for card %s: %w", cardID, err)
	}

	d.logger.Debug("card scored",
		slog.String("card_id", cardID.String()),
		slog.String("score", string(score)),
		slog.Int("interval", next.interval),
		slog.Int("next_due_date", next.due))
	return nil
}

// nextSchedule computes the spacing state that follows the current one for
// a given score. The minimum interval applied to a due date is always 1:
// a card scored poor with no history behaves as if its previous interval
// were 1.
func nextSchedule(current schedule, score domain.Score) schedule {
	switch score {
	case domain.ScoreGood:
		interval := current.interval * 2
		if interval < 1 {
			interval = 1
		}
		return schedule{interval: interval, due: current.due + interval}
	case domain.ScorePoor:
		interval := current.interval
		if interval < 1 {
			interval = 1
		}
		return schedule{interval: interval, due: current.due + interval}
	case domain.ScoreFail:
		return schedule{interval: 0, due: current.due}
	}
	// Unreachable: score is validated by the caller.
	return current
}

// AddOrEditCard creates the card on its first call for an id, and fully
// replaces the card's field values on subsequent calls.
func (d *Decks) AddOrEditCard(cardID uuid.UUID, fields map[string]string) error {
	if _, err := d.log.Record(cardID, events.CardEdited{CardFields: fields}); err != nil {
		return fmt.Errorf("record edit for card %s: %w", cardID, err)
	}
	return nil
}

// SetModelForCard reassigns which model the card belongs to.
func (d *Decks) SetModelForCard(cardID, modelID uuid.UUID) error {
	if _, err := d.log.Record(cardID, events.CardModelChanged{ModelID: modelID}); err != nil {
		return fmt.Errorf("record model change for card %s: %w", cardID, err)
	}
	return nil
}

// NameModel gives the model a display name.
func (d *Decks) NameModel(modelID uuid.UUID, name string) error {
	if _, err := d.log.Record(modelID, events.ModelNamed{Name: name}); err != nil {
		return fmt.Errorf("record name for model %s: %w", modelID, err)
	}
	return nil
}

// EditModelTemplates replaces the model's question and answer templates.
func (d *Decks) EditModelTemplates(modelID uuid.UUID, question, answer string) error {
	event := events.ModelTemplatesChanged{Question: question, Answer: answer}
	if _, err := d.log.Record(modelID, event); err != nil {
		return fmt.Errorf("record templates for model %s: %w", modelID, err)
	}
	return nil
}

// AddModelField adds a named field to the model's schema.
func (d *Decks) AddModelField(modelID uuid.UUID, field string) error {
	if _, err := d.log.Record(modelID, events.ModelFieldAdded{Field: field}); err != nil {
		return fmt.Errorf("record field for model %s: %w", modelID, err)
	}
	return nil
}
