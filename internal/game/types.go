// internal/game/types.go
//
// Core type definitions for the hangman round state machine.
// Defines:
//   - Status: round lifecycle (in progress → won | lost).
//   - GuessOutcome / HintOutcome: results of the two mutating operations.
//   - EventType / Event: the closed set of events a round emits.
//   - Rules: penalty constants fixed at construction.
//   - DangerLevel: coarse penalty-bar level for the presenter.

package game

import "errors"

// ErrInvalidLetter is returned for a guess outside A–Z.
var ErrInvalidLetter = errors.New("game: invalid letter")

// Status is the lifecycle state of a round. WON and LOST are terminal.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusWon        Status = "WON"
	StatusLost       Status = "LOST"
)

// Terminal reports whether no further guesses or hints apply.
func (s Status) Terminal() bool { return s == StatusWon || s == StatusLost }

// GuessOutcome is the result of GuessLetter.
type GuessOutcome string

const (
	OutcomeAccepted          GuessOutcome = "ACCEPTED"
	OutcomeRejectedDuplicate GuessOutcome = "REJECTED_DUPLICATE"
	OutcomeRejectedGameOver  GuessOutcome = "REJECTED_GAME_OVER"
	OutcomeRejectedInvalid   GuessOutcome = "REJECTED_INVALID"
)

// HintOutcome is the result of GiveHint. Applied is false for a no-op.
type HintOutcome struct {
	Applied bool
	Letters []rune
}

// EventType names one of the events a round emits.
type EventType string

const (
	EventCorrectLetter EventType = "CORRECT_LETTER"
	EventWrongLetter   EventType = "WRONG_LETTER"
	EventWin           EventType = "WIN"
	EventLose          EventType = "LOSE"
	EventHintGiven     EventType = "HINT_GIVEN"
)

// Event is emitted by the state machine and consumed by the orchestrator.
// Letter is set for CORRECT_LETTER/WRONG_LETTER, Letters for HINT_GIVEN.
type Event struct {
	Type    EventType
	Letter  rune
	Letters []rune
}

// Rules holds the penalty constants of a round.
type Rules struct {
	MaxPenalties    int // loss threshold
	WrongLetterCost int // added per wrong guess
	HintCost        int // added per hint
}

// DefaultRules returns the classic 10 / 1 / 5 rules.
func DefaultRules() Rules {
	return Rules{MaxPenalties: 10, WrongLetterCost: 1, HintCost: 5}
}

// withDefaults fills non-positive fields from DefaultRules.
func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.MaxPenalties <= 0 {
		r.MaxPenalties = d.MaxPenalties
	}
	if r.WrongLetterCost <= 0 {
		r.WrongLetterCost = d.WrongLetterCost
	}
	if r.HintCost <= 0 {
		r.HintCost = d.HintCost
	}
	return r
}

// DangerLevel grades the penalty bar.
type DangerLevel string

const (
	DangerNone     DangerLevel = "none"
	DangerOK       DangerLevel = "ok"
	DangerWarning  DangerLevel = "warning"
	DangerCritical DangerLevel = "critical"
)

// View is a read-only snapshot of a round for the presenter.
// Word is only filled once the round is over.
type View struct {
	ID           string      `json:"id"`
	Label        string      `json:"label"`
	Masked       string      `json:"masked"`
	Length       int         `json:"length"`
	Guessed      string      `json:"guessed"`
	Wrong        string      `json:"wrong"`
	Penalties    int         `json:"penalties"`
	MaxPenalties int         `json:"maxPenalties"`
	HintsUsed    int         `json:"hintsUsed"`
	Status       Status      `json:"status"`
	Danger       DangerLevel `json:"danger"`
	Word         string      `json:"word,omitempty"`
}
