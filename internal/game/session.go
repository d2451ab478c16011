// internal/game/session.go
//
// Core state machine for a single hangman round.
// Responsibilities:
//   - Start rounds from a word source (Reset).
//   - Validate and apply letter guesses (A–Z only, no duplicates).
//   - Reveal letters on request for a fixed penalty (GiveHint).
//   - Track state transitions: in progress → won/lost, win checked first.
//
// Notes:
//   - The session never calls audio or effect code. Every mutating call
//     returns the events it produced; the caller dispatches them.
//   - Rejections (duplicate, game over, invalid) never mutate state.
//   - Hyphens in a word are shown from the start and never need guessing.
//   - Penalties only grow; they may exceed MaxPenalties after a hint.

package game

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/words"
)

// WordSource supplies the word and display label of a new round.
type WordSource interface {
	SelectWord(r words.Rand) (word, label string, err error)
}

// Rand is the random source used for word selection and hint sampling.
type Rand = words.Rand

// Session holds the state of one round plus what it needs to start the next.
type Session struct {
	src   WordSource
	rng   Rand
	rules Rules

	id        string
	word      string
	label     string
	letters   map[rune]struct{} // distinct guessable letters of word
	guessed   map[rune]struct{}
	wrong     map[rune]struct{}
	penalties int
	hintsUsed int
	status    Status
	startedAt time.Time
}

// New constructs a session and starts its first round.
func New(src WordSource, rng Rand, rules Rules) (*Session, error) {
	s := &Session{src: src, rng: rng, rules: rules.withDefaults()}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewWithWord starts a round on a fixed word (tests, replays).
// Reset on the returned session fails unless a source is attached.
func NewWithWord(word, label string, rng Rand, rules Rules) (*Session, error) {
	word = words.Normalize(word)
	if !words.IsWord(word) {
		return nil, fmt.Errorf("game: invalid word %q", word)
	}
	s := &Session{rng: rng, rules: rules.withDefaults()}
	s.start(word, label)
	return s, nil
}

// Reset replaces the round wholesale with a freshly selected word.
// On error the current round is left untouched.
func (s *Session) Reset() error {
	if s.src == nil {
		return fmt.Errorf("game: no word source: %w", words.ErrEmptyCatalog)
	}
	w, label, err := s.src.SelectWord(s.rng)
	if err != nil {
		return fmt.Errorf("game: select word: %w", err)
	}
	s.start(w, label)
	log.Info().Str("round", s.id).Str("label", label).Int("length", len(w)).Msg("new round")
	return nil
}

func (s *Session) start(word, label string) {
	s.id = uuid.NewString()
	s.word = word
	s.label = label
	s.letters = make(map[rune]struct{}, len(word))
	for _, r := range word {
		if r != '-' {
			s.letters[r] = struct{}{}
		}
	}
	s.guessed = make(map[rune]struct{})
	s.wrong = make(map[rune]struct{})
	s.penalties = 0
	s.hintsUsed = 0
	s.status = StatusInProgress
	s.startedAt = time.Now()
}

// GuessLetter applies a letter guess.
//
// Validation rules:
//   - Letter must be A–Z (lowercase is upper-cased) → else ErrInvalidLetter.
//   - Round must be in progress → else REJECTED_GAME_OVER.
//   - Letter must not have been guessed or revealed → else REJECTED_DUPLICATE.
//
// State transitions:
//   - All distinct letters guessed → WON (checked first).
//   - Else penalties ≥ MaxPenalties → LOST.
func (s *Session) GuessLetter(c rune) (GuessOutcome, []Event, error) {
	c, ok := NormalizeLetter(c)
	if !ok {
		return OutcomeRejectedInvalid, nil, ErrInvalidLetter
	}
	if s.status != StatusInProgress {
		return OutcomeRejectedGameOver, nil, nil
	}
	if _, dup := s.guessed[c]; dup {
		return OutcomeRejectedDuplicate, nil, nil
	}

	s.guessed[c] = struct{}{}
	var events []Event
	if _, hit := s.letters[c]; hit {
		events = append(events, Event{Type: EventCorrectLetter, Letter: c})
	} else {
		s.wrong[c] = struct{}{}
		s.penalties += s.rules.WrongLetterCost
		events = append(events, Event{Type: EventWrongLetter, Letter: c})
	}
	return OutcomeAccepted, s.resolve(events), nil
}

// GiveHint reveals 1 letter (words shorter than 6) or 2 letters, capped at
// the number still hidden, for a fixed penalty. It is a no-op when the round
// is over or nothing is left to reveal.
func (s *Session) GiveHint() (HintOutcome, []Event) {
	if s.status != StatusInProgress {
		return HintOutcome{}, nil
	}
	hidden := s.hidden()
	if len(hidden) == 0 {
		return HintOutcome{}, nil
	}

	n := 1
	if len([]rune(s.word)) >= 6 {
		n = 2
	}
	if n > len(hidden) {
		n = len(hidden)
	}

	// partial Fisher–Yates: the first n entries are a uniform sample
	for i := 0; i < n; i++ {
		j := i + s.rng.IntN(len(hidden)-i)
		hidden[i], hidden[j] = hidden[j], hidden[i]
	}
	revealed := append([]rune(nil), hidden[:n]...)

	for _, c := range revealed {
		s.guessed[c] = struct{}{}
	}
	s.penalties += s.rules.HintCost
	s.hintsUsed++
	log.Info().Str("round", s.id).Str("letters", string(revealed)).Int("penalties", s.penalties).Msg("hint given")

	events := []Event{{Type: EventHintGiven, Letters: revealed}}
	return HintOutcome{Applied: true, Letters: revealed}, s.resolve(events)
}

// resolve evaluates end conditions in fixed order and appends WIN/LOSE.
func (s *Session) resolve(events []Event) []Event {
	switch {
	case len(s.hidden()) == 0:
		s.status = StatusWon
		events = append(events, Event{Type: EventWin})
	case s.penalties >= s.rules.MaxPenalties:
		s.status = StatusLost
		events = append(events, Event{Type: EventLose})
	default:
		return events
	}
	log.Info().
		Str("round", s.id).
		Str("status", string(s.status)).
		Int("penalties", s.penalties).
		Int("hints", s.hintsUsed).
		Dur("elapsed", time.Since(s.startedAt)).
		Msg("round finished")
	return events
}

// hidden returns the distinct letters of the word not yet guessed, sorted.
func (s *Session) hidden() []rune {
	var out []rune
	for c := range s.letters {
		if _, ok := s.guessed[c]; !ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NormalizeLetter upper-cases c and reports whether it is in A–Z.
func NormalizeLetter(c rune) (rune, bool) {
	c = unicode.ToUpper(c)
	return c, c >= 'A' && c <= 'Z'
}

// ---------------------------------------------------------------------------
// read side
// ---------------------------------------------------------------------------

func (s *Session) ID() string { return s.id }
func (s *Session) Word() string { return s.word }
func (s *Session) Label() string { return s.label }
func (s *Session) Status() Status { return s.status }
func (s *Session) Penalties() int { return s.penalties }
func (s *Session) HintsUsed() int { return s.hintsUsed }
func (s *Session) Rules() Rules { return s.rules }
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Contains reports whether c (any case) occurs in the word.
func (s *Session) Contains(c rune) bool {
	c, ok := NormalizeLetter(c)
	if !ok {
		return false
	}
	_, hit := s.letters[c]
	return hit
}

// Guessed returns guessed and revealed letters, sorted.
func (s *Session) Guessed() []rune { return sortedSet(s.guessed) }

// Wrong returns the wrong letters, sorted.
func (s *Session) Wrong() []rune { return sortedSet(s.wrong) }

// Masked renders the word with unrevealed letters as '_'.
func (s *Session) Masked() string {
	var b strings.Builder
	for _, r := range s.word {
		if _, ok := s.guessed[r]; ok || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Danger grades the penalty bar: >7 critical, >4 warning, >0 ok.
func (s *Session) Danger() DangerLevel {
	switch {
	case s.penalties > 7:
		return DangerCritical
	case s.penalties > 4:
		return DangerWarning
	case s.penalties > 0:
		return DangerOK
	}
	return DangerNone
}

// View snapshots the round for the presenter.
func (s *Session) View() View {
	v := View{
		ID:           s.id,
		Label:        s.label,
		Masked:       s.Masked(),
		Length:       len([]rune(s.word)),
		Guessed:      string(s.Guessed()),
		Wrong:        string(s.Wrong()),
		Penalties:    s.penalties,
		MaxPenalties: s.rules.MaxPenalties,
		HintsUsed:    s.hintsUsed,
		Status:       s.status,
		Danger:       s.Danger(),
	}
	if s.status.Terminal() {
		v.Word = s.word
	}
	return v
}

func sortedSet(m map[rune]struct{}) []rune {
	out := make([]rune, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
