package engine

import (
	"github.com/robalobadob/hangman/internal/audio"
	"github.com/robalobadob/hangman/internal/fx"
	"github.com/robalobadob/hangman/internal/game"
)

// Frame is everything a presenter needs to draw one frame.
type Frame struct {
	Seq       uint64         `json:"seq"`
	Time      int            `json:"time"`
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	Game      game.View      `json:"game"`
	ShowLabel bool           `json:"showLabel"`
	Sound     audio.Settings `json:"sound"`
	Letters   []LetterView   `json:"letters"`
	Particles []fx.Particle  `json:"particles"`
	Events    []EventView    `json:"events"`
	Cues      []string       `json:"cues"`
}

// LetterView is a falling letter with its glyph as a string.
type LetterView struct {
	fx.FallingLetter
	Letter string `json:"letter"`
}

// EventView is the wire form of game.Event.
type EventView struct {
	Type    game.EventType `json:"type"`
	Letter  string         `json:"letter,omitempty"`
	Letters string         `json:"letters,omitempty"`
}

func newEventView(ev game.Event) EventView {
	v := EventView{Type: ev.Type, Letters: string(ev.Letters)}
	if ev.Letter != 0 {
		v.Letter = string(ev.Letter)
	}
	return v
}
