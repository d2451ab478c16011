// internal/engine/loop.go
//
// The frame loop.
// Responsibilities:
//   - Own a GameContext on a single goroutine (Run).
//   - Tick it at a fixed interval and fan frames out to subscribers.
//   - Apply commands sent from other goroutines (HTTP handlers, streams)
//     and hand back their results.
//
// Notes:
//   - Subscribers that fall behind lose frames; the loop never blocks on them.
//   - Commands issued after Run returned fail with ErrStopped.

package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/audio"
	"github.com/robalobadob/hangman/internal/game"
)

// ErrStopped is returned by commands once the loop has exited.
var ErrStopped = errors.New("engine: loop stopped")

// frameBuffer is the channel depth of one subscriber.
const frameBuffer = 4

type command struct {
	apply func(g *GameContext)
	done  chan struct{}
}

// Loop drives a GameContext.
type Loop struct {
	g        *GameContext
	interval time.Duration
	cmds     chan command
	stopped  chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	subs    map[int]chan Frame
	nextSub int
}

// NewLoop wraps g. interval <= 0 means 60 frames per second.
func NewLoop(g *GameContext, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Loop{
		g:        g,
		interval: interval,
		cmds:     make(chan command),
		stopped:  make(chan struct{}),
		subs:     make(map[int]chan Frame),
	}
}

// Run ticks and serves commands until ctx is cancelled. Subscriber
// channels are closed on exit.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer func() {
		ticker.Stop()
		l.stopOnce.Do(func() { close(l.stopped) })
		l.closeSubscribers()
		log.Info().Msg("frame loop stopped")
	}()

	log.Info().Dur("interval", l.interval).Msg("frame loop started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-l.cmds:
			cmd.apply(l.g)
			close(cmd.done)
		case <-ticker.C:
			l.publish(l.g.Tick())
		}
	}
}

// Subscribe returns a frame channel and a cancel func. The channel is
// closed by cancel or when the loop stops.
func (l *Loop) Subscribe() (<-chan Frame, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan Frame, frameBuffer)
	select {
	case <-l.stopped:
		close(ch)
		return ch, func() {}
	default:
	}

	id := l.nextSub
	l.nextSub++
	l.subs[id] = ch
	return ch, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if c, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(c)
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (l *Loop) Subscribers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

func (l *Loop) publish(f Frame) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range l.subs {
		select {
		case ch <- f:
		default:
			// subscriber behind, frame dropped
		}
	}
}

func (l *Loop) closeSubscribers() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, ch := range l.subs {
		close(ch)
		delete(l.subs, id)
	}
}

// do runs fn on the loop goroutine and waits for it.
func (l *Loop) do(ctx context.Context, fn func(g *GameContext)) error {
	cmd := command{apply: fn, done: make(chan struct{})}
	select {
	case l.cmds <- cmd:
	case <-l.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	// once accepted the command always completes
	<-cmd.done
	return nil
}

// ------------------------------ commands -----------------------------------

// GuessResult is the reply to a letter guess.
type GuessResult struct {
	Outcome game.GuessOutcome `json:"outcome"`
	Game    game.View         `json:"game"`
}

// HintResult is the reply to a hint request.
type HintResult struct {
	Applied bool      `json:"applied"`
	Letters string    `json:"letters"`
	Game    game.View `json:"game"`
}

// NewGame starts a new round.
func (l *Loop) NewGame(ctx context.Context) (game.View, error) {
	var (
		view game.View
		err  error
	)
	if e := l.do(ctx, func(g *GameContext) {
		err = g.NewGame()
		view = g.Session().View()
	}); e != nil {
		return game.View{}, e
	}
	return view, err
}

// Guess applies a letter. game.ErrInvalidLetter is returned for non A–Z.
func (l *Loop) Guess(ctx context.Context, c rune) (GuessResult, error) {
	var (
		res GuessResult
		err error
	)
	if e := l.do(ctx, func(g *GameContext) {
		res.Outcome, err = g.GuessLetter(c)
		res.Game = g.Session().View()
	}); e != nil {
		return GuessResult{}, e
	}
	return res, err
}

// Hint asks for a hint.
func (l *Loop) Hint(ctx context.Context) (HintResult, error) {
	var res HintResult
	err := l.do(ctx, func(g *GameContext) {
		out := g.Hint()
		res = HintResult{Applied: out.Applied, Letters: string(out.Letters), Game: g.Session().View()}
	})
	return res, err
}

// ToggleSound flips the sound switch.
func (l *Loop) ToggleSound(ctx context.Context) (audio.Settings, error) {
	var s audio.Settings
	err := l.do(ctx, func(g *GameContext) {
		g.ToggleSound()
		s = g.audio.Settings()
	})
	return s, err
}

// AdjustVolume moves the music volume by delta.
func (l *Loop) AdjustVolume(ctx context.Context, delta float64) (audio.Settings, error) {
	var s audio.Settings
	err := l.do(ctx, func(g *GameContext) {
		g.AdjustVolume(delta)
		s = g.audio.Settings()
	})
	return s, err
}

// ToggleLabel flips the category hint display.
func (l *Loop) ToggleLabel(ctx context.Context) (bool, error) {
	var on bool
	err := l.do(ctx, func(g *GameContext) { on = g.ToggleLabel() })
	return on, err
}

// Frame returns the current frame without advancing it.
func (l *Loop) Frame(ctx context.Context) (Frame, error) {
	var f Frame
	err := l.do(ctx, func(g *GameContext) { f = g.Snapshot() })
	return f, err
}
