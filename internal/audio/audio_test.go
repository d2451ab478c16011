package audio

import (
	"errors"
	"math"
	"testing"
)

type recorder struct {
	cues   []string
	volume float64
	err    error
}

func (r *recorder) PlayCue(name string) error {
	r.cues = append(r.cues, name)
	return r.err
}

func (r *recorder) SetVolume(v float64) error {
	r.volume = v
	return nil
}

func TestPlayForwards(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(rec, true, 0.3)
	d.Play(CueCorrect)
	d.Play(CueVictory)
	if len(rec.cues) != 2 || rec.cues[0] != CueCorrect || rec.cues[1] != CueVictory {
		t.Fatalf("cues %v", rec.cues)
	}
	if rec.volume != 0.3 {
		t.Fatalf("initial volume not pushed: %f", rec.volume)
	}
}

func TestPlaySwallowsFailures(t *testing.T) {
	tests := []struct {
		name   string
		player Player
	}{
		{"error", PlayerFunc(func(string) error { return errors.New("device busy") })},
		{"panic", PlayerFunc(func(string) error { panic("driver crashed") })},
		{"nil player", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher(tt.player, true, 1)
			d.Play(CueDefeat) // must not panic
		})
	}
}

func TestToggleSound(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(rec, true, 0.5)
	if d.ToggleSound() {
		t.Fatal("toggle from on should turn off")
	}
	d.Play(CueError)
	if len(rec.cues) != 0 {
		t.Fatalf("cue played while disabled: %v", rec.cues)
	}
	if !d.ToggleSound() {
		t.Fatal("toggle from off should turn on")
	}
	d.Play(CueError)
	if len(rec.cues) != 1 {
		t.Fatalf("cues %v", rec.cues)
	}
}

func TestVolumeClamped(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(rec, true, 0.3)

	tests := []struct {
		delta float64
		want  float64
	}{
		{0.5, 0.8},
		{0.5, 1},
		{-2, 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		got := d.AdjustVolume(tt.delta)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("AdjustVolume(%v) = %v, want %v", tt.delta, got, tt.want)
		}
		if rec.volume != got || d.Settings().Volume != got {
			t.Fatalf("volume not propagated: player %v settings %v", rec.volume, d.Settings().Volume)
		}
	}
}

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{err: errors.New("boom")}
	m := Multi{a, b, PlayerFunc(func(string) error { panic("x") })}
	err := m.PlayCue(CueVictory)
	if err == nil {
		t.Fatal("expected joined error")
	}
	if len(a.cues) != 1 || len(b.cues) != 1 {
		t.Fatalf("not every player called: %v %v", a.cues, b.cues)
	}
	if err := m.SetVolume(0.7); err != nil || a.volume != 0.7 || b.volume != 0.7 {
		t.Fatalf("SetVolume: %v (%v, %v)", err, a.volume, b.volume)
	}
}
