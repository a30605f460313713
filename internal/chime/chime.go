// Package chime plays the completion cue when a timer runs out.
package chime

import (
	"io"
	"time"
)

// Cue is a best-effort audible signal. Implementations ignore failures.
type Cue interface {
	Play()
}

// Bell rings the terminal bell twice, a short gap apart.
type Bell struct {
	W   io.Writer
	Gap time.Duration
}

func (b Bell) Play() {
	if b.W == nil {
		return
	}
	_, _ = io.WriteString(b.W, "\a")
	if b.Gap > 0 {
		time.Sleep(b.Gap)
	}
	_, _ = io.WriteString(b.W, "\a")
}

// Silent plays nothing.
type Silent struct{}

func (Silent) Play() {}

// Func adapts a plain function to Cue.
type Func func()

func (f Func) Play() {
	if f != nil {
		f()
	}
}
