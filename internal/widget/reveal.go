package widget

import (
	"sync"
	"time"
)

// Pacing sets the delay after each revealed character.
type Pacing struct {
	Space       time.Duration
	Punctuation time.Duration
	Default     time.Duration
}

// DefaultPacing is the typing cadence of the browser widget.
func DefaultPacing() Pacing {
	return Pacing{
		Space:       8 * time.Millisecond,
		Punctuation: 120 * time.Millisecond,
		Default:     18 * time.Millisecond,
	}
}

// IsZero reports whether every delay is zero.
func (p Pacing) IsZero() bool {
	return p.Space == 0 && p.Punctuation == 0 && p.Default == 0
}

// delayAfter returns the pause following r.
func (p Pacing) delayAfter(r rune) time.Duration {
	switch r {
	case ' ':
		return p.Space
	case '.', '!', '?':
		return p.Punctuation
	default:
		return p.Default
	}
}

// Revealer presents a reply one character at a time on a chain of timers.
// At most one reveal runs at a time; Cancel guarantees no frame or
// completion fires afterwards.
type Revealer struct {
	mu     sync.Mutex
	pacing Pacing
	timer  *time.Timer
	gen    uint64
	active bool
}

// NewRevealer creates a revealer with the given pacing.
func NewRevealer(p Pacing) *Revealer {
	return &Revealer{pacing: p}
}

// Start reveals text, calling frame with each growing prefix and done once
// the full text is shown. A running reveal is cancelled first. With zero
// pacing the text is shown in a single frame before Start returns.
func (r *Revealer) Start(text string, frame func(string), done func()) {
	r.mu.Lock()
	r.stopLocked()
	if r.pacing.IsZero() {
		r.mu.Unlock()
		frame(text)
		done()
		return
	}
	r.gen++
	gen := r.gen
	r.active = true
	r.mu.Unlock()

	runes := []rune(text)
	i := 0

	var step func()
	step = func() {
		r.mu.Lock()
		if r.gen != gen {
			r.mu.Unlock()
			return
		}
		r.timer = nil
		if i >= len(runes) {
			r.active = false
			r.mu.Unlock()
			done()
			return
		}
		i++
		partial := string(runes[:i])
		delay := r.pacing.delayAfter(runes[i-1])
		r.mu.Unlock()

		frame(partial)

		r.mu.Lock()
		if r.gen == gen {
			r.timer = time.AfterFunc(delay, step)
		}
		r.mu.Unlock()
	}
	step()
}

// Active reports whether a reveal is in progress.
func (r *Revealer) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Cancel stops a running reveal.
func (r *Revealer) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Revealer) stopLocked() {
	r.gen++
	r.active = false
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
