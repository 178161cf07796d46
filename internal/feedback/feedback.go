// Package feedback turns mutation outcomes into short-lived toast messages.
package feedback

import (
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/odonto/internal/grid"
)

// Mutation kinds reported by the admin screens.
const (
	RecordDeleted = "registry_deleted"
	RecordSaved   = "registry_saved"
)

// DefaultTTL is how long a toast stays on screen.
const DefaultTTL = 4 * time.Second

var successText = map[string]string{
	RecordDeleted: "Record deleted",
	RecordSaved:   "Record saved",
}

// Msg is a single user-facing notice.
type Msg struct {
	Kind string
	Text string
	Err  error
	At   time.Time
}

// Failed reports whether the notice is an error.
func (m Msg) Failed() bool { return m.Err != nil }

// Channel implements grid.Feedback by emitting Msg values into the program.
type Channel struct {
	now func() time.Time
}

var _ grid.Feedback = (*Channel)(nil)

// NewChannel returns a Channel stamped with the wall clock.
func NewChannel() *Channel {
	return &Channel{now: time.Now}
}

// Success reports a completed mutation.
func (c *Channel) Success(kind string) tea.Cmd {
	text, ok := successText[kind]
	if !ok {
		text = "Done"
	}
	msg := Msg{Kind: kind, Text: text, At: c.clock()}
	return func() tea.Msg { return msg }
}

// Failure reports a failed mutation.
func (c *Channel) Failure(err error) tea.Cmd {
	msg := Msg{Text: fmt.Sprintf("Operation failed: %v", err), Err: err, At: c.clock()}
	return func() tea.Msg { return msg }
}

func (c *Channel) clock() time.Time {
	if c == nil || c.now == nil {
		return time.Now()
	}
	return c.now()
}

type expireMsg struct{ seq int }

// Toast holds the most recent notice until it expires.
type Toast struct {
	ttl     time.Duration
	seq     int
	current *Msg
}

// NewToast returns a toast that clears notices after ttl.
func NewToast(ttl time.Duration) Toast {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Toast{ttl: ttl}
}

// Update shows incoming notices and clears expired ones.
func (t Toast) Update(msg tea.Msg) (Toast, tea.Cmd) {
	switch msg := msg.(type) {
	case Msg:
		t.seq++
		t.current = &msg
		if msg.Failed() {
			log.Printf("[FEEDBACK] level=error text=%q", msg.Text)
		} else {
			log.Printf("[FEEDBACK] level=info kind=%s text=%q", msg.Kind, msg.Text)
		}
		seq := t.seq
		return t, tea.Tick(t.ttl, func(time.Time) tea.Msg { return expireMsg{seq: seq} })
	case expireMsg:
		// A newer notice owns the screen.
		if msg.seq == t.seq {
			t.current = nil
		}
	}
	return t, nil
}

// Current returns the visible notice, if any.
func (t Toast) Current() (Msg, bool) {
	if t.current == nil {
		return Msg{}, false
	}
	return *t.current, true
}
