package session

import (
	"context"
	"time"
)

type State string

const (
	Idle            State = "idle"
	RegisteringName State = "registering_name"
	Presenting      State = "presenting"
	AwaitingAnswer  State = "awaiting_answer"
	Finished        State = "finished"
)

// Item is one entry of the daily work queue.
type Item struct {
	AssignmentID uint `json:"assignment_id"`
	QuestionID   uint `json:"question_id"`
	Line         int  `json:"line"`
	Debt         bool `json:"debt,omitempty"`
}

// Context is the per-chat conversation record.
type Context struct {
	State     State     `json:"state"`
	Day       string    `json:"day,omitempty"`
	Queue     []Item    `json:"queue,omitempty"`
	Cursor    int       `json:"cursor"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewContext() *Context {
	return &Context{State: Idle}
}

// Current returns the item under the cursor.
func (c *Context) Current() (Item, bool) {
	if c.Cursor < 0 || c.Cursor >= len(c.Queue) {
		return Item{}, false
	}
	return c.Queue[c.Cursor], true
}

// Advance moves the cursor forward and reports whether an item remains.
func (c *Context) Advance() bool {
	c.Cursor++
	return c.Cursor < len(c.Queue)
}

// Start replaces the queue and moves to Presenting at cursor 0.
func (c *Context) Start(day string, queue []Item) {
	c.State = Presenting
	c.Day = day
	c.Queue = queue
	c.Cursor = 0
}

func (c *Context) Reset() {
	c.State = Idle
	c.Day = ""
	c.Queue = nil
	c.Cursor = 0
}

func (c *Context) clone() *Context {
	out := *c
	if c.Queue != nil {
		out.Queue = make([]Item, len(c.Queue))
		copy(out.Queue, c.Queue)
	}
	return &out
}

// Store keeps conversation contexts keyed by chat id. Load returns an Idle
// context when nothing is stored.
type Store interface {
	Load(ctx context.Context, chatID int64) (*Context, error)
	Save(ctx context.Context, chatID int64, c *Context) error
	Delete(ctx context.Context, chatID int64) error
}
