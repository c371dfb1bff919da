package responder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/scheme-assist/backend/internal/metrics"
	"github.com/scheme-assist/backend/pkg/logger"
)

// DefaultDelay is how long the assistant "types" before answering.
const DefaultDelay = 1500 * time.Millisecond

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("a reply is already being prepared")
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type Message struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Speaker is the part of a speech synthesizer a conversation drives.
type Speaker interface {
	Speak(text string)
	Stop()
	IsSpeaking() bool
	HasSupport() bool
}

type Options struct {
	Delay   time.Duration
	Speaker Speaker
	Muted   bool

	now func() time.Time
}

// Conversation is one chat transcript. It allows a single reply in flight.
type Conversation struct {
	mu         sync.Mutex
	delay      time.Duration
	speaker    Speaker
	muted      bool
	processing bool
	messages   []Message
	lastID     int64
	lastUsed   time.Time
	now        func() time.Time
}

func NewConversation(opts Options) *Conversation {
	if opts.now == nil {
		opts.now = time.Now
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	c := &Conversation{
		delay:   opts.Delay,
		speaker: opts.Speaker,
		muted:   opts.Muted,
		now:     opts.now,
	}
	c.mu.Lock()
	c.appendLocked(Greeting, SenderBot)
	c.mu.Unlock()
	return c
}

// Send appends text as a user message, waits the response delay and appends
// the bot reply. Cancelling ctx during the wait drops the reply.
func (c *Conversation) Send(ctx context.Context, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		metrics.ChatRejected.WithLabelValues("empty").Inc()
		return Message{}, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.processing {
		c.mu.Unlock()
		metrics.ChatRejected.WithLabelValues("busy").Inc()
		return Message{}, ErrBusy
	}
	c.processing = true
	c.appendLocked(text, SenderUser)
	c.mu.Unlock()

	start := time.Now()
	topic, answer := Respond(text)

	timer := time.NewTimer(c.delay)
	select {
	case <-ctx.Done():
		timer.Stop()
		c.mu.Lock()
		c.processing = false
		c.mu.Unlock()
		logger.Debug("Chat reply cancelled", zap.Error(ctx.Err()))
		return Message{}, ctx.Err()
	case <-timer.C:
	}

	c.mu.Lock()
	msg := c.appendLocked(answer, SenderBot)
	c.processing = false
	muted := c.muted
	c.mu.Unlock()

	metrics.ChatReplies.WithLabelValues(string(topic)).Inc()
	metrics.ChatReplyDuration.Observe(time.Since(start).Seconds())

	if !muted && c.speaker != nil && c.speaker.HasSupport() {
		c.speaker.Speak(answer)
	}
	return msg, nil
}

func (c *Conversation) appendLocked(text string, sender Sender) Message {
	now := c.now()
	id := now.UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	c.lastUsed = now

	msg := Message{ID: id, Text: text, Sender: sender, Timestamp: now}
	c.messages = append(c.messages, msg)
	return msg
}

func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) IsProcessing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processing
}

// SetMuted toggles spoken replies. Muting stops anything currently playing.
func (c *Conversation) SetMuted(muted bool) {
	c.mu.Lock()
	c.muted = muted
	c.mu.Unlock()

	if muted && c.speaker != nil && c.speaker.IsSpeaking() {
		c.speaker.Stop()
	}
}

func (c *Conversation) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

func (c *Conversation) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

// Registry holds one conversation per session id.
type Registry struct {
	mu       sync.Mutex
	opts     Options
	sessions map[string]*Conversation
}

func NewRegistry(opts Options) *Registry {
	return &Registry{
		opts:     opts,
		sessions: make(map[string]*Conversation),
	}
}

// Get returns the conversation for id, creating it on first use.
func (r *Registry) Get(id string) *Conversation {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.sessions[id]; ok {
		return c
	}
	c := NewConversation(r.opts)
	r.sessions[id] = c
	metrics.ChatSessions.Set(float64(len(r.sessions)))
	return c
}

// Lookup returns the conversation for id without creating one.
func (r *Registry) Lookup(id string) (*Conversation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.sessions[id]
	return c, ok
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	metrics.ChatSessions.Set(float64(len(r.sessions)))
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Prune drops idle conversations that have not been used since cutoff and
// are not waiting on a reply. It returns how many were removed.
func (r *Registry) Prune(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, c := range r.sessions {
		if c.IsProcessing() || !c.idleSince().Before(cutoff) {
			continue
		}
		delete(r.sessions, id)
		removed++
	}
	if removed > 0 {
		metrics.ChatSessions.Set(float64(len(r.sessions)))
		logger.Debug("Pruned idle conversations", zap.Int("removed", removed))
	}
	return removed
}
