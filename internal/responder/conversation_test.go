package responder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeSpeaker struct {
	mu       sync.Mutex
	support  bool
	speaking bool
	spoken   []string
	stops    int
}

func (f *fakeSpeaker) Speak(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, text)
	f.speaking = true
}

func (f *fakeSpeaker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.speaking = false
}

func (f *fakeSpeaker) IsSpeaking() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.speaking
}

func (f *fakeSpeaker) HasSupport() bool { return f.support }

func frozenClock() func() time.Time {
	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return t0 }
}

func TestConversation_StartsWithGreeting(t *testing.T) {
	c := NewConversation(Options{})

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, SenderBot, msgs[0].Sender)
	assert.Equal(t, Greeting, msgs[0].Text)
	assert.False(t, c.IsProcessing())
}

func TestConversation_RejectsEmptyInput(t *testing.T) {
	c := NewConversation(Options{})

	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := c.Send(context.Background(), in)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	assert.Len(t, c.Messages(), 1)
}

func TestConversation_SendAppendsReply(t *testing.T) {
	c := NewConversation(Options{now: frozenClock()})

	msg, err := c.Send(context.Background(), "What about Pension plans?")
	require.NoError(t, err)
	assert.Equal(t, SenderBot, msg.Sender)
	assert.Contains(t, msg.Text, "National Pension Scheme")

	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, SenderUser, msgs[1].Sender)
	assert.Equal(t, "What about Pension plans?", msgs[1].Text)
	assert.Equal(t, msg, msgs[2])
	assert.False(t, c.IsProcessing())
}

func TestConversation_IDsStrictlyIncrease(t *testing.T) {
	c := NewConversation(Options{now: frozenClock()})

	for i := 0; i < 3; i++ {
		_, err := c.Send(context.Background(), "hello")
		require.NoError(t, err)
	}

	msgs := c.Messages()
	for i := 1; i < len(msgs); i++ {
		assert.Greater(t, msgs[i].ID, msgs[i-1].ID)
	}
}

func TestConversation_WaitsForDelay(t *testing.T) {
	c := NewConversation(Options{Delay: 50 * time.Millisecond})

	start := time.Now()
	_, err := c.Send(context.Background(), "health")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestConversation_RejectsConcurrentSend(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewConversation(Options{Delay: 200 * time.Millisecond})

	done := make(chan error, 1)
	go func() {
		_, err := c.Send(context.Background(), "farmer")
		done <- err
	}()
	require.Eventually(t, c.IsProcessing, time.Second, 5*time.Millisecond)

	_, err := c.Send(context.Background(), "health")
	assert.ErrorIs(t, err, ErrBusy)

	require.NoError(t, <-done)
	assert.Len(t, c.Messages(), 3)
}

func TestConversation_CancelDropsReply(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewConversation(Options{Delay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := c.Send(ctx, "scholarship")
		done <- err
	}()
	require.Eventually(t, c.IsProcessing, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.False(t, c.IsProcessing())

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, SenderUser, msgs[1].Sender)
}

func TestConversation_SpeaksReplyUnlessMuted(t *testing.T) {
	sp := &fakeSpeaker{support: true}
	c := NewConversation(Options{Speaker: sp})

	msg, err := c.Send(context.Background(), "medical")
	require.NoError(t, err)
	assert.Equal(t, []string{msg.Text}, sp.spoken)

	c.SetMuted(true)
	assert.True(t, c.Muted())
	assert.Equal(t, 1, sp.stops)

	_, err = c.Send(context.Background(), "medical")
	require.NoError(t, err)
	assert.Len(t, sp.spoken, 1)
}

func TestConversation_NoSpeechWithoutSupport(t *testing.T) {
	sp := &fakeSpeaker{support: false}
	c := NewConversation(Options{Speaker: sp})

	_, err := c.Send(context.Background(), "pension")
	require.NoError(t, err)
	assert.Empty(t, sp.spoken)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(Options{})

	a := r.Get("a")
	assert.Same(t, a, r.Get("a"))
	assert.NotSame(t, a, r.Get("b"))
	assert.Equal(t, 2, r.Len())

	_, ok := r.Lookup("c")
	assert.False(t, ok)

	r.Remove("b")
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Prune(t *testing.T) {
	r := NewRegistry(Options{})
	r.Get("old")

	assert.Equal(t, 0, r.Prune(time.Now().Add(-time.Minute)))
	assert.Equal(t, 1, r.Prune(time.Now().Add(time.Minute)))
	assert.Equal(t, 0, r.Len())
}
