package voice

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/scheme-assist/backend/internal/metrics"
	"github.com/scheme-assist/backend/pkg/logger"
)

type RecognitionState int

const (
	Idle RecognitionState = iota
	Listening
)

func (s RecognitionState) String() string {
	if s == Listening {
		return "listening"
	}
	return "idle"
}

// Recognizer turns a recognition engine into an Idle/Listening machine with a
// running transcript. Each session gets a generation number; events carrying
// an older generation are dropped.
type Recognizer struct {
	mu         sync.Mutex
	engine     RecognitionEngine
	tag        language.Tag
	session    RecognitionSession
	gen        uint64
	listening  bool
	transcript string
}

func NewRecognizer(engine RecognitionEngine, tag language.Tag) *Recognizer {
	return &Recognizer{engine: engine, tag: tag}
}

func (r *Recognizer) HasSupport() bool {
	return r.engine != nil
}

// Start begins listening. It does nothing without support or while already
// listening.
func (r *Recognizer) Start() {
	if r.engine == nil {
		return
	}

	r.mu.Lock()
	if r.listening {
		r.mu.Unlock()
		return
	}
	sess, gen := r.session, r.gen
	if sess == nil {
		r.gen++
		gen = r.gen
		tag := r.tag
		r.mu.Unlock()

		s, err := r.engine.NewSession(tag, r.handler(gen))
		if err != nil {
			metrics.VoiceEvents.WithLabelValues("recognizer", "error").Inc()
			logger.Warn("Failed to create recognition session",
				zap.String("lang", tag.String()),
				zap.Error(err),
			)
			return
		}

		r.mu.Lock()
		if r.gen != gen || r.session != nil {
			r.mu.Unlock()
			s.Stop()
			return
		}
		r.session = s
		sess = s
	}
	r.listening = true
	r.mu.Unlock()

	if err := sess.Start(); err != nil {
		r.mu.Lock()
		if r.gen == gen {
			r.listening = false
		}
		r.mu.Unlock()
		metrics.VoiceEvents.WithLabelValues("recognizer", "error").Inc()
		logger.Warn("Failed to start recognition", zap.Error(err))
		return
	}
	metrics.VoiceEvents.WithLabelValues("recognizer", "start").Inc()
}

// Stop ends listening. It does nothing while idle.
func (r *Recognizer) Stop() {
	r.mu.Lock()
	if !r.listening {
		r.mu.Unlock()
		return
	}
	sess := r.session
	r.listening = false
	r.mu.Unlock()

	if sess != nil {
		sess.Stop()
	}
	metrics.VoiceEvents.WithLabelValues("recognizer", "stop").Inc()
}

// Clear empties the transcript and leaves the listening state alone.
func (r *Recognizer) Clear() {
	r.mu.Lock()
	r.transcript = ""
	r.mu.Unlock()
}

// SetLanguage drops the current session. The next Start opens one for tag.
func (r *Recognizer) SetLanguage(tag language.Tag) {
	r.mu.Lock()
	old, wasListening := r.session, r.listening
	r.tag = tag
	r.session = nil
	r.listening = false
	r.gen++
	r.mu.Unlock()

	if old != nil && wasListening {
		old.Stop()
	}
}

func (r *Recognizer) Language() language.Tag {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tag
}

func (r *Recognizer) Transcript() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transcript
}

func (r *Recognizer) State() RecognitionState {
	if r.IsListening() {
		return Listening
	}
	return Idle
}

func (r *Recognizer) IsListening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}

func (r *Recognizer) handler(gen uint64) RecognitionHandler {
	return RecognitionHandler{
		OnResult: func(results []RecognitionResult) {
			var b strings.Builder
			for _, res := range results {
				b.WriteString(res.best())
			}
			r.mu.Lock()
			defer r.mu.Unlock()
			if r.gen != gen {
				return
			}
			r.transcript = b.String()
		},
		OnError: func(err error) {
			r.mu.Lock()
			stale := r.gen != gen
			var live RecognitionSession
			if !stale && r.listening {
				live = r.session
			}
			if !stale {
				r.listening = false
			}
			r.mu.Unlock()
			if stale {
				return
			}
			// The engine may keep capturing after it reports an error.
			if live != nil {
				live.Stop()
			}
			metrics.VoiceEvents.WithLabelValues("recognizer", "error").Inc()
			logger.Warn("Speech recognition error", zap.Error(err))
		},
		OnEnd: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if r.gen != gen {
				return
			}
			r.listening = false
		},
	}
}
