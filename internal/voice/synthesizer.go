package voice

import (
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/scheme-assist/backend/internal/metrics"
	"github.com/scheme-assist/backend/pkg/logger"
)

// Synthesizer speaks one utterance at a time in the active language. A new
// Speak preempts the previous utterance and its late events are ignored.
type Synthesizer struct {
	speakMu sync.Mutex

	mu       sync.Mutex
	engine   SpeechEngine
	tag      language.Tag
	gen      uint64
	speaking bool
}

func NewSynthesizer(engine SpeechEngine, tag language.Tag) *Synthesizer {
	return &Synthesizer{engine: engine, tag: tag}
}

func (s *Synthesizer) HasSupport() bool {
	return s.engine != nil
}

func (s *Synthesizer) SetLanguage(tag language.Tag) {
	s.mu.Lock()
	s.tag = tag
	s.mu.Unlock()
}

func (s *Synthesizer) Language() language.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tag
}

func (s *Synthesizer) IsSpeaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

func (s *Synthesizer) Speak(text string) {
	if s.engine == nil {
		return
	}
	s.speakMu.Lock()
	defer s.speakMu.Unlock()

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.speaking = false
	tag := s.tag
	s.mu.Unlock()

	s.engine.Cancel()

	u := Utterance{
		Text:  text,
		Lang:  tag.String(),
		Voice: SelectVoice(s.engine.Voices(), tag),
		Rate:  1,
		Pitch: 1,
	}
	if err := s.engine.Speak(u, s.events(gen)); err != nil {
		s.setSpeaking(gen, false)
		metrics.VoiceEvents.WithLabelValues("synthesizer", "error").Inc()
		logger.Warn("Failed to speak", zap.String("lang", u.Lang), zap.Error(err))
	}
}

// Stop cancels playback and reports not speaking right away.
func (s *Synthesizer) Stop() {
	if s.engine == nil {
		return
	}
	s.speakMu.Lock()
	defer s.speakMu.Unlock()

	s.mu.Lock()
	s.gen++
	s.speaking = false
	s.mu.Unlock()

	s.engine.Cancel()
	metrics.VoiceEvents.WithLabelValues("synthesizer", "cancel").Inc()
}

func (s *Synthesizer) setSpeaking(gen uint64, v bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.speaking = v
	return true
}

func (s *Synthesizer) events(gen uint64) UtteranceEvents {
	return UtteranceEvents{
		OnStart: func() {
			if s.setSpeaking(gen, true) {
				metrics.VoiceEvents.WithLabelValues("synthesizer", "start").Inc()
			}
		},
		OnEnd: func() {
			if s.setSpeaking(gen, false) {
				metrics.VoiceEvents.WithLabelValues("synthesizer", "end").Inc()
			}
		},
		OnError: func(err error) {
			if s.setSpeaking(gen, false) {
				metrics.VoiceEvents.WithLabelValues("synthesizer", "error").Inc()
				logger.Warn("Speech synthesis error", zap.Error(err))
			}
		},
	}
}

// SelectVoice returns the first voice whose locale is exactly tag, or nil to
// let the engine pick its default.
func SelectVoice(voices []Voice, tag language.Tag) *Voice {
	for i := range voices {
		t, err := language.Parse(voices[i].Lang)
		if err != nil {
			continue
		}
		if t == tag {
			v := voices[i]
			return &v
		}
	}
	return nil
}
