// Package voice adapts host speech recognition and speech synthesis into two
// small state machines the chat front-ends drive.
package voice

import "golang.org/x/text/language"

// RecognitionResult is one recognized segment, best alternative first.
type RecognitionResult struct {
	Alternatives []string
	Final        bool
}

func (r RecognitionResult) best() string {
	if len(r.Alternatives) == 0 {
		return ""
	}
	return r.Alternatives[0]
}

// RecognitionHandler receives session events. OnResult is always called with
// every result of the session so far, interim and final.
type RecognitionHandler struct {
	OnResult func(results []RecognitionResult)
	OnError  func(err error)
	OnEnd    func()
}

// RecognitionEngine creates continuous, interim-result sessions for a locale.
type RecognitionEngine interface {
	NewSession(tag language.Tag, h RecognitionHandler) (RecognitionSession, error)
}

type RecognitionSession interface {
	Start() error
	Stop()
}

type Voice struct {
	Name    string
	Lang    string
	Default bool
}

type Utterance struct {
	Text  string
	Lang  string
	Voice *Voice
	Rate  float64
	Pitch float64
}

type UtteranceEvents struct {
	OnStart func()
	OnEnd   func()
	OnError func(err error)
}

// SpeechEngine plays one utterance at a time. Cancel drops whatever is playing.
type SpeechEngine interface {
	Voices() []Voice
	Speak(u Utterance, ev UtteranceEvents) error
	Cancel()
}
