// Package system speaks through whichever command-line synthesizer the host
// has installed.
package system

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/scheme-assist/backend/internal/voice"
)

var ErrNoSynthesizer = errors.New("no speech synthesizer found on PATH")

// backend describes how to drive one synthesizer binary. When stdin is true
// the text is written to the process input instead of the argument list.
type backend struct {
	bin    string
	voices []voice.Voice
	args   func(u voice.Utterance) []string
	stdin  bool
}

var espeakVoices = []voice.Voice{
	{Name: "en", Lang: "en-IN", Default: true},
	{Name: "hi", Lang: "hi-IN"},
	{Name: "gu", Lang: "gu-IN"},
	{Name: "ta", Lang: "ta-IN"},
	{Name: "mr", Lang: "mr-IN"},
	{Name: "bn", Lang: "bn-IN"},
}

func espeakArgs(u voice.Utterance) []string {
	args := []string{"--stdin"}
	if u.Voice != nil {
		args = append(args, "-v", u.Voice.Name)
	}
	if u.Rate > 0 {
		args = append(args, "-s", strconv.Itoa(int(175*u.Rate)))
	}
	if u.Pitch > 0 {
		args = append(args, "-p", strconv.Itoa(int(50*u.Pitch)))
	}
	return args
}

func spdArgs(u voice.Utterance) []string {
	args := []string{"-w"}
	if lang := primary(u.Lang); lang != "" {
		args = append(args, "-l", lang)
	}
	return append(args, "--", u.Text)
}

func sayArgs(u voice.Utterance) []string {
	if u.Voice != nil {
		return []string{"-v", u.Voice.Name}
	}
	return nil
}

func primary(tag string) string {
	lang, _, _ := strings.Cut(tag, "-")
	return lang
}

var backends = []backend{
	{bin: "espeak-ng", voices: espeakVoices, args: espeakArgs, stdin: true},
	{bin: "espeak", voices: espeakVoices, args: espeakArgs, stdin: true},
	{bin: "spd-say", args: spdArgs},
	{bin: "say", voices: []voice.Voice{
		{Name: "Rishi", Lang: "en-IN", Default: true},
		{Name: "Lekha", Lang: "hi-IN"},
	}, args: sayArgs, stdin: true},
}

// Engine runs each utterance as a subprocess. Cancel kills it.
type Engine struct {
	b backend

	mu      sync.Mutex
	current *exec.Cmd
}

// Detect returns an engine for the first synthesizer found on PATH.
func Detect() (*Engine, error) {
	return detect(exec.LookPath)
}

func detect(lookPath func(string) (string, error)) (*Engine, error) {
	for _, b := range backends {
		path, err := lookPath(b.bin)
		if err != nil {
			continue
		}
		b.bin = path
		return &Engine{b: b}, nil
	}
	return nil, ErrNoSynthesizer
}

// Name is the resolved path of the synthesizer binary.
func (e *Engine) Name() string {
	return e.b.bin
}

func (e *Engine) Voices() []voice.Voice {
	out := make([]voice.Voice, len(e.b.voices))
	copy(out, e.b.voices)
	return out
}

// Speak starts the synthesizer and returns once it is running. Events fire
// from a background goroutine that waits for the process.
func (e *Engine) Speak(u voice.Utterance, ev voice.UtteranceEvents) error {
	cmd := exec.Command(e.b.bin, e.b.args(u)...)
	if e.b.stdin {
		cmd.Stdin = strings.NewReader(u.Text)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", e.b.bin, err)
	}

	e.mu.Lock()
	e.current = cmd
	e.mu.Unlock()

	if ev.OnStart != nil {
		ev.OnStart()
	}

	go func() {
		err := cmd.Wait()

		e.mu.Lock()
		if e.current == cmd {
			e.current = nil
		}
		e.mu.Unlock()

		if err != nil {
			if ev.OnError != nil {
				ev.OnError(err)
			}
			return
		}
		if ev.OnEnd != nil {
			ev.OnEnd()
		}
	}()
	return nil
}

func (e *Engine) Cancel() {
	e.mu.Lock()
	cmd := e.current
	e.current = nil
	e.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
