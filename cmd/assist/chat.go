package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scheme-assist/backend/internal/i18n"
	"github.com/scheme-assist/backend/internal/responder"
	"github.com/scheme-assist/backend/internal/voice"
	"github.com/scheme-assist/backend/internal/voice/system"
	"github.com/scheme-assist/backend/pkg/logger"
)

func newChatCmd(a *app) *cobra.Command {
	var (
		langID string
		muted  bool
		speech bool
		delay  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask the assistant about schemes",
		Long: `chat starts an interactive conversation. Replies are spoken aloud when
the host has a speech synthesizer (espeak-ng, espeak, spd-say or say).

Commands:
  /mute         toggle spoken replies
  /lang [id]    show or switch the voice language
  /mic          toggle voice input
  /quit         leave the chat`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("delay") {
				delay = a.cfg.Chat.ResponseDelay()
			}
			if langID == "" {
				langID = a.cfg.Voice.DefaultLanguage
			}
			lang, ok := i18n.ByID(langID)
			if !ok {
				return fmt.Errorf("unknown language %q", langID)
			}

			var engine voice.SpeechEngine
			if speech {
				e, err := system.Detect()
				if err != nil {
					logger.Debug("Speech output unavailable", zap.Error(err))
				} else {
					logger.Debug("Using speech synthesizer", zap.String("bin", e.Name()))
					engine = e
				}
			}

			synth := voice.NewSynthesizer(engine, lang.Tag())
			defer synth.Stop()

			r := &repl{
				out:   cmd.OutOrStdout(),
				lang:  lang,
				caps:  voice.Probe(nil, engine),
				synth: synth,
				rec:   voice.NewRecognizer(nil, lang.Tag()),
				conv: responder.NewConversation(responder.Options{
					Delay:   delay,
					Speaker: synth,
					Muted:   muted,
				}),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return r.run(ctx, cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&langID, "lang", "", "voice language id (english, hindi, gujarati, tamil, marathi, bengali)")
	cmd.Flags().BoolVar(&muted, "mute", false, "start with spoken replies muted")
	cmd.Flags().BoolVar(&speech, "voice", true, "use the host speech synthesizer when one is installed")
	cmd.Flags().DurationVar(&delay, "delay", responder.DefaultDelay, "pause before each reply")
	return cmd
}

type repl struct {
	out   io.Writer
	lang  i18n.Language
	caps  voice.Capabilities
	synth *voice.Synthesizer
	rec   *voice.Recognizer
	conv  *responder.Conversation
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		s := bufio.NewScanner(in)
		for s.Scan() {
			select {
			case lines <- s.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for _, m := range r.conv.Messages() {
		r.print(m)
	}
	if !r.caps.Synthesis {
		fmt.Fprintln(r.out, "(Voice output is not available on this system.)")
	}

	for {
		fmt.Fprint(r.out, "> ")
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(r.out)
				return nil
			}
			line = strings.TrimSpace(l)
		}

		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := r.command(ctx, line); quit {
				return nil
			}
			continue
		}
		if err := r.send(ctx, line); err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}
	}
}

func (r *repl) send(ctx context.Context, text string) error {
	fmt.Fprintln(r.out, "Assistant is typing...")
	reply, err := r.conv.Send(ctx, text)
	if err != nil {
		return err
	}
	r.print(reply)
	return nil
}

func (r *repl) command(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true

	case "/mute":
		r.conv.SetMuted(!r.conv.Muted())
		if r.conv.Muted() {
			fmt.Fprintln(r.out, "Voice output muted.")
		} else {
			fmt.Fprintln(r.out, "Voice output unmuted.")
		}

	case "/lang":
		if len(fields) < 2 {
			fmt.Fprintf(r.out, "Current language: %s\n", r.lang.Name)
			for _, l := range i18n.Languages() {
				fmt.Fprintf(r.out, "  %-10s %s\n", l.ID, l.Name)
			}
			return false
		}
		lang, ok := i18n.ByID(strings.ToLower(fields[1]))
		if !ok {
			fmt.Fprintf(r.out, "Unknown language %q\n", fields[1])
			return false
		}
		r.lang = lang
		r.synth.SetLanguage(lang.Tag())
		r.rec.SetLanguage(lang.Tag())
		fmt.Fprintf(r.out, "Language set to %s\n", lang.Name)

	case "/mic":
		if !r.rec.HasSupport() {
			fmt.Fprintln(r.out, "Voice input is not supported on this system.")
			return false
		}
		if !r.rec.IsListening() {
			r.rec.Start()
			fmt.Fprintln(r.out, "Listening... use /mic again to stop.")
			return false
		}
		r.rec.Stop()
		transcript := strings.TrimSpace(r.rec.Transcript())
		r.rec.Clear()
		if transcript == "" {
			fmt.Fprintln(r.out, "Nothing was heard.")
			return false
		}
		fmt.Fprintf(r.out, "You said: %s\n", transcript)
		if err := r.send(ctx, transcript); err != nil {
			fmt.Fprintf(r.out, "Could not send: %v\n", err)
		}

	case "/help":
		fmt.Fprintln(r.out, "Commands: /mute, /lang [id], /mic, /quit")

	default:
		fmt.Fprintf(r.out, "Unknown command %s, try /help\n", fields[0])
	}
	return false
}

func (r *repl) print(m responder.Message) {
	who := "You"
	if m.Sender == responder.SenderBot {
		who = "Assistant"
	}
	fmt.Fprintf(r.out, "%s [%s]: %s\n", who, m.Timestamp.Format("15:04"), m.Text)
}
