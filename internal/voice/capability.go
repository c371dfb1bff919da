package voice

// Capabilities records what the host offers. It is computed once and never
// changes afterwards.
type Capabilities struct {
	Recognition bool `json:"recognition"`
	Synthesis   bool `json:"synthesis"`
}

// Probe reports which engines are present. A nil engine means unsupported.
func Probe(rec RecognitionEngine, synth SpeechEngine) Capabilities {
	return Capabilities{
		Recognition: rec != nil,
		Synthesis:   synth != nil,
	}
}
