package responder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespond(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Topic
	}{
		{name: "mixed case pension", input: "What about Pension plans?", want: TopicPension},
		{name: "scholarship", input: "any SCHOLARSHIP for my son", want: TopicEducation},
		{name: "education", input: "education loans", want: TopicEducation},
		{name: "farmer", input: "I am a Farmer", want: TopicAgriculture},
		{name: "agriculture", input: "agriculture subsidy", want: TopicAgriculture},
		{name: "health", input: "health cover", want: TopicHealth},
		{name: "insurance", input: "crop Insurance", want: TopicHealth},
		{name: "medical", input: "medical bills", want: TopicHealth},
		{name: "pension beats farmer", input: "pension for a farmer", want: TopicPension},
		{name: "education beats health", input: "health education", want: TopicEducation},
		{name: "agriculture beats insurance", input: "farmer insurance", want: TopicAgriculture},
		{name: "nothing matches", input: "hello there", want: TopicFallback},
		{name: "empty", input: "", want: TopicFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, text := Respond(tt.input)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, text)
		})
	}
}

func TestRespond_CannedText(t *testing.T) {
	_, text := Respond("pension")
	assert.Contains(t, text, "National Pension Scheme")

	_, text = Respond("???")
	assert.Equal(t, fallbackText, text)
}
