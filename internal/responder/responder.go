// Package responder answers chat messages with canned guidance and keeps the
// transcript of a conversation.
package responder

import (
	"strings"

	"golang.org/x/text/cases"
)

type Topic string

const (
	TopicPension     Topic = "pension"
	TopicEducation   Topic = "education"
	TopicAgriculture Topic = "agriculture"
	TopicHealth      Topic = "health"
	TopicFallback    Topic = "fallback"
)

type reply struct {
	topic    Topic
	keywords []string
	text     string
}

// replies are checked in order; the first topic with a matching keyword wins.
var replies = []reply{
	{
		topic:    TopicPension,
		keywords: []string{"pension"},
		text:     "The National Pension Scheme (NPS) is available for all citizens. To apply, you need to be between 18-60 years of age. You can contribute a minimum of ₹500 per month or ₹6,000 per year.",
	},
	{
		topic:    TopicEducation,
		keywords: []string{"education", "scholarship"},
		text:     "For education scholarships, check the National Scholarship Portal. Eligibility varies by scheme, but most require family income below ₹6 lakh per annum and good academic performance.",
	},
	{
		topic:    TopicAgriculture,
		keywords: []string{"farmer", "agriculture"},
		text:     "PM-KISAN provides income support of ₹6,000 per year to all landholding farmer families. Register through the local agriculture officer or the PM-KISAN portal with your land records and bank account details.",
	},
	{
		topic:    TopicHealth,
		keywords: []string{"health", "insurance", "medical"},
		text:     "Ayushman Bharat provides health coverage up to ₹5 lakh per family per year. It's available to poor and vulnerable families identified through the SECC database.",
	},
}

const fallbackText = "Thank you for your question. To find specific government schemes, please provide details about your area of interest (like education, health, agriculture), your state, and your specific requirements. I can then suggest relevant schemes and eligibility criteria."

// Greeting opens every conversation.
const Greeting = "Hello! I'm your AI Assistant for government schemes. How can I help you today?"

// Respond picks the canned answer for text. It is a pure function.
func Respond(text string) (Topic, string) {
	folded := cases.Fold().String(text)
	for _, r := range replies {
		for _, kw := range r.keywords {
			if strings.Contains(folded, kw) {
				return r.topic, r.text
			}
		}
	}
	return TopicFallback, fallbackText
}
