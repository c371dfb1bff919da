package bookmarks

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scheme-assist/backend/internal/i18n"
)

func TestShareText(t *testing.T) {
	it := Item{Name: "Scheme", Description: "Helps people", Benefits: "₹100"}
	assert.Equal(t, "Scheme: Helps people - ₹100", ShareText(it))
}

func TestExportText(t *testing.T) {
	it := Item{
		Name:        "Ayushman",
		Description: "Health cover",
		Eligibility: "Poor families",
		Benefits:    "₹5 lakh",
		Category:    "Healthcare",
	}

	want := "Ayushman\n--------\n\n" +
		"Description: Health cover\n\n" +
		"Eligibility: Poor families\n\n" +
		"Benefits: ₹5 lakh\n\n" +
		"Category: Healthcare\n"
	english, _ := i18n.ByID("english")
	assert.Equal(t, want, ExportText(it, i18n.Stub{Language: english}))

	hindi, _ := i18n.ByID("hindi")
	assert.Contains(t, ExportText(it, i18n.Stub{Language: hindi}), "[हिन्दी] Benefits: ₹5 lakh")
}

func TestExportFilename(t *testing.T) {
	tests := map[string]string{
		"PM Kisan Samman Nidhi":       "pm-kisan-samman-nidhi.txt",
		"  Ayushman   Bharat ":        "ayushman-bharat.txt",
		"Pradhan Mantri\tAwas Yojana": "pradhan-mantri-awas-yojana.txt",
	}
	for in, want := range tests {
		assert.Equal(t, want, ExportFilename(in), in)
	}
}
