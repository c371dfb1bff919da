package bookmarks

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/scheme-assist/backend/internal/i18n"
)

// ShareText is the one-line summary copied when a scheme is shared.
func ShareText(it Item) string {
	return fmt.Sprintf("%s: %s - %s", it.Name, it.Description, it.Benefits)
}

// ExportText renders the plain-text sheet offered for download. Field labels
// go through tr.
func ExportText(it Item, tr i18n.Translator) string {
	var b strings.Builder
	b.WriteString(it.Name)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", utf8.RuneCountInString(it.Name)))
	b.WriteString("\n\n")

	fields := []struct{ label, value string }{
		{"Description", it.Description},
		{"Eligibility", it.Eligibility},
		{"Benefits", it.Benefits},
		{"Category", it.Category},
	}
	for i, f := range fields {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s: %s\n", tr.Translate(f.label), f.value)
	}
	return b.String()
}

// ExportFilename turns "PM Kisan Samman Nidhi" into "pm-kisan-samman-nidhi.txt".
func ExportFilename(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-")) + ".txt"
}
