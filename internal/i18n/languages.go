// Package i18n lists the supported interface languages and provides the
// placeholder translator used until a real translation service exists.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

type Language struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Tag parses Code as a BCP 47 tag.
func (l Language) Tag() language.Tag {
	return language.Make(l.Code)
}

var languages = []Language{
	{ID: "english", Name: "English", Code: "en-IN"},
	{ID: "hindi", Name: "हिन्दी", Code: "hi-IN"},
	{ID: "gujarati", Name: "ગુજરાતી", Code: "gu-IN"},
	{ID: "tamil", Name: "தமிழ்", Code: "ta-IN"},
	{ID: "marathi", Name: "मराठी", Code: "mr-IN"},
	{ID: "bengali", Name: "বাংলা", Code: "bn-IN"},
}

func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

func Default() Language {
	return languages[0]
}

func ByID(id string) (Language, bool) {
	for _, l := range languages {
		if l.ID == id {
			return l, true
		}
	}
	return Language{}, false
}

// Translator is the lookup the presentation code calls for every label.
type Translator interface {
	Translate(key string) string
}

// Stub returns keys unchanged for English and prefixes them with the
// language name otherwise.
type Stub struct {
	Language Language
}

func (s Stub) Translate(key string) string {
	if s.Language.ID == "" || s.Language.ID == Default().ID {
		return key
	}
	return fmt.Sprintf("[%s] %s", s.Language.Name, key)
}
