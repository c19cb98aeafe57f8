// Package i18n holds the Spanish and English message dictionaries.
//
// Messages are addressed by MsgID and every locale is a fixed-size array
// indexed by it, so a locale can never be asked for a key it does not know.
// dictionary_test.go fails when any entry of any locale is left empty.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Lang is a supported site language.
type Lang string

const (
	Spanish Lang = "es"
	English Lang = "en"

	// Default is used whenever a request carries no (or an unknown) language.
	Default = Spanish
)

// Supported lists every language in display order.
var Supported = []Lang{Spanish, English}

// ParseLang reports whether s names a supported language.
func ParseLang(s string) (Lang, bool) {
	switch Lang(strings.ToLower(strings.TrimSpace(s))) {
	case Spanish:
		return Spanish, true
	case English:
		return English, true
	default:
		return "", false
	}
}

// Normalize returns the language named by s, or Default.
func Normalize(s string) Lang {
	if l, ok := ParseLang(s); ok {
		return l
	}
	return Default
}

var matcher = language.NewMatcher([]language.Tag{language.Spanish, language.English})

// FromAcceptLanguage picks the best supported language for an
// Accept-Language header, or Default when nothing matches.
func FromAcceptLanguage(header string) Lang {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return Supported[idx]
}

// Other returns the remaining language of the pair.
func (l Lang) Other() Lang {
	if l == English {
		return Spanish
	}
	return English
}

func (l Lang) String() string { return string(l) }

// T returns the message id in lang, falling back to Default.
func T(lang Lang, id MsgID) string {
	dict, ok := dictionaries[lang]
	if !ok {
		dict = dictionaries[Default]
	}
	if id < 0 || id >= msgCount {
		return ""
	}
	return dict[id]
}

// Tf formats the message id in lang with args.
func Tf(lang Lang, id MsgID, args ...any) string {
	return fmt.Sprintf(T(lang, id), args...)
}

// Both returns the message in every supported language, in display order.
func Both(id MsgID) []string {
	out := make([]string, 0, len(Supported))
	for _, l := range Supported {
		out = append(out, T(l, id))
	}
	return out
}

var dictionaries = map[Lang]*[msgCount]string{
	Spanish: &spanish,
	English: &english,
}
