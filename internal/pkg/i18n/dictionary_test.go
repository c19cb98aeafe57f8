package i18n

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryLocaleIsComplete(t *testing.T) {
	for _, lang := range Supported {
		dict, ok := dictionaries[lang]
		require.True(t, ok, "missing dictionary for %s", lang)
		for id := MsgID(0); id < msgCount; id++ {
			assert.NotEmpty(t, strings.TrimSpace(dict[id]), "lang=%s id=%d", lang, id)
		}
	}
}

func TestParseLang(t *testing.T) {
	tests := []struct {
		in   string
		want Lang
		ok   bool
	}{
		{"es", Spanish, true},
		{" EN ", English, true},
		{"fr", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseLang(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, Spanish, Normalize("de"))
	assert.Equal(t, English, Normalize("en"))
}

func TestTFallsBackToDefault(t *testing.T) {
	assert.Equal(t, T(Default, MsgServerError), T(Lang("xx"), MsgServerError))
	assert.Empty(t, T(English, msgCount))
	assert.Equal(t, "Nuevo artículo: Soldadura TIG", Tf(Spanish, MsgEmailBlogSubject, "Soldadura TIG"))
	assert.Equal(t, []string{T(Spanish, MsgPageErrorTitle), T(English, MsgPageErrorTitle)}, Both(MsgPageErrorTitle))
	assert.Equal(t, English, Spanish.Other())
}

func TestFromAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   Lang
	}{
		{"en-US,en;q=0.9", English},
		{"es-MX,es;q=0.8,en;q=0.5", Spanish},
		{"fr-FR,en;q=0.4", English},
		{"de", Default},
		{"", Default},
		{"not a header;;", Default},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromAcceptLanguage(tt.header), tt.header)
	}
}
