package emailsuggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
		ok    bool
	}{
		{"transposed letters", "user@gmial.com", "user@gmail.com", true},
		{"missing letter", "ana@hotmal.com", "ana@hotmail.com", true},
		{"uppercase domain", "Ana.Perez@GMAIL.CO", "Ana.Perez@gmail.com", true},
		{"exact match", "user@gmail.com", "", false},
		{"unknown domain", "user@totallyrandomdomain.zzz", "", false},
		{"corporate domain", "compras@soldaduras-industriales.mx", "", false},
		{"no at sign", "user.gmail.com", "", false},
		{"empty domain", "user@", "", false},
		{"empty local part", "@gmail.com", "", false},
		{"short provider", "user@msn.con", "user@msn.com", true},
		{"two letter provider", "user@me.con", "user@me.com", true},
		{"regional domain", "user@yahoo.com.mz", "user@yahoo.com.mx", true},
		{"exact regional domain", "user@prodigy.net.mx", "", false},
	}
	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Suggest(tt.email)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestTieGoesToFirstDomain(t *testing.T) {
	s := New("abc.com", "abd.com")
	got, ok := s.Suggest("x@abe.com")
	assert.True(t, ok)
	assert.Equal(t, "x@abc.com", got)

	s = New("abd.com", "abc.com")
	got, ok = s.Suggest("x@abe.com")
	assert.True(t, ok)
	assert.Equal(t, "x@abd.com", got)
}
