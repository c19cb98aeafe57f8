// Package emailsuggest proposes corrections for mistyped email domains.
package emailsuggest

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// MaxDistance is the largest edit distance still treated as a typo.
const MaxDistance = 2

// DefaultDomains is checked in order; the first closest domain wins ties.
var DefaultDomains = []string{
	"gmail.com",
	"yahoo.com",
	"hotmail.com",
	"outlook.com",
	"live.com",
	"icloud.com",
	"aol.com",
	"protonmail.com",
	"yahoo.com.mx",
	"hotmail.es",
	"prodigy.net.mx",
	"msn.com",
	"me.com",
}

// Suggester matches domains against a fixed list.
type Suggester struct {
	domains []string
}

// New returns a Suggester over domains, or DefaultDomains when none are given.
func New(domains ...string) *Suggester {
	if len(domains) == 0 {
		domains = DefaultDomains
	}
	normalized := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			normalized = append(normalized, d)
		}
	}
	return &Suggester{domains: normalized}
}

// Suggest returns local@closestDomain when the domain of email is one or two
// edits away from a known domain. Exact matches and distant domains yield
// ok=false.
func (s *Suggester) Suggest(email string) (suggestion string, ok bool) {
	email = strings.TrimSpace(email)
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return "", false
	}
	local, domain := email[:at], strings.ToLower(email[at+1:])

	best, bestDist := "", -1
	for _, d := range s.domains {
		dist := levenshtein.ComputeDistance(domain, d)
		if bestDist < 0 || dist < bestDist {
			best, bestDist = d, dist
		}
		if dist == 0 {
			return "", false
		}
	}
	if bestDist < 1 || bestDist > MaxDistance {
		return "", false
	}
	return local + "@" + best, true
}
