package database

import "strings"

var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// Contains builds a LIKE pattern matching s anywhere. Use it with
// "ESCAPE '!'", which postgres, mysql and sqlite all accept.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
