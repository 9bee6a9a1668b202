package utils

import "strings"

// LikeEscape is the ESCAPE clause that pairs with ContainsPattern.
const LikeEscape = `ESCAPE '\'`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns free text into a lower-case LIKE pattern matching it
// anywhere. Wildcards in the input match literally.
func ContainsPattern(text string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(strings.TrimSpace(text))) + "%"
}
