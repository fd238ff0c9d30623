package workshop

import (
	"fmt"
	"strings"

	"sqlworkshop-server/utils"
)

// AllowedKeywords are the statements a submission may start with.
var AllowedKeywords = []string{"SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "ALTER", "DROP"}

const (
	MsgEmptyCode      = "code is empty"
	MsgInvalidCommand = "code must begin with a valid SQL command"

	suggestMaxDistance = 2
)

// Classify is a lexical gate on the leading keyword only. It never parses the
// statement and has no side effects.
func Classify(text string) (bool, string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false, MsgEmptyCode
	}

	first := leadingToken(trimmed)
	if utils.ContainsString(AllowedKeywords, first) {
		return true, fmt.Sprintf("%s command recognized", first)
	}
	return false, MsgInvalidCommand
}

// Suggest returns the allowed keyword closest to the leading token of text,
// or "" when the token is already valid or nothing is close enough.
func Suggest(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	first := leadingToken(trimmed)
	if utils.ContainsString(AllowedKeywords, first) {
		return ""
	}
	match, ok := utils.ClosestMatch(first, AllowedKeywords, suggestMaxDistance)
	if !ok {
		return ""
	}
	return match
}

func leadingToken(trimmed string) string {
	fields := strings.Fields(strings.ToUpper(trimmed))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
