package action

import "strings"

var confirmPhrases = map[string]struct{}{
	"yes":         {},
	"post it":     {},
	"post":        {},
	"yes post it": {},
}

var cancelPhrases = map[string]struct{}{
	"no":         {},
	"cancel":     {},
	"dont post":  {},
	"don't post": {},
}

func normalizeDecision(message string) string {
	s := strings.ToLower(strings.TrimSpace(message))
	return strings.TrimRight(s, ".!")
}

// IsConfirmation reports whether message is a bare confirmation of a
// staged action. Matching is exact after trimming, so a longer message
// that merely contains "yes" does not confirm.
func IsConfirmation(message string) bool {
	_, ok := confirmPhrases[normalizeDecision(message)]
	return ok
}

// IsCancellation reports whether message rejects the staged action.
func IsCancellation(message string) bool {
	_, ok := cancelPhrases[normalizeDecision(message)]
	return ok
}
