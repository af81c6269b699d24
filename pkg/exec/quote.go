package exec

import "strings"

// QuoteCommand renders name and args as a single shell-safe line. Arguments
// that contain only safe characters are left bare.
func QuoteCommand(name string, arg ...string) string {
	parts := make([]string, 0, len(arg)+1)
	parts = append(parts, quoteArg(name))
	for _, a := range arg {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, needsQuote) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./=:,+@%", r)
}
