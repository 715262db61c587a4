package domain

import "strings"

const (
	usernameMinLen = 3
	usernameMaxLen = 30
)

// NormalizeUsername lowercases the handle, replaces every disallowed rune
// with an underscore, collapses runs of underscores and trims them from both
// ends, then enforces the 3 to 30 length window.
func NormalizeUsername(raw string) (string, error) {
	lowered := strings.ToLower(strings.TrimSpace(raw))

	var b strings.Builder
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	collapsed := collapseUnderscores(b.String())
	collapsed = strings.Trim(collapsed, "_")
	if len(collapsed) > usernameMaxLen {
		collapsed = strings.Trim(collapsed[:usernameMaxLen], "_")
	}
	if len(collapsed) < usernameMinLen {
		return "", ErrInvalidUsername
	}
	return collapsed, nil
}

func collapseUnderscores(s string) string {
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}
