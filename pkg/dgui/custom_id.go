package dgui

import "strings"

// Custom id scheme for translation buttons: "tr|<lang>|<token>".
// Tokens are base64url and never contain '|'.

const translatePrefix = "tr|"

// TranslateID builds the custom_id for a translation button.
func TranslateID(lang, token string) string {
	return translatePrefix + lang + "|" + token
}

// ParseTranslateID splits a translation custom_id. ok is false for any
// other component id.
func ParseTranslateID(customID string) (lang, token string, ok bool) {
	if !strings.HasPrefix(customID, translatePrefix) {
		return "", "", false
	}
	rest := customID[len(translatePrefix):]
	i := strings.IndexByte(rest, '|')
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}
