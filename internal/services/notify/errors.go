package notify

import (
	"errors"

	"lordsbot/internal/i18n"
	"lordsbot/internal/transport"
	"lordsbot/pkg/dgui"
)

var errNotMember = errors.New("recipient is not a guild member")

// RenderToken re-renders a stored notification in the requested language.
// ok is false when the token has expired or was never issued.
func RenderToken(tokens *dgui.TokenStore, lang, token string) (transport.Message, bool) {
	var p buttonPayload
	if tokens == nil || !tokens.GetJSON(token, &p) {
		return transport.Message{}, false
	}
	msg := i18n.Render(p.Kind, lang, p.Data)
	msg.Title = "[" + i18n.LanguageName(lang) + "] " + msg.Title
	return msg, true
}
