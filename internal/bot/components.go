package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"lordsbot/internal/services/notify"
	"lordsbot/pkg/dgui"
	logx "lordsbot/pkg/logx"
)

// handleComponent serves the translation buttons attached to
// notification DMs. The button's custom id carries a target language and
// a token into the render store; a valid token re-renders the original
// notification in that language as an ephemeral reply.
func (b *Bot) handleComponent(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	lang, token, ok := dgui.ParseTranslateID(customID)
	if !ok {
		b.log.Debug("unrecognized component id", logx.String("custom_id", customID))
		return
	}

	msg, ok := notify.RenderToken(b.tokens, lang, token)
	if !ok {
		respondEphemeral(s, i, "This translation has expired.")
		return
	}
	respondEmbed(s, i, msg, true)
	_ = ctx
}
