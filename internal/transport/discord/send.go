package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"lordsbot/internal/transport"
)

const embedColor = 0x5865F2

// SendDirectMessage opens (or reuses) the DM channel for the user and
// sends the message there. Users with DMs disabled surface as an API
// error from the message send, not from channel creation.
func (a *Adapter) SendDirectMessage(ctx context.Context, userID string, msg transport.Message) error {
	ch, err := a.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open dm channel for %s: %w", userID, err)
	}
	return a.send(ctx, ch.ID, msg)
}

func (a *Adapter) SendChannelMessage(ctx context.Context, channelID string, msg transport.Message) error {
	return a.send(ctx, channelID, msg)
}

func (a *Adapter) send(ctx context.Context, channelID string, msg transport.Message) error {
	_, err := a.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{renderEmbed(msg)},
		Components: renderComponents(msg.Buttons),
	}, discordgo.WithContext(ctx))
	return err
}

func renderEmbed(msg transport.Message) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Body,
		Color:       embedColor,
	}
	if msg.Footer != "" {
		e.Footer = &discordgo.MessageEmbedFooter{Text: msg.Footer}
	}
	return e
}

// renderComponents lays buttons out in action rows of five, the
// platform maximum per row.
func renderComponents(buttons []transport.Button) []discordgo.MessageComponent {
	if len(buttons) == 0 {
		return nil
	}
	var rows []discordgo.MessageComponent
	for start := 0; start < len(buttons); start += 5 {
		end := start + 5
		if end > len(buttons) {
			end = len(buttons)
		}
		row := discordgo.ActionsRow{}
		for _, b := range buttons[start:end] {
			btn := discordgo.Button{
				Label:    b.Label,
				Style:    discordgo.SecondaryButton,
				CustomID: b.ID,
			}
			if b.Emoji != "" {
				btn.Emoji = &discordgo.ComponentEmoji{Name: b.Emoji}
			}
			row.Components = append(row.Components, btn)
		}
		rows = append(rows, row)
	}
	return rows
}
