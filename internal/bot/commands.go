package bot

import (
	"github.com/bwmarrin/discordgo"

	"lordsbot/internal/i18n"
	"lordsbot/internal/storage"
)

func languageChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(i18n.Languages))
	for _, lang := range i18n.Languages {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  i18n.LanguageName(lang),
			Value: lang,
		})
	}
	return choices
}

func channelKindChoices() []*discordgo.ApplicationCommandOptionChoice {
	return []*discordgo.ApplicationCommandOptionChoice{
		{Name: "Moderation log", Value: string(storage.ChannelModLog)},
		{Name: "Bot activity", Value: string(storage.ChannelActivity)},
		{Name: "Match announcements", Value: string(storage.ChannelMatch)},
	}
}

func commandDefinitions() []*discordgo.ApplicationCommand {
	minDay := float64(1)
	maxDay := float64(31)
	minMinutes := float64(1)
	maxDeleteDays := float64(7)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "match",
			Description: "Schedule a match between two teams",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "team1",
					Description: "Team 1 members (mention users and/or roles)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "team2",
					Description: "Team 2 members (mention users and/or roles)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "day",
					Description: "Day of the month (1-31)",
					Required:    true,
					MinValue:    &minDay,
					MaxValue:    maxDay,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "time",
					Description: "Start time, e.g. 20:30 or 8:30 PM (GMT)",
					Required:    true,
				},
			},
		},
		{
			Name:        "matches",
			Description: "List scheduled matches",
		},
		{
			Name:        "end_match",
			Description: "Remove a finished match without notifying anyone",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "number",
					Description: "Match number from /matches",
					Required:    true,
					MinValue:    &minDay,
				},
			},
		},
		{
			Name:        "cancel_match",
			Description: "Cancel a match and notify its participants",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "number",
					Description: "Match number from /matches",
					Required:    true,
					MinValue:    &minDay,
				},
			},
		},
		{
			Name:        "set_language",
			Description: "Set the language for bot notifications in this server",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "language",
					Description: "Notification language",
					Required:    true,
					Choices:     languageChoices(),
				},
			},
		},
		{
			Name:        "set_channel",
			Description: "Route a bot feature to a channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "feature",
					Description: "Which feature to route",
					Required:    true,
					Choices:     channelKindChoices(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Target text channel",
					Required:    true,
					ChannelTypes: []discordgo.ChannelType{
						discordgo.ChannelTypeGuildText,
					},
				},
			},
		},
		{
			Name:        "kick",
			Description: "Kick a member from the server",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to kick",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Reason",
					Required:    false,
				},
			},
		},
		{
			Name:        "ban",
			Description: "Ban a member from the server",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to ban",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Reason",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "delete_days",
					Description: "Days of messages to delete (0-7)",
					Required:    false,
					MaxValue:    maxDeleteDays,
				},
			},
		},
		{
			Name:        "mute",
			Description: "Time a member out",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to mute",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "minutes",
					Description: "Timeout length in minutes",
					Required:    true,
					MinValue:    &minMinutes,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Reason",
					Required:    false,
				},
			},
		},
		{
			Name:        "warn",
			Description: "Record a warning for a member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to warn",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Reason",
					Required:    true,
				},
			},
		},
		{
			Name:        "warnings",
			Description: "List a member's warnings",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to inspect",
					Required:    true,
				},
			},
		},
		{
			Name:        "unwarn",
			Description: "Delete one of a member's warnings",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member whose warning to delete",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "id",
					Description: "Warning id from /warnings",
					Required:    true,
					MinValue:    &minMinutes,
				},
			},
		},
	}
}
