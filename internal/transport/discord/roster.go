package discord

import (
	logx "lordsbot/pkg/logx"
)

// IsMember reports whether the user currently belongs to the guild. The
// gateway state cache answers most lookups; on a miss it falls back to
// one REST call before reporting absence.
func (a *Adapter) IsMember(guildID, userID string) bool {
	if _, err := a.session.State.Member(guildID, userID); err == nil {
		return true
	}
	if _, err := a.session.GuildMember(guildID, userID); err == nil {
		return true
	}
	return false
}

// RoleMembers expands a role to the IDs of its current holders. An
// unknown role or unreachable guild yields an empty slice.
func (a *Adapter) RoleMembers(guildID, roleID string) []string {
	g, err := a.session.State.Guild(guildID)
	if err != nil {
		a.log.Debug("role expansion on unknown guild", logx.String("guild", guildID), logx.Err(err))
		return nil
	}

	a.session.State.RLock()
	defer a.session.State.RUnlock()

	var out []string
	for _, m := range g.Members {
		for _, r := range m.Roles {
			if r == roleID {
				out = append(out, m.User.ID)
				break
			}
		}
	}
	return out
}

// GuildName reports the guild's display name and whether the bot can
// currently see the guild at all.
func (a *Adapter) GuildName(guildID string) (string, bool) {
	if g, err := a.session.State.Guild(guildID); err == nil {
		return g.Name, true
	}
	if g, err := a.session.Guild(guildID); err == nil {
		return g.Name, true
	}
	return "", false
}
