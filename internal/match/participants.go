package match

import (
	"regexp"

	"lordsbot/internal/transport"
)

var (
	reUserMention = regexp.MustCompile(`<@!?(\d+)>`)
	reRoleMention = regexp.MustCompile(`<@&(\d+)>`)
)

// ResolveParticipants expands raw mention text into a deduplicated list of
// user ids, order-stable by first appearance.
//
// User mentions are kept only when the roster confirms membership;
// unresolvable mentions are silently dropped. Role mentions expand to
// every current member of the role. An empty result is a valid outcome
// that callers must reject before creating a match.
func ResolveParticipants(mentionText, guildID string, roster transport.Roster) []string {
	seen := map[string]bool{}
	var out []string
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}

	for _, m := range reUserMention.FindAllStringSubmatch(mentionText, -1) {
		if roster.IsMember(guildID, m[1]) {
			add(m[1])
		}
	}
	for _, m := range reRoleMention.FindAllStringSubmatch(mentionText, -1) {
		for _, id := range roster.RoleMembers(guildID, m[1]) {
			add(id)
		}
	}
	return out
}
