package commands

import (
	"fmt"
	"strings"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"
)

const (
	defaultRankingLimit = 10
	maxRankingLimit     = 25
)

var medals = map[int]string{1: "🥇", 2: "🥈", 3: "🥉"}

func (bot *Bot) top(ctx *bcr.Context) (err error) {
	limit, _ := ctx.Flags.GetInt("limit")
	if limit <= 0 {
		limit = defaultRankingLimit
	}
	if limit > maxRankingLimit {
		limit = maxRankingLimit
	}

	rankings := bot.Store.Ranking(bot.GroupID(ctx), limit)
	if len(rankings) == 0 {
		_, err = ctx.Send("Nobody here has had any tea yet.")
		return
	}

	var b strings.Builder
	for i, r := range rankings {
		place := medals[i+1]
		if place == "" {
			place = fmt.Sprintf("%v.", i+1)
		}

		sf, _ := discord.ParseSnowflake(r.ID)
		name := bot.DisplayName(ctx.Message.GuildID, discord.UserID(sf))

		fmt.Fprintf(&b, "%v %v: %v cups (%v ml)\n", place, name, r.Num, r.Vol)
	}

	e := discord.Embed{
		Title:       "🏆 Tea leaderboard",
		Description: b.String(),
		Color:       bcr.ColourPurple,
	}

	_, err = ctx.Send("", e)
	return
}
