package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/ickweb3/discord-predictions-bot/models"
)

func (r *Router) handleMyPredictions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := commandOptions(i)
	roundID := optionString(opts, "round_id")
	userID := i.Member.User.ID

	round, err := r.tournaments.GetRound(context.Background(), roundID)
	if err != nil {
		r.replyError(s, i, err)
		return
	}

	preds, err := r.predictions.GetUserPredictions(context.Background(), roundID, userID)
	if err != nil {
		r.replyError(s, i, err)
		return
	}
	if len(preds) == 0 {
		respondEphemeral(s, i, "You don't have any predictions for this round yet")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📊 Your Predictions",
		Description: fmt.Sprintf("Round: **%s**", round.Name),
		Color:       colorBlue,
	}

	for _, match := range round.Matches {
		pick, ok := preds[match.ID]
		if !ok {
			continue
		}
		predictedTeam := match.Team1
		if pick == models.OutcomeTeam2 {
			predictedTeam = match.Team2
		}

		resultMark := ""
		if match.Result != nil {
			if *match.Result == pick {
				resultMark = " ✅"
			} else {
				resultMark = " ❌"
			}
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s vs %s", match.Team1, match.Team2),
			Value: fmt.Sprintf("Your prediction: **%s**%s", predictedTeam, resultMark),
		})
	}

	// Once the round is closed the user's score is final enough to show.
	if !round.PredictionsOpen {
		scores, err := r.scoring.RoundLeaderboard(context.Background(), roundID)
		if err == nil {
			for _, sc := range scores {
				if sc.UserID == userID {
					embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
						Name:  "Your Score",
						Value: fmt.Sprintf("%d/%d (%.1f%%)", sc.Correct, sc.Total, sc.Percentage),
					})
					break
				}
			}
		}
	}

	respondEphemeralEmbed(s, i, embed)
}

func (r *Router) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := commandOptions(i)
	roundID := optionString(opts, "round_id")
	tournamentID := optionString(opts, "tournament_id")

	if roundID == "" && tournamentID == "" {
		respondEphemeral(s, i, "❌ Specify round_id or tournament_id")
		return
	}

	var (
		scores []models.Score
		embed  *discordgo.MessageEmbed
	)
	if roundID != "" {
		round, err := r.tournaments.GetRound(context.Background(), roundID)
		if err != nil {
			r.replyError(s, i, err)
			return
		}
		scores, err = r.scoring.RoundLeaderboard(context.Background(), roundID)
		if err != nil {
			r.replyError(s, i, err)
			return
		}
		embed = &discordgo.MessageEmbed{
			Title:       "🏆 Round Leaderboard",
			Description: fmt.Sprintf("**%s**", round.Name),
			Color:       colorGold,
		}
	} else {
		t, err := r.tournaments.GetTournament(context.Background(), tournamentID)
		if err != nil {
			r.replyError(s, i, err)
			return
		}
		scores, err = r.scoring.TournamentLeaderboard(context.Background(), tournamentID)
		if err != nil {
			r.replyError(s, i, err)
			return
		}
		embed = &discordgo.MessageEmbed{
			Title:       "🏆 Tournament Leaderboard",
			Description: fmt.Sprintf("**%s**", t.Name),
			Color:       colorGold,
		}
	}

	if len(scores) == 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Empty", Value: "No results yet",
		})
	} else {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Top Players", Value: formatTopScores(scores, 10),
		})
	}

	respondEmbed(s, i, embed)
}

// formatTopScores renders the first limit entries with medal markers.
// User mentions let Discord resolve display names client-side, which
// spares one API call per row.
func formatTopScores(scores []models.Score, limit int) string {
	medals := []string{"🥇", "🥈", "🥉"}

	var b strings.Builder
	for idx, sc := range scores {
		if idx >= limit {
			break
		}
		marker := fmt.Sprintf("%d.", idx+1)
		if idx < len(medals) {
			marker = medals[idx]
		}
		fmt.Fprintf(&b, "%s <@%s>: %d/%d (%.1f%%)\n", marker, sc.UserID, sc.Correct, sc.Total, sc.Percentage)
	}
	return b.String()
}

func (r *Router) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	adminCommands := strings.Join([]string{
		"`/create_tournament` - Create a tournament",
		"`/create_round` - Create a round (part of tournament or standalone)",
		"`/add_match` - Add a match to a round",
		"`/close_predictions` - Close predictions",
		"`/set_result` - Set match result",
	}, "\n")

	userCommands := strings.Join([]string{
		"`/my_predictions` - View your predictions",
		"`/leaderboard` - Show leaderboard",
		"React to match messages to make predictions",
	}, "\n")

	respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "📖 Prediction Bot Help",
		Description: "Bot for predicting match results with tournaments and rounds",
		Color:       colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👑 Admin Commands", Value: adminCommands},
			{Name: "👤 User Commands", Value: userCommands},
			{
				Name: "ℹ️ How it works",
				Value: "1. Admin creates tournament or round\n" +
					"2. Admin adds matches\n" +
					"3. Users react (✅/❌) to predict\n" +
					"4. Admin closes predictions\n" +
					"5. Admin sets results\n" +
					"6. System calculates leaderboard",
			},
		},
	})
}
