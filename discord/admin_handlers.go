package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/ickweb3/discord-predictions-bot/models"
	"github.com/ickweb3/discord-predictions-bot/services"
)

const (
	colorGreen = 0x57F287
	colorBlue  = 0x3498DB
	colorGold  = 0xF1C40F
	colorRed   = 0xED4245
)

func (r *Router) handleCreateTournament(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := commandOptions(i)
	name := optionString(opts, "name")

	t, err := r.tournaments.CreateTournament(context.Background(), name, i.GuildID)
	if err != nil {
		r.replyError(s, i, err)
		return
	}

	respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "🏆 Tournament Created",
		Description: fmt.Sprintf("**%s**\nID: `%s`", t.Name, t.ID),
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Info", Value: "Use `/create_round` to create rounds"},
		},
	})
}

func (r *Router) handleCreateRound(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := commandOptions(i)
	name := optionString(opts, "name")
	tournamentID := optionString(opts, "tournament_id")

	round, err := r.tournaments.CreateRound(context.Background(), name, i.GuildID, tournamentID)
	if err != nil {
		r.replyError(s, i, err)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📋 Round Created",
		Description: fmt.Sprintf("**%s**\nID: `%s`", round.Name, round.ID),
		Color:       colorBlue,
	}
	if tournamentID != "" {
		if t, err := r.tournaments.GetTournament(context.Background(), tournamentID); err == nil {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name: "Tournament", Value: t.Name,
			})
		}
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Next Step", Value: "Use `/add_match` to add matches",
	})
	respondEmbed(s, i, embed)
}

// handleAddMatch registers the match, posts the prediction embed, seeds
// the two reaction options and only then binds the message id to the
// match, so a reaction can never resolve to a half-created match.
func (r *Router) handleAddMatch(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := commandOptions(i)
	roundID := optionString(opts, "round_id")
	team1 := optionString(opts, "team1")
	team2 := optionString(opts, "team2")

	round, err := r.tournaments.GetRound(context.Background(), roundID)
	if err != nil {
		r.replyError(s, i, err)
		return
	}
	if !round.PredictionsOpen {
		respondEphemeral(s, i, "⚠️ Predictions are closed for this round!")
		return
	}

	match, err := r.tournaments.AddMatch(context.Background(), roundID, team1, team2)
	if err != nil {
		r.replyError(s, i, err)
		return
	}

	respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "🎮 New Match",
		Description: fmt.Sprintf("**%s** vs **%s**", team1, team2),
		Color:       colorGold,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "How to predict?",
				Value: fmt.Sprintf("%s = %s wins\n%s = %s wins", emojiTeam1, team1, emojiTeam2, team2),
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Round: %s | Match ID: %s", round.Name, match.ID),
		},
	})

	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		r.logger.Error("failed to fetch interaction response", slog.Any("error", err))
		return
	}

	for _, emoji := range []string{emojiTeam1, emojiTeam2} {
		if err := s.MessageReactionAdd(msg.ChannelID, msg.ID, emoji); err != nil {
			r.logger.Error("failed to seed reaction",
				slog.String("emoji", emoji), slog.Any("error", err))
		}
	}

	// The ordinal in the match id is the index AddMatch appended at. The
	// local round snapshot predates the append and its length goes stale
	// the moment another handler adds a match.
	matchIndex, err := matchOrdinal(match.ID)
	if err != nil {
		r.logger.Error("failed to attach message to match",
			slog.String("round", roundID), slog.String("match", match.ID), slog.Any("error", err))
		return
	}
	if err := r.tournaments.AttachSurfaceMessage(context.Background(), roundID, matchIndex, msg.ID); err != nil {
		r.logger.Error("failed to attach message to match",
			slog.String("round", roundID), slog.Int("match", matchIndex), slog.Any("error", err))
	}
}

// matchOrdinal extracts the append index from a match id of the form
// <roundID>_match_<n>.
func matchOrdinal(matchID string) (int, error) {
	sep := strings.LastIndex(matchID, "_")
	if sep < 0 {
		return 0, fmt.Errorf("malformed match id %q", matchID)
	}
	n, err := strconv.Atoi(matchID[sep+1:])
	if err != nil {
		return 0, fmt.Errorf("malformed match id %q: %w", matchID, err)
	}
	return n, nil
}

func (r *Router) handleClosePredictions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := commandOptions(i)
	roundID := optionString(opts, "round_id")

	round, err := r.tournaments.GetRound(context.Background(), roundID)
	if err != nil {
		r.replyError(s, i, err)
		return
	}

	if err := r.tournaments.ClosePredictions(context.Background(), roundID); err != nil {
		r.replyError(s, i, err)
		return
	}

	respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "🔒 Predictions Closed",
		Description: fmt.Sprintf("Round: **%s**\nNo new predictions will be accepted", round.Name),
		Color:       colorRed,
	})
}

func (r *Router) handleSetResult(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := commandOptions(i)
	roundID := optionString(opts, "round_id")
	matchNumber := int(optionInt(opts, "match_number"))
	winner := models.Outcome(optionString(opts, "winner"))

	round, err := r.tournaments.GetRound(context.Background(), roundID)
	if err != nil {
		r.replyError(s, i, err)
		return
	}

	// Handlers run concurrently, so the reply may only index the snapshot
	// it validated. A number that is valid against fresher state but not
	// against this snapshot is rejected rather than indexed.
	match, matchIndex, err := matchAt(round, matchNumber)
	if err != nil {
		r.replyError(s, i, err)
		return
	}

	if err := r.tournaments.SetMatchResult(context.Background(), roundID, matchIndex, winner); err != nil {
		r.replyError(s, i, err)
		return
	}

	winnerName := match.Team1
	if winner == models.OutcomeTeam2 {
		winnerName = match.Team2
	}

	respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "✅ Result Set",
		Description: fmt.Sprintf("**%s** vs **%s**", match.Team1, match.Team2),
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Winner", Value: "🏆 " + winnerName},
		},
	})
}

// matchAt resolves the 1-based match number a user typed against the
// given round snapshot.
func matchAt(round *models.Round, matchNumber int) (models.Match, int, error) {
	idx := matchNumber - 1
	if idx < 0 || idx >= len(round.Matches) {
		return models.Match{}, 0, services.ErrMatchIndexOutOfRange
	}
	return round.Matches[idx], idx, nil
}

// replyError renders a business error as an ephemeral message and logs
// anything that looks like a storage failure.
func (r *Router) replyError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	switch {
	case errors.Is(err, services.ErrRoundNotFound):
		respondEphemeral(s, i, "❌ Round not found")
	case errors.Is(err, services.ErrTournamentNotFound):
		respondEphemeral(s, i, "❌ Tournament not found")
	case errors.Is(err, services.ErrMatchIndexOutOfRange):
		respondEphemeral(s, i, "❌ Invalid match number")
	case errors.Is(err, services.ErrInvalidOutcome):
		respondEphemeral(s, i, "❌ Winner must be team1 or team2")
	case errors.Is(err, services.ErrPredictionsClosed):
		respondEphemeral(s, i, "⚠️ Predictions are closed for this round!")
	default:
		r.logger.Error("command failed", slog.Any("error", err))
		respondEphemeral(s, i, "❌ Something went wrong, try again later")
	}
}
