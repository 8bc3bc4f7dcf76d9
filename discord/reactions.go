package discord

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/ickweb3/discord-predictions-bot/models"
	"github.com/ickweb3/discord-predictions-bot/services"
)

// HandleReactionAdd turns a ✅/❌ reaction on a match message into a
// prediction. A reaction on a closed round is undone; an accepted one
// removes the user's opposite reaction so the message always shows their
// current pick.
func (r *Router) HandleReactionAdd(s *discordgo.Session, event *discordgo.MessageReactionAdd) {
	if s.State != nil && s.State.User != nil && event.UserID == s.State.User.ID {
		return
	}

	emoji := event.Emoji.Name
	if emoji != emojiTeam1 && emoji != emojiTeam2 {
		return
	}

	round, matchIndex, err := r.tournaments.ResolveSurfaceMessage(context.Background(), event.MessageID)
	if err != nil {
		if !errors.Is(err, services.ErrMatchNotFound) {
			r.logger.Error("reaction lookup failed", slog.Any("error", err))
		}
		return
	}
	match := round.Matches[matchIndex]

	pick := models.OutcomeTeam1
	if emoji == emojiTeam2 {
		pick = models.OutcomeTeam2
	}

	err = r.predictions.SubmitPrediction(context.Background(), round.ID, match.ID, event.UserID, pick)
	if err != nil {
		if errors.Is(err, services.ErrPredictionsClosed) {
			// Undo the signal so the message doesn't suggest it counted.
			if rmErr := s.MessageReactionRemove(event.ChannelID, event.MessageID, emoji, event.UserID); rmErr != nil {
				r.logger.Error("failed to remove late reaction", slog.Any("error", rmErr))
			}
			return
		}
		r.logger.Error("prediction submit failed",
			slog.String("round", round.ID), slog.String("match", match.ID), slog.Any("error", err))
		return
	}

	opposite := emojiTeam2
	if pick == models.OutcomeTeam2 {
		opposite = emojiTeam1
	}
	if err := s.MessageReactionRemove(event.ChannelID, event.MessageID, opposite, event.UserID); err != nil {
		r.logger.Error("failed to remove opposite reaction", slog.Any("error", err))
	}
}
