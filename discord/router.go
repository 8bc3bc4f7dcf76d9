package discord

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/ickweb3/discord-predictions-bot/services"
)

// Prediction emoji. A checkmark reaction picks team1, a cross picks team2.
const (
	emojiTeam1 = "✅"
	emojiTeam2 = "❌"
)

// Router dispatches Discord interactions and reaction events to the
// services. It is the only place that knows about "administrator": the
// services themselves take no capability arguments.
type Router struct {
	tournaments *services.TournamentService
	predictions *services.PredictionService
	scoring     *services.ScoringService
	logger      *slog.Logger
}

func NewRouter(
	tournaments *services.TournamentService,
	predictions *services.PredictionService,
	scoring *services.ScoringService,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		tournaments: tournaments,
		predictions: predictions,
		scoring:     scoring,
		logger:      logger,
	}
}

// HandleInteraction is registered with the session and routes slash
// commands to their handlers.
func (r *Router) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "create_tournament":
		r.requireAdmin(s, i, r.handleCreateTournament)
	case "create_round":
		r.requireAdmin(s, i, r.handleCreateRound)
	case "add_match":
		r.requireAdmin(s, i, r.handleAddMatch)
	case "close_predictions":
		r.requireAdmin(s, i, r.handleClosePredictions)
	case "set_result":
		r.requireAdmin(s, i, r.handleSetResult)
	case "my_predictions":
		r.handleMyPredictions(s, i)
	case "leaderboard":
		r.handleLeaderboard(s, i)
	case "help":
		r.handleHelp(s, i)
	}
}

// isAdmin reports whether the interaction comes from a member with the
// administrator permission. "Administrator" is a platform concept; it is
// decided here and never passed into the services.
func isAdmin(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0
}

func (r *Router) requireAdmin(s *discordgo.Session, i *discordgo.InteractionCreate, handler func(*discordgo.Session, *discordgo.InteractionCreate)) {
	if !isAdmin(i) {
		respondEphemeral(s, i, "❌ This command requires administrator permissions")
		return
	}
	handler(s, i)
}

// commandOptions indexes the interaction's options by name.
func commandOptions(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	byName := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		byName[opt.Name] = opt
	}
	return byName
}

func optionString(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func optionInt(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	if opt, ok := opts[name]; ok {
		return opt.IntValue()
	}
	return 0
}

func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		slog.Error("failed to respond to interaction", slog.Any("error", err))
	}
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		slog.Error("failed to respond to interaction", slog.Any("error", err))
	}
}

func respondEphemeralEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		slog.Error("failed to respond to interaction", slog.Any("error", err))
	}
}
