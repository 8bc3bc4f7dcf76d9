package discord

import "github.com/bwmarrin/discordgo"

// Commands returns every slash command definition for this bot. Admin-only
// commands additionally get a permission check in the router; Discord's
// DefaultMemberPermissions only hides them from the command picker.
func Commands() []*discordgo.ApplicationCommand {
	adminPerm := int64(discordgo.PermissionAdministrator)
	noDM := false
	return []*discordgo.ApplicationCommand{
		{
			Name:                     "create_tournament",
			Description:              "[ADMIN] Create a new tournament",
			DMPermission:             &noDM,
			DefaultMemberPermissions: &adminPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Tournament name",
					Required:    true,
				},
			},
		},
		{
			Name:                     "create_round",
			Description:              "[ADMIN] Create a new round",
			DMPermission:             &noDM,
			DefaultMemberPermissions: &adminPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Round name",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "tournament_id",
					Description: "Tournament ID (leave empty for standalone round)",
					Required:    false,
				},
			},
		},
		{
			Name:                     "add_match",
			Description:              "[ADMIN] Add a match to a round",
			DMPermission:             &noDM,
			DefaultMemberPermissions: &adminPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "round_id",
					Description: "Round ID",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "team1",
					Description: "First team name",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "team2",
					Description: "Second team name",
					Required:    true,
				},
			},
		},
		{
			Name:                     "close_predictions",
			Description:              "[ADMIN] Close predictions for a round",
			DMPermission:             &noDM,
			DefaultMemberPermissions: &adminPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "round_id",
					Description: "Round ID",
					Required:    true,
				},
			},
		},
		{
			Name:                     "set_result",
			Description:              "[ADMIN] Set match result",
			DMPermission:             &noDM,
			DefaultMemberPermissions: &adminPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "round_id",
					Description: "Round ID",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "match_number",
					Description: "Match number (starting from 1)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "winner",
					Description: "Winner (team1 or team2)",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Team 1", Value: "team1"},
						{Name: "Team 2", Value: "team2"},
					},
				},
			},
		},
		{
			Name:         "my_predictions",
			Description:  "View your predictions",
			DMPermission: &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "round_id",
					Description: "Round ID",
					Required:    true,
				},
			},
		},
		{
			Name:         "leaderboard",
			Description:  "Show leaderboard",
			DMPermission: &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "round_id",
					Description: "Round ID (for round leaderboard)",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "tournament_id",
					Description: "Tournament ID (for tournament leaderboard)",
					Required:    false,
				},
			},
		},
		{
			Name:        "help",
			Description: "Show help for commands",
		},
	}
}
