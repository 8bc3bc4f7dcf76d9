package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Session wraps the discordgo session with the gateway intents this bot
// needs: guild metadata, messages to post match embeds, and reactions as
// the prediction signal.
type Session struct {
	s *discordgo.Session
}

func NewSession(token string) (*Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions
	return &Session{s: s}, nil
}

func (s *Session) AddHandler(handler interface{}) {
	s.s.AddHandler(handler)
}

// Start opens the gateway connection.
func (s *Session) Start() error {
	if err := s.s.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	return nil
}

// RegisterCommands overwrites the application's slash commands. With a
// guild id the commands are registered guild-scoped, which propagates
// instantly and is what you want during development; empty means global.
func (s *Session) RegisterCommands(appID, guildID string) error {
	if _, err := s.s.ApplicationCommandBulkOverwrite(appID, guildID, Commands()); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	return nil
}

func (s *Session) Close() error {
	return s.s.Close()
}
