// Package bot announces vault milestones to a Discord channel.
package bot

import (
	"context"
	"fmt"

	"hushhush/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token     string
	ChannelID string
}

// embedSender is the part of a discord session the announcer needs
type embedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Bot posts funded and unlocked vaults to the announcement channel
type Bot struct {
	config  Config
	session *discordgo.Session
	sender  embedSender
}

// New opens a discord session
func New(config Config) (*Bot, error) {
	if config.ChannelID == "" {
		return nil, fmt.Errorf("discord channel id is required")
	}

	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	log.WithField("channelID", config.ChannelID).Info("Discord announcer connected")
	return &Bot{config: config, session: dg, sender: dg}, nil
}

// Subscribe registers the announcement handlers on bus
func (b *Bot) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeVaultFunded, b.handleVaultFunded)
	bus.Subscribe(events.EventTypeVaultUnlocked, b.handleVaultUnlocked)
}

func (b *Bot) handleVaultFunded(ctx context.Context, event events.Event) {
	funded, ok := event.(events.VaultFundedEvent)
	if !ok {
		return
	}
	b.announce(event.Type(), funded.VaultID, buildVaultFundedEmbed(funded))
}

func (b *Bot) handleVaultUnlocked(ctx context.Context, event events.Event) {
	unlocked, ok := event.(events.VaultUnlockedEvent)
	if !ok {
		return
	}
	b.announce(event.Type(), unlocked.VaultID, buildVaultUnlockedEmbed(unlocked))
}

func (b *Bot) announce(eventType events.EventType, vaultID string, embed *discordgo.MessageEmbed) {
	if _, err := b.sender.ChannelMessageSendEmbed(b.config.ChannelID, embed); err != nil {
		log.WithFields(log.Fields{
			"eventType": eventType,
			"vaultID":   vaultID,
			"error":     err,
		}).Error("Failed to post vault announcement")
		return
	}
	log.WithFields(log.Fields{
		"eventType": eventType,
		"vaultID":   vaultID,
	}).Info("Posted vault announcement")
}

// Close closes the discord session
func (b *Bot) Close() error {
	if b.session == nil {
		return nil
	}
	return b.session.Close()
}
