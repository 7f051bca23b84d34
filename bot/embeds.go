package bot

import (
	"fmt"

	"hushhush/bot/common"
	"hushhush/events"

	"github.com/bwmarrin/discordgo"
)

// Discord color constants
const (
	ColorSuccess = 0x57F287 // Green
	ColorSecret  = 0x9B59B6 // Purple
)

func buildVaultFundedEmbed(e events.VaultFundedEvent) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🔒 **Vault Funded** 🔒",
		Description: fmt.Sprintf("**%s** reached its goal. The whisperer can now unlock it.", e.Title),
		Color:       ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Pledged",
				Value:  fmt.Sprintf("%s of %s", common.FormatAmount(e.PledgedAmount), common.FormatAmount(e.FundingGoal)),
				Inline: true,
			},
			{
				Name:   "Backers",
				Value:  fmt.Sprintf("%d", e.BackersCount),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Vault " + e.VaultID,
		},
	}
}

func buildVaultUnlockedEmbed(e events.VaultUnlockedEvent) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🔓 **Vault Unlocked** 🔓",
		Description: fmt.Sprintf("**%s** is open. %d backers can read it now.", e.Title, e.BackersCount),
		Color:       ColorSecret,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Whisperer earnings",
				Value:  common.FormatAmount(e.Earnings),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Vault " + e.VaultID,
		},
	}
}
