package notifier

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/magnetic-studio/studio-api/internal/models"
)

type Notifier interface {
	NotifyRegistration(registration models.Registration) error
	NotifyWaitlist(entry models.WaitlistEntry) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
	logger    *zap.Logger
}

func NewDiscordNotifier(session *discordgo.Session, channelID string, logger *zap.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
		logger:    logger,
	}
}

func (n *DiscordNotifier) NotifyRegistration(registration models.Registration) error {
	return n.send(RegistrationMessage(registration))
}

func (n *DiscordNotifier) NotifyWaitlist(entry models.WaitlistEntry) error {
	return n.send(fmt.Sprintf("📝 **Lista de espera**\n**Email:** %s", entry.Email))
}

func (n *DiscordNotifier) send(message string) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	if _, err := n.session.ChannelMessageSend(n.channelID, message); err != nil {
		n.logger.Error("Failed to send discord message", zap.Error(err))
		return err
	}
	return nil
}

// RegistrationMessage formats a new registration for the staff channel.
func RegistrationMessage(r models.Registration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 **Nueva inscripción**\n**Alumno/a:** %s %s\n**Email:** %s\n**Teléfono:** %s\n**Nacimiento:** %s",
		r.Name,
		r.Surnames,
		r.Email,
		r.Phone,
		r.BirthDate.Format("2006-01-02"),
	)
	if r.ParentName != nil {
		fmt.Fprintf(&b, "\n**Tutor/a:** %s", *r.ParentName)
	}
	if r.AcceptAdvertisements {
		b.WriteString("\n📣 Acepta comunicaciones")
	}
	return b.String()
}

// Nop discards notifications. Used when no Discord bot is configured.
type Nop struct{}

func (Nop) NotifyRegistration(models.Registration) error { return nil }

func (Nop) NotifyWaitlist(models.WaitlistEntry) error { return nil }
