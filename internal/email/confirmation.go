package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"
)

const (
	PrimaryColor        = "#7948c4"
	ConfirmationSubject = "¡Bienvenido/a a Magnetic Pole Studio!"
	logoContentID       = "logo"
)

//go:embed templates/*
var templateFS embed.FS

var (
	confirmationMarkdown = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/registration_confirmation.md"))
	layout               = template.Must(template.ParseFS(templateFS, "templates/layout.html"))
)

type ContactInfo struct {
	Phone string
	Email string
	Maps  string
}

var StudioContact = ContactInfo{
	Phone: "681351345",
	Email: "magnetic.gijon@gmail.com",
	Maps:  "https://maps.app.goo.gl/Ax5EHciVr3K9F7ps5",
}

// Mailer composes studio emails and hands them to a Sender.
type Mailer struct {
	sender      Sender
	attachments []Attachment
	logger      *zap.Logger
}

func NewMailer(sender Sender, attachments []Attachment, logger *zap.Logger) *Mailer {
	return &Mailer{sender: sender, attachments: attachments, logger: logger}
}

// SendRegistrationConfirmation sends the welcome email with the studio rules
// and the inline logo.
func (m *Mailer) SendRegistrationConfirmation(ctx context.Context, name, to string) error {
	body, err := RenderConfirmation(name, m.hasLogo())
	if err != nil {
		return err
	}

	_, err = m.sender.Send(ctx, SendRequest{
		To:          []string{to},
		Subject:     ConfirmationSubject,
		HTML:        body,
		Attachments: m.attachments,
	})
	if err != nil {
		return fmt.Errorf("send registration confirmation: %w", err)
	}
	return nil
}

func (m *Mailer) hasLogo() bool {
	for _, a := range m.attachments {
		if a.ContentID == logoContentID {
			return true
		}
	}
	return false
}

// RenderConfirmation renders the markdown body through goldmark and wraps it
// in the HTML email layout.
func RenderConfirmation(name string, withLogo bool) (string, error) {
	var md bytes.Buffer
	err := confirmationMarkdown.Execute(&md, struct {
		Name    string
		Contact ContactInfo
	}{Name: escapeMarkdown(name), Contact: StudioContact})
	if err != nil {
		return "", fmt.Errorf("render confirmation markdown: %w", err)
	}

	var body bytes.Buffer
	if err := goldmark.Convert(md.Bytes(), &body); err != nil {
		return "", fmt.Errorf("convert confirmation markdown: %w", err)
	}

	var out bytes.Buffer
	err = layout.Execute(&out, struct {
		Logo         bool
		PrimaryColor string
		Heading      string
		Body         template.HTML
	}{
		Logo:         withLogo,
		PrimaryColor: PrimaryColor,
		Heading:      "💜 ¡Bienvenidx a la familia Magnetic! 💜",
		Body:         template.HTML(body.String()),
	})
	if err != nil {
		return "", fmt.Errorf("render confirmation layout: %w", err)
	}
	return out.String(), nil
}

// markdownPunct is the ASCII punctuation CommonMark allows to be
// backslash-escaped.
const markdownPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// escapeMarkdown makes s render as literal text, on one line.
func escapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
			b.WriteByte(' ')
		case strings.ContainsRune(markdownPunct, r):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LoadAttachments reads the rules PDF and the logo. Missing files are logged
// and skipped so the email still goes out.
func LoadAttachments(rulesPath, logoPath string, logger *zap.Logger) []Attachment {
	var attachments []Attachment
	for _, f := range []struct {
		path      string
		contentID string
	}{
		{path: rulesPath},
		{path: logoPath, contentID: logoContentID},
	} {
		if f.path == "" {
			continue
		}
		content, err := os.ReadFile(f.path)
		if err != nil {
			logger.Warn("Email attachment not loaded", zap.String("path", f.path), zap.Error(err))
			continue
		}
		attachments = append(attachments, Attachment{
			Filename:  filepath.Base(f.path),
			Content:   content,
			ContentID: f.contentID,
		})
	}
	return attachments
}
