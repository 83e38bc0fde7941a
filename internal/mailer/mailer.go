package mailer

import (
	"context"
	"fmt"
	"net/mail"
)

// Message is a rendered transactional email.
type Message struct {
	To          mail.Address
	Subject     string
	TextContent string
	HTMLContent string
}

// EmailService delivers transactional mail. Implementations must be safe
// for concurrent use.
type EmailService interface {
	Send(ctx context.Context, msg *Message) error
}

// VerificationMessage builds the email sent after registration, pointing
// at the frontend's email confirmation callback.
func VerificationMessage(to mail.Address, displayName, confirmURL string) *Message {
	return &Message{
		To:      to,
		Subject: "Confirma tu correo electrónico",
		TextContent: fmt.Sprintf(
			"Hola %s,\n\nConfirma tu correo para activar tu cuenta:\n%s\n\nSi no creaste esta cuenta, ignora este mensaje.\n",
			displayName, confirmURL),
		HTMLContent: fmt.Sprintf(
			`<p>Hola %s,</p><p>Confirma tu correo para activar tu cuenta:</p><p><a href="%s">Confirmar correo</a></p><p>Si no creaste esta cuenta, ignora este mensaje.</p>`,
			displayName, confirmURL),
	}
}

// RecoveryMessage builds the password recovery email, pointing at the
// frontend's reset-password callback.
func RecoveryMessage(to mail.Address, displayName, resetURL string) *Message {
	return &Message{
		To:      to,
		Subject: "Restablece tu contraseña",
		TextContent: fmt.Sprintf(
			"Hola %s,\n\nRecibimos una solicitud para restablecer tu contraseña:\n%s\n\nSi no fuiste tú, ignora este mensaje.\n",
			displayName, resetURL),
		HTMLContent: fmt.Sprintf(
			`<p>Hola %s,</p><p>Recibimos una solicitud para restablecer tu contraseña:</p><p><a href="%s">Restablecer contraseña</a></p><p>Si no fuiste tú, ignora este mensaje.</p>`,
			displayName, resetURL),
	}
}
