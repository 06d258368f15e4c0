// Package mail envía los avisos de invitación por SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/pkg/config"
)

var inviteTemplate = template.Must(template.New("invite").Parse(`<p>Hola {{if .FullName}}{{.FullName}}{{else}}{{.Email}}{{end}},</p>
<p>Fuiste invitado como <strong>{{.Role}}</strong>. Define tu contraseña para activar la cuenta:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>El enlace vence el {{.Expires}}.</p>`))

// Sender abstrae gomail.Dialer para poder probar sin servidor.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier implementa access.Notifier con gomail.
type SMTPNotifier struct {
	sender Sender
	from   string
}

var _ access.Notifier = (*SMTPNotifier)(nil)

// NewSMTPNotifier construye el notificador con el dialer de la configuración.
func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// NewSMTPNotifierWithSender igual que NewSMTPNotifier con un Sender explícito.
func NewSMTPNotifierWithSender(sender Sender, from string) *SMTPNotifier {
	return &SMTPNotifier{sender: sender, from: from}
}

// NotifyInvite arma el correo con el enlace de activación y lo envía.
// gomail no acepta contexto: solo se respeta una cancelación previa al envío.
func (n *SMTPNotifier) NotifyInvite(ctx context.Context, msg access.InviteNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := n.message(msg)
	if err != nil {
		return err
	}
	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("mail: enviar invitación a %s: %w", msg.Email, err)
	}
	return nil
}

func (n *SMTPNotifier) message(msg access.InviteNotification) (*gomail.Message, error) {
	var body bytes.Buffer
	err := inviteTemplate.Execute(&body, map[string]string{
		"FullName": msg.FullName,
		"Email":    msg.Email,
		"Role":     msg.Role,
		"Link":     activationLink(msg.RedirectTo, msg.Token),
		"Expires":  msg.ExpiresAt.Format("02/01/2006 15:04 MST"),
	})
	if err != nil {
		return nil, fmt.Errorf("mail: plantilla: %w", err)
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetAddressHeader("To", msg.Email, msg.FullName)
	m.SetHeader("Subject", "Invitación a la plataforma")
	m.SetBody("text/html", body.String())
	return m, nil
}

// activationLink agrega el token como query param a la URL de redirección.
func activationLink(redirectTo, token string) string {
	u, err := url.Parse(redirectTo)
	if err != nil {
		return redirectTo + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
