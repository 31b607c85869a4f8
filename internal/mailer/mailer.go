// Package mailer отправляет письма пользователям.
// SMTPSender доставляет письма через SMTP сервер, Outbox складывает их
// в локальный bbolt файл для разработки без почтового сервера.
package mailer

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"
)

// VerificationSubject тема письма подтверждения почты
const VerificationSubject = "Verify your JobBoard account"

// Message письмо в формате HTML
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Sender доставляет письма
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// VerificationURL возвращает ссылку подтверждения почты на стороне клиента
func VerificationURL(clientURL, token string) string {
	return strings.TrimRight(clientURL, "/") + "/verify-email?token=" + url.QueryEscape(token)
}

// NewVerificationMessage собирает письмо со ссылкой подтверждения
func NewVerificationMessage(to, clientURL, token string) Message {
	link := html.EscapeString(VerificationURL(clientURL, token))

	return Message{
		To:      to,
		Subject: VerificationSubject,
		HTML: fmt.Sprintf(
			`<p>Please click the link below to verify your email:</p><a href="%s">%s</a>`,
			link, link,
		),
	}
}
