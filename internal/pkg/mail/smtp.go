package mail

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	netmail "net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soldertec/site/internal/config"
	"github.com/soldertec/site/internal/pkg/apperr"
)

// SMTPSender sends through a plain SMTP relay. The returned id is the
// generated Message-ID header.
type SMTPSender struct {
	cfg     config.SMTPConfig
	from    string
	replyTo string
	send    func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(cfg config.SMTPConfig, from, replyTo string) *SMTPSender {
	return &SMTPSender{cfg: cfg, from: from, replyTo: replyTo, send: smtp.SendMail}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := validate(msg); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", apperr.EmailDispatch("smtp send", err)
	}

	envelopeFrom := s.from
	if addr, err := netmail.ParseAddress(s.from); err == nil {
		envelopeFrom = addr.Address
	}
	host := s.cfg.Host
	domain := "localhost"
	if at := strings.LastIndexByte(envelopeFrom, '@'); at >= 0 {
		domain = envelopeFrom[at+1:]
	}
	id := uuid.NewString()

	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&body, "Message-ID: <%s@%s>\r\n", id, domain)
	fmt.Fprintf(&body, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&body, "From: %s\r\n", s.from)
	fmt.Fprintf(&body, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&body, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	if replyTo := pick(msg.ReplyTo, s.replyTo); replyTo != "" {
		fmt.Fprintf(&body, "Reply-To: %s\r\n", replyTo)
	}
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, host)
	}
	addr := net.JoinHostPort(host, strconv.Itoa(s.cfg.Port))
	if err := s.send(addr, auth, envelopeFrom, msg.To, body.Bytes()); err != nil {
		return "", apperr.EmailDispatch("smtp send", err)
	}
	return id, nil
}
